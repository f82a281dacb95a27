package isnadapprovalstore

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbmodels "isnad-backend/models/db"
)

// Append-only store: the approval log exposes Create and List only, there
// is no update or delete path.
type Provider interface {
	Create(rec dbmodels.IsnadApproval) (id string, err error)
	ListByForm(formID string) (list []dbmodels.IsnadApproval, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.IsnadApproval) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByForm(formID string) (list []dbmodels.IsnadApproval, err error) {
	list = []dbmodels.IsnadApproval{}
	err = i.db.
		Where("form_id = ?", formID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
