package assetstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Asset) (id string, err error)
	GetByID(id string) (rec *dbmodels.Asset, err error)
	Update(id string, updMap map[string]interface{}) error
	UpdateByIDs(ids []string, updMap map[string]interface{}) error
	List(filter isnadapimodels.AssetFilter) (list []dbmodels.Asset, err error)
	ListCount(filter isnadapimodels.AssetFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Asset) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Asset, error) {
	rec := dbmodels.Asset{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Asset{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (i impl) UpdateByIDs(ids []string, updMap map[string]interface{}) error {
	if len(ids) == 0 || len(updMap) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.Asset{}).
		Where("id IN ?", ids).
		Updates(updMap).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter isnadapimodels.AssetFilter) *gorm.DB {
	if filter.Region != "" {
		tx = tx.Where("region = ?", filter.Region)
	}
	if filter.Status != "" {
		tx = tx.Where("investment_status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		tx = tx.Where("asset_code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	return tx
}

func (i impl) List(filter isnadapimodels.AssetFilter) (list []dbmodels.Asset, err error) {
	list = []dbmodels.Asset{}
	page, limit := filter.GetPage()
	err = i.applyFilter(i.db.Model(&dbmodels.Asset{}), filter).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter isnadapimodels.AssetFilter) (count int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.Asset{}), filter).
		Count(&count).
		Error
	return count, err
}
