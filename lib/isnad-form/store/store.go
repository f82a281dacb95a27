package isnadformstore

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.IsnadForm) (id string, err error)
	GetByID(id string) (rec *dbmodels.IsnadForm, err error)
	Update(id string, updMap map[string]interface{}) error
	UpdateWhereStatus(id string, status models.FormStatus, updMap map[string]interface{}) (updated bool, err error)
	List(filter isnadapimodels.FormFilter) (list []dbmodels.IsnadForm, err error)
	ListAll(filter isnadapimodels.FormFilter) (list []dbmodels.IsnadForm, err error)
	ListCount(filter isnadapimodels.FormFilter) (count int64, err error)
	ListByStage(stage models.Stage) (list []dbmodels.IsnadForm, err error)
	ListByStatus(status models.FormStatus) (list []dbmodels.IsnadForm, err error)
	ListByIDs(ids []string) (list []dbmodels.IsnadForm, err error)
	CountByYear(year int) (count int64, err error)
	CreateStep(rec dbmodels.IsnadWorkflowStep) (id string, err error)
	UpdateStep(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.IsnadForm) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		if isConstraintViolation(err, activeAssetConstraint) {
			return "", models.ErrDuplicateActiveForm
		}
		// other unique breaches (form_code collision between concurrent
		// creates) surface as-is so the caller can retry
		return "", err
	}
	return rec.ID, nil
}

// activeAssetConstraint is the partial unique index from the migration
// enforcing one non-terminal form per asset.
const activeAssetConstraint = "idx_isnad_forms_active_asset"

const uniqueViolationCode = "23505"

// isConstraintViolation matches a unique breach of the named constraint
// across driver error shapes.
func isConstraintViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == constraint
	}
	return false
}

func (i impl) GetByID(id string) (*dbmodels.IsnadForm, error) {
	rec := dbmodels.IsnadForm{}
	err := i.db.
		Where("id = ?", id).
		Preload("Asset").
		Preload("WorkflowSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
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
		Model(&dbmodels.IsnadForm{}).
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

// UpdateWhereStatus applies the update only when the form still carries the
// expected status. The caller relies on this for check-and-mark atomicity.
func (i impl) UpdateWhereStatus(id string, status models.FormStatus, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.IsnadForm{}).
		Where("id = ?", id).
		Where("status = ?", status).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter isnadapimodels.FormFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("isnad_forms.status = ?", filter.Status)
	}
	if filter.Stage != "" {
		tx = tx.Where("isnad_forms.current_stage = ?", filter.Stage)
	}
	if filter.Region != "" || filter.Search != "" {
		tx = tx.Joins("LEFT JOIN assets ON assets.id = isnad_forms.asset_id")
	}
	if filter.Region != "" {
		tx = tx.Where("assets.region = ?", filter.Region)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		tx = tx.Where("isnad_forms.form_code ILIKE ? OR assets.name ILIKE ?", pattern, pattern)
	}
	return tx
}

func (i impl) List(filter isnadapimodels.FormFilter) (list []dbmodels.IsnadForm, err error) {
	list = []dbmodels.IsnadForm{}
	page, limit := filter.GetPage()
	tx := i.applyFilter(i.db.Model(&dbmodels.IsnadForm{}), filter).
		Preload("Asset").
		Preload("WorkflowSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("isnad_forms.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit)
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

// ListAll ignores pagination; used when the caller filters on a derived
// value and pages afterwards.
func (i impl) ListAll(filter isnadapimodels.FormFilter) (list []dbmodels.IsnadForm, err error) {
	list = []dbmodels.IsnadForm{}
	err = i.applyFilter(i.db.Model(&dbmodels.IsnadForm{}), filter).
		Preload("Asset").
		Preload("WorkflowSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("isnad_forms.created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter isnadapimodels.FormFilter) (count int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.IsnadForm{}), filter).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListByStage(stage models.Stage) (list []dbmodels.IsnadForm, err error) {
	list = []dbmodels.IsnadForm{}
	err = i.db.
		Where("current_stage = ?", stage).
		Where("status NOT IN ?", []models.FormStatus{
			models.FormStatusApproved,
			models.FormStatusRejected,
			models.FormStatusCancelled,
		}).
		Preload("Asset").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByStatus(status models.FormStatus) (list []dbmodels.IsnadForm, err error) {
	list = []dbmodels.IsnadForm{}
	err = i.db.
		Where("status = ?", status).
		Preload("Asset").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByIDs(ids []string) (list []dbmodels.IsnadForm, err error) {
	list = []dbmodels.IsnadForm{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Where("id IN ?", ids).
		Preload("Asset").
		Preload("WorkflowSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByYear(year int) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.IsnadForm{}).
		Where("EXTRACT(YEAR FROM created_at) = ?", year).
		Count(&count).
		Error
	return count, err
}

func (i impl) CreateStep(rec dbmodels.IsnadWorkflowStep) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateStep(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.IsnadWorkflowStep{}).
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
