package isnadpackagestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.IsnadPackage) (id string, err error)
	GetByID(id string) (rec *dbmodels.IsnadPackage, err error)
	Update(id string, updMap map[string]interface{}) error
	List(filter isnadapimodels.PackageFilter) (list []dbmodels.IsnadPackage, err error)
	ListCount(filter isnadapimodels.PackageFilter) (count int64, err error)
	CountByYear(year int) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.IsnadPackage) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.IsnadPackage, error) {
	rec := dbmodels.IsnadPackage{}
	err := i.db.
		Where("id = ?", id).
		Preload("Forms").
		Preload("Forms.Asset").
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
		Model(&dbmodels.IsnadPackage{}).
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

func (i impl) applyFilter(tx *gorm.DB, filter isnadapimodels.PackageFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		tx = tx.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		tx = tx.Where("package_code ILIKE ? OR package_name ILIKE ?", pattern, pattern)
	}
	return tx
}

func (i impl) List(filter isnadapimodels.PackageFilter) (list []dbmodels.IsnadPackage, err error) {
	list = []dbmodels.IsnadPackage{}
	page, limit := filter.GetPage()
	err = i.applyFilter(i.db.Model(&dbmodels.IsnadPackage{}), filter).
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

func (i impl) ListCount(filter isnadapimodels.PackageFilter) (count int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.IsnadPackage{}), filter).
		Count(&count).
		Error
	return count, err
}

func (i impl) CountByYear(year int) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.IsnadPackage{}).
		Where("EXTRACT(YEAR FROM created_at) = ?", year).
		Count(&count).
		Error
	return count, err
}
