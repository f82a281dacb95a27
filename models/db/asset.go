package dbmodels

import (
	"isnad-backend/models"
)

type Asset struct {
	BaseModel
	AssetCode        string `gorm:"type:varchar(50);uniqueIndex"`
	Name             string `gorm:"type:varchar(255)"`
	Region           string `gorm:"type:varchar(100);index"`
	City             string `gorm:"type:varchar(100)"`
	District         string `gorm:"type:varchar(100)"`
	AssetType        string `gorm:"type:varchar(100)"`
	LandAreaSqm      float64
	BuildingAreaSqm  float64
	InvestmentStatus models.AssetStatus `gorm:"type:varchar(50);index"`
}
