package isnadapimodels

import (
	"time"

	"github.com/pkg/errors"
	"isnad-backend/models"
	apimodels "isnad-backend/models/api"
	dbmodels "isnad-backend/models/db"
)

type AssetData struct {
	Name            string  `json:"name"`
	Region          string  `json:"region"`
	City            string  `json:"city"`
	District        string  `json:"district"`
	AssetType       string  `json:"asset_type"`
	LandAreaSqm     float64 `json:"land_area_sqm"`
	BuildingAreaSqm float64 `json:"building_area_sqm"`
}

func (d AssetData) Validate() error {
	if d.Name == "" {
		return errors.New("asset name is required")
	}
	if d.Region == "" {
		return errors.New("asset region is required")
	}
	return nil
}

type AssetFilter struct {
	apimodels.Pagination
	Region string             `json:"region"`
	Status models.AssetStatus `json:"status"`
	Search string             `json:"search"`
}

type AssetView struct {
	AssetData
	ID               string             `json:"id"`
	AssetCode        string             `json:"asset_code"`
	InvestmentStatus models.AssetStatus `json:"investment_status"`
	CreatedAt        time.Time          `json:"created_at"`
}

func AssetConvert(rec dbmodels.Asset) AssetView {
	return AssetView{
		AssetData: AssetData{
			Name:            rec.Name,
			Region:          rec.Region,
			City:            rec.City,
			District:        rec.District,
			AssetType:       rec.AssetType,
			LandAreaSqm:     rec.LandAreaSqm,
			BuildingAreaSqm: rec.BuildingAreaSqm,
		},
		ID:               rec.ID,
		AssetCode:        rec.AssetCode,
		InvestmentStatus: rec.InvestmentStatus,
		CreatedAt:        rec.CreatedAt,
	}
}
