package assethandler

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"isnad-backend/db"
	assetstore "isnad-backend/lib/asset/store"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

type Provider interface {
	Create(userID string, data isnadapimodels.AssetData) (id string, err error)
	GetByID(id string) (view isnadapimodels.AssetView, err error)
	List(filter isnadapimodels.AssetFilter) (list []isnadapimodels.AssetView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: assetstore.NewInstance(db.DB),
	}
}

type impl struct {
	store assetstore.Provider
}

func (i impl) Create(userID string, data isnadapimodels.AssetData) (id string, err error) {
	logger := log.WithField("user_id", userID)
	now := time.Now()
	count, err := i.store.ListCount(isnadapimodels.AssetFilter{})
	if err != nil {
		return "", err
	}
	rec := dbmodels.Asset{
		AssetCode:        fmt.Sprintf("AST-%d-%05d", now.Year(), count+1),
		Name:             data.Name,
		Region:           data.Region,
		City:             data.City,
		District:         data.District,
		AssetType:        data.AssetType,
		LandAreaSqm:      data.LandAreaSqm,
		BuildingAreaSqm:  data.BuildingAreaSqm,
		InvestmentStatus: models.AssetStatusRegistered,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("failed to register the asset")
		return "", err
	}
	logger.WithField("rec_id", id).Info("asset registered")
	return id, nil
}

func (i impl) GetByID(id string) (view isnadapimodels.AssetView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithField("rec_id", id).WithError(err).Error("failed to load the asset")
		return isnadapimodels.AssetView{}, err
	}
	if rec == nil {
		return isnadapimodels.AssetView{}, errors.Wrap(models.ErrNotFound, "asset not found")
	}
	return isnadapimodels.AssetConvert(*rec), nil
}

func (i impl) List(filter isnadapimodels.AssetFilter) (list []isnadapimodels.AssetView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []isnadapimodels.AssetView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		log.WithError(err).Error("failed to list assets")
		return nil, 0, err
	}
	result := make([]isnadapimodels.AssetView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, isnadapimodels.AssetConvert(rec))
	}
	return result, rowCount, nil
}
