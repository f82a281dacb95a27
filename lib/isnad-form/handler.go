package isnadformhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"isnad-backend/db"
	assetstore "isnad-backend/lib/asset/store"
	isnadapprovalstore "isnad-backend/lib/isnad-approval/store"
	isnadformstore "isnad-backend/lib/isnad-form/store"
	"isnad-backend/lib/sla"
	"isnad-backend/lib/utils/lock"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

type Provider interface {
	Create(ctx context.Context, userID, userName string, data isnadapimodels.FormCreateData) (view isnadapimodels.FormView, err error)
	Submit(ctx context.Context, id, userID string) (view isnadapimodels.FormView, err error)
	SaveSection(ctx context.Context, id, userID, userName string, data isnadapimodels.SectionSaveData) (view isnadapimodels.FormView, err error)
	Review(ctx context.Context, id string, by Actor, data isnadapimodels.ReviewData) (view isnadapimodels.FormView, err error)
	Cancel(ctx context.Context, id, userID string, data isnadapimodels.CancelData) (view isnadapimodels.FormView, err error)
	GetByID(id string) (view isnadapimodels.FormView, err error)
	List(filter isnadapimodels.FormFilter) (list []isnadapimodels.FormView, rowCount int64, err error)
	ApprovalHistory(id string) (list []isnadapimodels.ApprovalView, err error)
}

var Instance Provider

func NewHandler(clock sla.Clock, resetSectionsOnReturn bool) {
	Instance = impl{
		store:                 isnadformstore.NewInstance(db.DB),
		approvalStore:         isnadapprovalstore.NewInstance(db.DB),
		assetStore:            assetstore.NewInstance(db.DB),
		clock:                 clock,
		resetSectionsOnReturn: resetSectionsOnReturn,
	}
}

type impl struct {
	store                 isnadformstore.Provider
	approvalStore         isnadapprovalstore.Provider
	assetStore            assetstore.Provider
	clock                 sla.Clock
	resetSectionsOnReturn bool
}

func (i impl) Create(ctx context.Context, userID, userName string, data isnadapimodels.FormCreateData) (view isnadapimodels.FormView, err error) {
	logger := log.WithField("asset_id", data.AssetID).WithField("user_id", userID)
	asset, err := i.assetStore.GetByID(data.AssetID)
	if err != nil {
		logger.WithError(err).Error("failed to load the asset")
		return isnadapimodels.FormView{}, err
	}
	if asset == nil {
		return isnadapimodels.FormView{}, errors.Wrap(models.ErrNotFound, "asset not found")
	}

	now := time.Now()
	count, err := i.store.CountByYear(now.Year())
	if err != nil {
		return isnadapimodels.FormView{}, err
	}
	rec := dbmodels.IsnadForm{
		FormCode:         fmt.Sprintf("ISN-%d-%05d", now.Year(), count+1),
		AssetID:          data.AssetID,
		InitiatorID:      userID,
		InitiatorName:    userName,
		Status:           models.FormStatusDraft,
		CurrentStage:     models.StageIPInitiation,
		CurrentStepIndex: 0,
		StageEnteredAt:   now,
	}

	var id string
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		store := isnadformstore.NewInstance(tx)
		id, err = store.Create(rec)
		if err != nil {
			return err
		}
		for position, stage := range models.StageOrder {
			step := dbmodels.IsnadWorkflowStep{
				FormID:     id,
				Position:   position,
				Stage:      stage,
				StepStatus: models.StepStatusPending,
			}
			if position == 0 {
				step.StepStatus = models.StepStatusCurrent
			}
			if _, err := store.CreateStep(step); err != nil {
				return errors.Wrapf(err, "failed to seed workflow step %v", stage)
			}
		}
		return assetstore.NewInstance(tx).Update(data.AssetID, map[string]interface{}{
			"investment_status": models.AssetStatusInAssessment,
		})
	})
	if err != nil {
		if !errors.Is(err, models.ErrDuplicateActiveForm) {
			logger.WithError(err).Error("failed to create the form")
		}
		return isnadapimodels.FormView{}, err
	}
	logger.WithField("rec_id", id).Info("isnad form created")
	return i.GetByID(id)
}

func (i impl) Submit(ctx context.Context, id, userID string) (view isnadapimodels.FormView, err error) {
	err = i.withFormLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		tr, err := submitTransition(*rec, time.Now())
		if err != nil {
			return err
		}
		return i.applyTransition(*rec, tr)
	})
	if err != nil {
		return isnadapimodels.FormView{}, err
	}
	log.WithField("rec_id", id).WithField("user_id", userID).Info("isnad form submitted")
	return i.GetByID(id)
}

func (i impl) SaveSection(ctx context.Context, id, userID, userName string, data isnadapimodels.SectionSaveData) (view isnadapimodels.FormView, err error) {
	logger := log.WithField("rec_id", id).WithField("section", data.Section)
	err = i.withFormLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		if err := sectionEditable(*rec, data.Section); err != nil {
			return err
		}
		merged, err := mergeSectionData(rec.SectionData(data.Section), data.Data)
		if err != nil {
			return err
		}
		updMap := map[string]interface{}{
			sectionDataColumn(data.Section): merged,
		}
		if data.IsComplete {
			updMap[sectionCompletedAtColumn(data.Section)] = time.Now()
			updMap[sectionCompletedByColumn(data.Section)] = userName
		}
		return i.store.Update(id, updMap)
	})
	if err != nil {
		return isnadapimodels.FormView{}, err
	}
	logger.Info("section saved")
	return i.GetByID(id)
}

func (i impl) Review(ctx context.Context, id string, by Actor, data isnadapimodels.ReviewData) (view isnadapimodels.FormView, err error) {
	logger := log.WithField("rec_id", id).
		WithField("user_id", by.ID).
		WithField("action", data.Action)
	err = i.withFormLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		tr, err := reviewTransition(*rec, data, by, i.resetSectionsOnReturn, time.Now())
		if err != nil {
			return err
		}
		return i.applyTransition(*rec, tr)
	})
	if err != nil {
		return isnadapimodels.FormView{}, err
	}
	logger.Info("review action applied")
	return i.GetByID(id)
}

func (i impl) Cancel(ctx context.Context, id, userID string, data isnadapimodels.CancelData) (view isnadapimodels.FormView, err error) {
	err = i.withFormLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		tr, err := cancelTransition(*rec, data.Reason, time.Now())
		if err != nil {
			return err
		}
		return i.applyTransition(*rec, tr)
	})
	if err != nil {
		return isnadapimodels.FormView{}, err
	}
	log.WithField("rec_id", id).WithField("user_id", userID).Info("isnad form cancelled")
	return i.GetByID(id)
}

func (i impl) GetByID(id string) (view isnadapimodels.FormView, err error) {
	rec, err := i.getRec(id)
	if err != nil {
		return isnadapimodels.FormView{}, err
	}
	return i.convert(*rec), nil
}

func (i impl) List(filter isnadapimodels.FormFilter) (list []isnadapimodels.FormView, rowCount int64, err error) {
	logger := log.WithField("filter", fmt.Sprintf("%+v", filter))
	if filter.SlaStatus != "" {
		return i.listBySla(filter)
	}
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		logger.WithError(err).Error("failed to count forms")
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []isnadapimodels.FormView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		logger.WithError(err).Error("failed to list forms")
		return nil, 0, err
	}
	result := make([]isnadapimodels.FormView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, i.convert(rec))
	}
	return result, rowCount, nil
}

// listBySla filters on the derived SLA bucket, so pagination happens after
// the bucket of every candidate row is computed.
func (i impl) listBySla(filter isnadapimodels.FormFilter) (list []isnadapimodels.FormView, rowCount int64, err error) {
	recList, err := i.store.ListAll(filter)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	matched := make([]isnadapimodels.FormView, 0, len(recList))
	for _, rec := range recList {
		if rec.Status.IsTerminal() {
			continue
		}
		status := i.clock.StatusAt(rec.CurrentStage, rec.StageEnteredAt, now)
		if status != filter.SlaStatus {
			continue
		}
		matched = append(matched, i.convert(rec))
	}
	rowCount = int64(len(matched))
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []isnadapimodels.FormView{}, rowCount, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], rowCount, nil
}

func (i impl) ApprovalHistory(id string) (list []isnadapimodels.ApprovalView, err error) {
	if _, err = i.getRec(id); err != nil {
		return nil, err
	}
	recList, err := i.approvalStore.ListByForm(id)
	if err != nil {
		log.WithField("rec_id", id).WithError(err).Error("failed to load the approval history")
		return nil, err
	}
	result := make([]isnadapimodels.ApprovalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, isnadapimodels.ApprovalConvert(rec))
	}
	return result, nil
}

func (i impl) convert(rec dbmodels.IsnadForm) isnadapimodels.FormView {
	now := time.Now()
	slaStatus := i.clock.StatusAt(rec.CurrentStage, rec.StageEnteredAt, now)
	return isnadapimodels.FormConvert(rec, slaStatus, sla.DaysPending(rec.StageEnteredAt, now))
}

func (i impl) getRec(id string) (*dbmodels.IsnadForm, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithField("rec_id", id).WithError(err).Error("failed to load the form")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "form not found")
	}
	return rec, nil
}

// applyTransition commits the state change and the audit entry as one unit.
func (i impl) applyTransition(rec dbmodels.IsnadForm, tr transition) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		store := isnadformstore.NewInstance(tx)
		if len(tr.formUpd) > 0 {
			if err := store.Update(rec.ID, tr.formUpd); err != nil {
				return err
			}
		}
		for _, change := range tr.steps {
			if err := store.UpdateStep(change.stepID, change.updMap); err != nil {
				return err
			}
		}
		if tr.audit != nil {
			if _, err := isnadapprovalstore.NewInstance(tx).Create(*tr.audit); err != nil {
				return errors.Wrap(err, "failed to append the approval log entry")
			}
		}
		return nil
	})
}

func (i impl) withFormLock(ctx context.Context, id string, safeCode func() error) error {
	success, err := lock.WithDelay(ctx, "isnad-form:"+id, lock.DefaultWait, safeCode)
	if err != nil {
		return err
	}
	if !success {
		return errors.Errorf("form %v is busy with another transition, try again", id)
	}
	return nil
}

func mergeSectionData(existing datatypes.JSON, incoming map[string]interface{}) (datatypes.JSON, error) {
	merged := map[string]interface{}{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &merged); err != nil {
			return nil, errors.Wrap(err, "stored section payload is not an object")
		}
	}
	for key, value := range incoming {
		merged[key] = value
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func sectionDataColumn(section models.SectionName) string {
	switch section {
	case models.SectionSchoolPlanning:
		return "school_planning_data"
	case models.SectionInvestment:
		return "investment_data"
	case models.SectionFinance:
		return "finance_data"
	}
	return "security_facility_data"
}

func sectionCompletedAtColumn(section models.SectionName) string {
	switch section {
	case models.SectionSchoolPlanning:
		return "school_planning_completed_at"
	case models.SectionInvestment:
		return "investment_completed_at"
	case models.SectionFinance:
		return "finance_completed_at"
	}
	return "security_facility_completed_at"
}

func sectionCompletedByColumn(section models.SectionName) string {
	switch section {
	case models.SectionSchoolPlanning:
		return "school_planning_completed_by"
	case models.SectionInvestment:
		return "investment_completed_by"
	case models.SectionFinance:
		return "finance_completed_by"
	}
	return "security_facility_completed_by"
}
