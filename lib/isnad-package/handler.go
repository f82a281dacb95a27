package isnadpackagehandler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"isnad-backend/db"
	assetstore "isnad-backend/lib/asset/store"
	isnadformstore "isnad-backend/lib/isnad-form/store"
	isnadpackagestore "isnad-backend/lib/isnad-package/store"
	"isnad-backend/lib/utils/lock"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

type Provider interface {
	ListEligibleForms() (list []isnadapimodels.EligibleFormView, err error)
	Create(ctx context.Context, userID, userName string, data isnadapimodels.PackageCreateData) (view isnadapimodels.PackageView, err error)
	SubmitToCeo(ctx context.Context, id, userID string) (view isnadapimodels.PackageView, err error)
	ReviewCeo(ctx context.Context, id, userID, userName string, data isnadapimodels.PackageReviewData) (view isnadapimodels.PackageView, err error)
	ReviewMinister(ctx context.Context, id, userID, userName string, data isnadapimodels.PackageReviewData) (view isnadapimodels.PackageView, err error)
	GetByID(id string) (view isnadapimodels.PackageView, err error)
	List(filter isnadapimodels.PackageFilter) (list []isnadapimodels.PackageView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     isnadpackagestore.NewInstance(db.DB),
		formStore: isnadformstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     isnadpackagestore.Provider
	formStore isnadformstore.Provider
}

func (i impl) ListEligibleForms() (list []isnadapimodels.EligibleFormView, err error) {
	recList, err := i.formStore.ListByStatus(models.FormStatusVerifiedFilled)
	if err != nil {
		log.WithError(err).Error("failed to list eligible forms")
		return nil, err
	}
	result := make([]isnadapimodels.EligibleFormView, 0, len(recList))
	for _, rec := range recList {
		if rec.PackageID != nil {
			continue
		}
		result = append(result, isnadapimodels.EligibleFormConvert(rec))
	}
	return result, nil
}

// Create bundles the referenced forms into a new package. Eligibility is
// re-validated inside the transaction through a conditional update, so a
// form racing into two packages lands in exactly one of them.
func (i impl) Create(ctx context.Context, userID, userName string, data isnadapimodels.PackageCreateData) (view isnadapimodels.PackageView, err error) {
	logger := log.WithField("user_id", userID).WithField("package_name", data.PackageName)
	now := time.Now()
	count, err := i.store.CountByYear(now.Year())
	if err != nil {
		return isnadapimodels.PackageView{}, err
	}

	var id string
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		formStore := isnadformstore.NewInstance(tx)
		forms, err := formStore.ListByIDs(data.FormIDs)
		if err != nil {
			return err
		}
		rec, err := buildPackage(forms, data, fmt.Sprintf("PKG-%d-%04d", now.Year(), count+1))
		if err != nil {
			return err
		}
		id, err = isnadpackagestore.NewInstance(tx).Create(rec)
		if err != nil {
			return err
		}

		for _, form := range forms {
			updated, err := formStore.UpdateWhereStatus(form.ID, models.FormStatusVerifiedFilled, map[string]interface{}{
				"status":     models.FormStatusInPackage,
				"package_id": id,
			})
			if err != nil {
				return err
			}
			if !updated {
				return errors.Wrapf(models.ErrFormNotEligible,
					"form %v was claimed by a concurrent package", form.FormCode)
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrFormNotEligible) {
			logger.WithError(err).Error("failed to create the package")
		}
		return isnadapimodels.PackageView{}, err
	}
	logger.WithField("rec_id", id).Info("investment package created")
	return i.GetByID(id)
}

func (i impl) SubmitToCeo(ctx context.Context, id, userID string) (view isnadapimodels.PackageView, err error) {
	err = i.withPackageLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		if !rec.Status.AllowSubmitToCeo() {
			return errors.Wrapf(models.ErrInvalidTransition,
				"package %v cannot be submitted from status %v", rec.PackageCode, rec.Status)
		}
		return db.DB.Transaction(func(tx *gorm.DB) error {
			err := isnadpackagestore.NewInstance(tx).Update(id, map[string]interface{}{
				"status":       models.PackageStatusPendingCeo,
				"submitted_at": time.Now(),
			})
			if err != nil {
				return err
			}
			return i.updateMemberForms(tx, *rec, map[string]interface{}{
				"status": models.FormStatusPendingCeo,
			})
		})
	})
	if err != nil {
		return isnadapimodels.PackageView{}, err
	}
	log.WithField("rec_id", id).WithField("user_id", userID).Info("package submitted to the CEO")
	return i.GetByID(id)
}

func (i impl) ReviewCeo(ctx context.Context, id, userID, userName string, data isnadapimodels.PackageReviewData) (view isnadapimodels.PackageView, err error) {
	logger := log.WithField("rec_id", id).WithField("user_id", userID).WithField("action", data.Action)
	err = i.withPackageLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		if !rec.Status.AllowCeoReview() {
			return errors.Wrapf(models.ErrInvalidTransition,
				"package %v is not awaiting CEO review (status %v)", rec.PackageCode, rec.Status)
		}
		now := time.Now()
		updMap := map[string]interface{}{
			"ceo_reviewed_at": now,
			"ceo_reviewed_by": userName,
			"ceo_comments":    data.Comments,
		}
		if data.Action == models.ReviewActionApprove {
			// CEO approval immediately opens the Minister tier
			updMap["status"] = models.PackageStatusPendingMinister
			return db.DB.Transaction(func(tx *gorm.DB) error {
				if err := isnadpackagestore.NewInstance(tx).Update(id, updMap); err != nil {
					return err
				}
				return i.updateMemberForms(tx, *rec, map[string]interface{}{
					"status": models.FormStatusPendingMinister,
				})
			})
		}
		// rejection terminates the package; member forms are deliberately
		// left as they are, the failure belongs to the bundle
		updMap["status"] = models.PackageStatusRejectedCeo
		return i.store.Update(id, updMap)
	})
	if err != nil {
		return isnadapimodels.PackageView{}, err
	}
	logger.Info("CEO review applied")
	return i.GetByID(id)
}

func (i impl) ReviewMinister(ctx context.Context, id, userID, userName string, data isnadapimodels.PackageReviewData) (view isnadapimodels.PackageView, err error) {
	logger := log.WithField("rec_id", id).WithField("user_id", userID).WithField("action", data.Action)
	err = i.withPackageLock(ctx, id, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		if !rec.Status.AllowMinisterReview() {
			return errors.Wrapf(models.ErrInvalidTransition,
				"package %v is not awaiting Minister review (status %v)", rec.PackageCode, rec.Status)
		}
		now := time.Now()
		updMap := map[string]interface{}{
			"minister_reviewed_at": now,
			"minister_reviewed_by": userName,
			"minister_comments":    data.Comments,
		}
		if data.Action == models.ReviewActionApprove {
			updMap["status"] = models.PackageStatusMinisterApproved
			return db.DB.Transaction(func(tx *gorm.DB) error {
				if err := isnadpackagestore.NewInstance(tx).Update(id, updMap); err != nil {
					return err
				}
				return i.finalizeMemberForms(tx, *rec, userName, now)
			})
		}
		updMap["status"] = models.PackageStatusRejectedMinister
		return i.store.Update(id, updMap)
	})
	if err != nil {
		return isnadapimodels.PackageView{}, err
	}
	logger.Info("Minister review applied")
	return i.GetByID(id)
}

// finalizeMemberForms closes out every member form after Minister approval:
// forms become approved, their final step is marked, and the underlying
// assets become officially investable.
func (i impl) finalizeMemberForms(tx *gorm.DB, rec dbmodels.IsnadPackage, reviewerName string, now time.Time) error {
	formStore := isnadformstore.NewInstance(tx)
	assetIDs := make([]string, 0, len(rec.Forms))
	for _, form := range rec.Forms {
		loaded, err := formStore.GetByID(form.ID)
		if err != nil {
			return err
		}
		if loaded == nil {
			return errors.Wrapf(models.ErrNotFound, "member form %v disappeared", form.ID)
		}
		err = formStore.Update(form.ID, map[string]interface{}{
			"status":       models.FormStatusApproved,
			"completed_at": now,
		})
		if err != nil {
			return err
		}
		if step := loaded.CurrentStep(); step != nil {
			err = formStore.UpdateStep(step.ID, map[string]interface{}{
				"step_status":   models.StepStatusApproved,
				"reviewer_name": reviewerName,
			})
			if err != nil {
				return err
			}
		}
		assetIDs = append(assetIDs, form.AssetID)
	}
	return assetstore.NewInstance(tx).UpdateByIDs(assetIDs, map[string]interface{}{
		"investment_status": models.AssetStatusInvestable,
	})
}

func (i impl) updateMemberForms(tx *gorm.DB, rec dbmodels.IsnadPackage, updMap map[string]interface{}) error {
	formStore := isnadformstore.NewInstance(tx)
	for _, form := range rec.Forms {
		if err := formStore.Update(form.ID, updMap); err != nil {
			return err
		}
	}
	return nil
}

func (i impl) GetByID(id string) (view isnadapimodels.PackageView, err error) {
	rec, err := i.getRec(id)
	if err != nil {
		return isnadapimodels.PackageView{}, err
	}
	return isnadapimodels.PackageConvert(*rec), nil
}

func (i impl) List(filter isnadapimodels.PackageFilter) (list []isnadapimodels.PackageView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []isnadapimodels.PackageView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		log.WithError(err).Error("failed to list packages")
		return nil, 0, err
	}
	result := make([]isnadapimodels.PackageView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, isnadapimodels.PackageConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) getRec(id string) (*dbmodels.IsnadPackage, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithField("rec_id", id).WithError(err).Error("failed to load the package")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "package not found")
	}
	return rec, nil
}

func (i impl) withPackageLock(ctx context.Context, id string, safeCode func() error) error {
	success, err := lock.WithDelay(ctx, "isnad-package:"+id, lock.DefaultWait, safeCode)
	if err != nil {
		return err
	}
	if !success {
		return errors.Errorf("package %v is busy with another transition, try again", id)
	}
	return nil
}
