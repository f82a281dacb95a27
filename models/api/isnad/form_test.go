package isnadapimodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"isnad-backend/models"
	dbmodels "isnad-backend/models/db"
)

func TestFormConvert(t *testing.T) {
	rec := dbmodels.IsnadForm{
		BaseModel:    dbmodels.BaseModel{ID: "form-1"},
		FormCode:     "ISN-2025-00007",
		AssetID:      "asset-1",
		Status:       models.FormStatusPendingVerify,
		CurrentStage: models.StageFinanceReview,
		Asset: &dbmodels.Asset{
			Name:   "Al Noor school site",
			Region: "Riyadh",
		},
	}
	for k, stage := range models.StageOrder {
		status := models.StepStatusPending
		if k < 3 {
			status = models.StepStatusApproved
		}
		rec.WorkflowSteps = append(rec.WorkflowSteps, dbmodels.IsnadWorkflowStep{
			Position:   k,
			Stage:      stage,
			StepStatus: status,
		})
	}

	t.Run(`overdue pending form surfaces as verification due check`, func(t *testing.T) {
		view := FormConvert(rec, models.SLAStatusOverdue, 12)
		require.Equal(t, models.FormStatusVerificationDue, view.Status)
		require.Equal(t, "Verification due", view.StatusName)
		require.Equal(t, 12, view.DaysPending)
	})

	t.Run(`stored status is kept while the deadline holds check`, func(t *testing.T) {
		view := FormConvert(rec, models.SLAStatusWarning, 6)
		require.Equal(t, models.FormStatusPendingVerify, view.Status)
	})

	t.Run(`overdue does not relabel other statuses check`, func(t *testing.T) {
		packaged := rec
		packaged.Status = models.FormStatusInPackage
		view := FormConvert(packaged, models.SLAStatusOverdue, 12)
		require.Equal(t, models.FormStatusInPackage, view.Status)
	})

	t.Run(`approval progress counts signed-off stages check`, func(t *testing.T) {
		view := FormConvert(rec, models.SLAStatusOnTime, 0)
		require.Equal(t, "3/8", view.ApprovalProgress)
		require.Len(t, view.WorkflowSteps, len(models.StageOrder))
	})

	t.Run(`completed sections are counted into the view check`, func(t *testing.T) {
		stamped := rec
		now := time.Now()
		stamped.SchoolPlanningCompletedAt = &now
		stamped.FinanceCompletedAt = &now
		view := FormConvert(stamped, models.SLAStatusOnTime, 0)
		require.Equal(t, 2, view.SectionsComplete)

		view = FormConvert(rec, models.SLAStatusOnTime, 0)
		require.Equal(t, 0, view.SectionsComplete)
	})

	t.Run(`asset fields are flattened into the view check`, func(t *testing.T) {
		view := FormConvert(rec, models.SLAStatusOnTime, 0)
		require.Equal(t, "Al Noor school site", view.AssetName)
		require.Equal(t, "Riyadh", view.Region)
	})
}
