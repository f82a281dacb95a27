package isnadformhandler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testForm(status models.FormStatus, stage models.Stage) dbmodels.IsnadForm {
	rec := dbmodels.IsnadForm{
		BaseModel:        dbmodels.BaseModel{ID: "form-1"},
		FormCode:         "ISN-2025-00001",
		AssetID:          "asset-1",
		InitiatorID:      "initiator-1",
		InitiatorName:    "Initiator",
		Status:           status,
		CurrentStage:     stage,
		CurrentStepIndex: models.StageIndex(stage),
	}
	for k, item := range models.StageOrder {
		step := dbmodels.IsnadWorkflowStep{
			BaseModel:  dbmodels.BaseModel{ID: fmt.Sprintf("step-%v", k)},
			FormID:     rec.ID,
			Position:   k,
			Stage:      item,
			StepStatus: models.StepStatusPending,
		}
		switch {
		case k < rec.CurrentStepIndex:
			step.StepStatus = models.StepStatusApproved
		case k == rec.CurrentStepIndex:
			step.StepStatus = models.StepStatusCurrent
		}
		rec.WorkflowSteps = append(rec.WorkflowSteps, step)
	}
	return rec
}

func reviewer() Actor {
	return Actor{ID: "reviewer-1", Name: "Reviewer", Department: "investment_planning"}
}

func TestSubmitTransition(t *testing.T) {
	t.Run(`draft submit moves to pending verification check`, func(t *testing.T) {
		rec := testForm(models.FormStatusDraft, models.StageIPInitiation)
		rec.WorkflowSteps[0].StepStatus = models.StepStatusPending
		result, err := submitTransition(rec, testNow)
		require.Nil(t, err)
		require.Equal(t, models.FormStatusPendingVerify, result.formUpd["status"])
		require.Equal(t, testNow, result.formUpd["stage_entered_at"])
		require.Equal(t, testNow, result.formUpd["submitted_at"])
		require.Len(t, result.steps, 1)
		require.Equal(t, "step-0", result.steps[0].stepID)
		require.Equal(t, models.StepStatusCurrent, result.steps[0].updMap["step_status"])
	})

	t.Run(`resubmit after return keeps the first submission date check`, func(t *testing.T) {
		submittedAt := testNow.Add(-72 * time.Hour)
		rec := testForm(models.FormStatusChangesRequested, models.StageIPInitiation)
		rec.SubmittedAt = &submittedAt
		result, err := submitTransition(rec, testNow)
		require.Nil(t, err)
		require.Equal(t, models.FormStatusPendingVerify, result.formUpd["status"])
		_, exist := result.formUpd["submitted_at"]
		require.False(t, exist)
	})

	t.Run(`submit from a non-submittable status is rejected check`, func(t *testing.T) {
		for _, status := range []models.FormStatus{
			models.FormStatusPendingVerify,
			models.FormStatusVerifiedFilled,
			models.FormStatusInPackage,
			models.FormStatusApproved,
			models.FormStatusRejected,
			models.FormStatusCancelled,
		} {
			rec := testForm(status, models.StageIPInitiation)
			_, err := submitTransition(rec, testNow)
			require.True(t, errors.Is(err, models.ErrInvalidTransition), "status %v", status)
		}
	})
}

func TestCancelTransition(t *testing.T) {
	t.Run(`initiator may cancel early statuses check`, func(t *testing.T) {
		for _, status := range []models.FormStatus{
			models.FormStatusDraft,
			models.FormStatusPendingVerify,
			models.FormStatusChangesRequested,
		} {
			rec := testForm(status, models.StageIPInitiation)
			result, err := cancelTransition(rec, "asset sold", testNow)
			require.Nil(t, err, "status %v", status)
			require.Equal(t, models.FormStatusCancelled, result.formUpd["status"])
			require.Equal(t, "asset sold", result.formUpd["cancel_reason"])
			require.Equal(t, testNow, result.formUpd["completed_at"])
		}
	})

	t.Run(`cancel is blocked once the form left the early lane check`, func(t *testing.T) {
		for _, status := range []models.FormStatus{
			models.FormStatusVerifiedFilled,
			models.FormStatusInPackage,
			models.FormStatusApproved,
			models.FormStatusCancelled,
		} {
			rec := testForm(status, models.StageFinanceReview)
			_, err := cancelTransition(rec, "asset sold", testNow)
			require.True(t, errors.Is(err, models.ErrInvalidTransition), "status %v", status)
		}
	})
}

func TestSectionEditable(t *testing.T) {
	t.Run(`only the section owned by the current stage is writable check`, func(t *testing.T) {
		sections := []models.SectionName{
			models.SectionSchoolPlanning,
			models.SectionInvestment,
			models.SectionFinance,
			models.SectionSecurityFacility,
		}
		for _, stage := range models.StageOrder {
			rec := testForm(models.FormStatusPendingVerify, stage)
			owned, exist := models.SectionForStage(stage)
			for _, section := range sections {
				err := sectionEditable(rec, section)
				if exist && section == owned {
					require.Nil(t, err, "stage %v section %v", stage, section)
					continue
				}
				require.True(t, errors.Is(err, models.ErrSectionNotEditable), "stage %v section %v", stage, section)
			}
		}
	})

	t.Run(`no edits once the form is packaged or closed check`, func(t *testing.T) {
		for _, status := range []models.FormStatus{
			models.FormStatusInPackage,
			models.FormStatusPendingCeo,
			models.FormStatusPendingMinister,
			models.FormStatusApproved,
			models.FormStatusRejected,
		} {
			rec := testForm(status, models.StageIPInitiation)
			err := sectionEditable(rec, models.SectionInvestment)
			require.True(t, errors.Is(err, models.ErrSectionNotEditable), "status %v", status)
		}
	})
}

func TestApproveTransition(t *testing.T) {
	t.Run(`approve advances to the next stage check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageSchoolPlanningReview)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionApprove, Comments: "ok"}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.StageIPSecondaryReview, result.formUpd["current_stage"])
		require.Equal(t, 2, result.formUpd["current_step_index"])
		require.Equal(t, models.FormStatusPendingVerify, result.formUpd["status"])
		require.Equal(t, testNow, result.formUpd["stage_entered_at"])

		require.Len(t, result.steps, 2)
		require.Equal(t, "step-1", result.steps[0].stepID)
		require.Equal(t, models.StepStatusApproved, result.steps[0].updMap["step_status"])
		require.Equal(t, "Reviewer", result.steps[0].updMap["reviewer_name"])
		require.Equal(t, "step-2", result.steps[1].stepID)
		require.Equal(t, models.StepStatusCurrent, result.steps[1].updMap["step_status"])

		require.NotNil(t, result.audit)
		require.Equal(t, models.ApprovalActionApproved, result.audit.Action)
		require.Equal(t, models.StageSchoolPlanningReview, result.audit.Stage)
		require.Equal(t, "investment_planning", result.audit.ActorDepartment)
	})

	t.Run(`the initiator cannot approve own initiation stage check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageIPInitiation)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionApprove}
		_, err := reviewTransition(rec, data, Actor{ID: rec.InitiatorID, Name: rec.InitiatorName}, false, testNow)
		require.True(t, errors.Is(err, models.ErrInvalidTransition))

		// a different reviewer may sign off the same stage
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.StageSchoolPlanningReview, result.formUpd["current_stage"])
	})

	t.Run(`entering the agency stage switches the status check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageHeadOfEducationReview)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionApprove}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.StageInvestmentAgencyReview, result.formUpd["current_stage"])
		require.Equal(t, models.FormStatusAgencyReview, result.formUpd["status"])
	})

	t.Run(`entering the last stage marks the form verified check`, func(t *testing.T) {
		rec := testForm(models.FormStatusAgencyReview, models.StageInvestmentAgencyReview)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionApprove}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.StageTbcFinalApproval, result.formUpd["current_stage"])
		require.Equal(t, models.FormStatusVerifiedFilled, result.formUpd["status"])
	})

	t.Run(`approving the last stage completes the form check`, func(t *testing.T) {
		rec := testForm(models.FormStatusVerifiedFilled, models.StageTbcFinalApproval)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionApprove}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.FormStatusApproved, result.formUpd["status"])
		require.Equal(t, testNow, result.formUpd["completed_at"])
		_, exist := result.formUpd["current_stage"]
		require.False(t, exist)
		require.Len(t, result.steps, 1)
		require.Equal(t, models.StepStatusApproved, result.steps[0].updMap["step_status"])
	})

	t.Run(`review is refused outside reviewable statuses check`, func(t *testing.T) {
		for _, status := range []models.FormStatus{
			models.FormStatusDraft,
			models.FormStatusChangesRequested,
			models.FormStatusInPackage,
			models.FormStatusApproved,
		} {
			rec := testForm(status, models.StageFinanceReview)
			data := isnadapimodels.ReviewData{Action: models.ReviewActionApprove}
			_, err := reviewTransition(rec, data, reviewer(), false, testNow)
			require.True(t, errors.Is(err, models.ErrInvalidTransition), "status %v", status)
		}
	})
}

func TestRejectTransition(t *testing.T) {
	t.Run(`reject is terminal at any stage check`, func(t *testing.T) {
		for _, stage := range models.StageOrder {
			status := models.FormStatusPendingVerify
			if stage == models.StageTbcFinalApproval {
				status = models.FormStatusVerifiedFilled
			}
			rec := testForm(status, stage)
			data := isnadapimodels.ReviewData{
				Action:                 models.ReviewActionReject,
				RejectionReason:        "site unsuitable",
				RejectionJustification: strings.Repeat("x", 60),
			}
			result, err := reviewTransition(rec, data, reviewer(), false, testNow)
			require.Nil(t, err, "stage %v", stage)
			require.Equal(t, models.FormStatusRejected, result.formUpd["status"])
			require.Equal(t, testNow, result.formUpd["completed_at"])
			require.Len(t, result.steps, 1)
			require.Equal(t, models.StepStatusRejected, result.steps[0].updMap["step_status"])
			require.Equal(t, models.ApprovalActionRejected, result.audit.Action)
		}
	})

	t.Run(`engine refuses rejection without a grounded justification check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageFinanceReview)
		data := isnadapimodels.ReviewData{
			Action:          models.ReviewActionReject,
			RejectionReason: "site unsuitable",
		}
		_, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.True(t, errors.Is(err, models.ErrValidation))

		data.RejectionJustification = strings.Repeat("x", isnadapimodels.RejectionJustificationMinLen-1)
		_, err = reviewTransition(rec, data, reviewer(), false, testNow)
		require.True(t, errors.Is(err, models.ErrValidation))

		data.RejectionReason = ""
		data.RejectionJustification = strings.Repeat("x", isnadapimodels.RejectionJustificationMinLen)
		_, err = reviewTransition(rec, data, reviewer(), false, testNow)
		require.True(t, errors.Is(err, models.ErrValidation))

		data.RejectionReason = "site unsuitable"
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.FormStatusRejected, result.formUpd["status"])
	})

	t.Run(`justification length is enforced at validation check`, func(t *testing.T) {
		short := isnadapimodels.ReviewData{
			Action:                 models.ReviewActionReject,
			RejectionReason:        "site unsuitable",
			RejectionJustification: strings.Repeat("x", isnadapimodels.RejectionJustificationMinLen-1),
		}
		require.NotNil(t, short.Validate())

		exact := short
		exact.RejectionJustification = strings.Repeat("x", isnadapimodels.RejectionJustificationMinLen)
		require.Nil(t, exact.Validate())

		// multibyte runes count as characters, not bytes
		arabic := short
		arabic.RejectionJustification = strings.Repeat("ق", isnadapimodels.RejectionJustificationMinLen)
		require.Nil(t, arabic.Validate())

		noReason := exact
		noReason.RejectionReason = ""
		require.NotNil(t, noReason.Validate())
	})
}

func TestReturnTransition(t *testing.T) {
	t.Run(`return sends the form back to its initiator check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageFinanceReview)
		rec.ReturnCount = 1
		data := isnadapimodels.ReviewData{Action: models.ReviewActionReturn, Comments: "valuation missing"}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Equal(t, models.FormStatusChangesRequested, result.formUpd["status"])
		require.Equal(t, models.StageIPInitiation, result.formUpd["current_stage"])
		require.Equal(t, 0, result.formUpd["current_step_index"])
		require.Equal(t, 2, result.formUpd["return_count"])
		require.Equal(t, models.ApprovalActionModificationRequested, result.audit.Action)

		// every non-pending step is reset
		require.Len(t, result.steps, 4)
		for _, change := range result.steps {
			require.Equal(t, models.StepStatusPending, change.updMap["step_status"])
		}
		// section payloads survive by default
		_, exist := result.formUpd["finance_data"]
		require.False(t, exist)
	})

	t.Run(`strict rework policy wipes section payloads check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageFinanceReview)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionReturn}
		result, err := reviewTransition(rec, data, reviewer(), true, testNow)
		require.Nil(t, err)
		for _, column := range []string{"school_planning_data", "investment_data", "finance_data", "security_facility_data"} {
			value, exist := result.formUpd[column]
			require.True(t, exist, "column %v", column)
			require.Nil(t, value)
		}
	})

	t.Run(`return from the initiation stage is refused check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageIPInitiation)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionReturn}
		_, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.True(t, errors.Is(err, models.ErrInvalidTransition))
	})
}

func TestRequestInfo(t *testing.T) {
	t.Run(`request_info leaves the workflow untouched check`, func(t *testing.T) {
		rec := testForm(models.FormStatusPendingVerify, models.StageSecurityFacilities)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionRequestInfo, Comments: "need the site survey"}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Empty(t, result.formUpd)
		require.Empty(t, result.steps)
		require.NotNil(t, result.audit)
		require.Equal(t, models.ApprovalActionRequestInfo, result.audit.Action)
		require.Equal(t, "need the site survey", result.audit.Comments)
	})

	t.Run(`request_info works even on a packaged form check`, func(t *testing.T) {
		rec := testForm(models.FormStatusInPackage, models.StageTbcFinalApproval)
		data := isnadapimodels.ReviewData{Action: models.ReviewActionRequestInfo}
		result, err := reviewTransition(rec, data, reviewer(), false, testNow)
		require.Nil(t, err)
		require.Empty(t, result.formUpd)
	})
}
