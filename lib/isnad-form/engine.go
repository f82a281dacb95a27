package isnadformhandler

import (
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

// The transition core is pure: it inspects a loaded form and produces the
// update maps and the audit entry for one action. Storage and locking live
// in the handler; everything here is deterministic and unit-testable.

type stepChange struct {
	stepID string
	updMap map[string]interface{}
}

type transition struct {
	formUpd map[string]interface{}
	steps   []stepChange
	audit   *dbmodels.IsnadApproval
}

// Actor identifies who performs a review action; the department lands in
// the audit trail alongside the name.
type Actor struct {
	ID         string
	Name       string
	Department string
}

func submitTransition(rec dbmodels.IsnadForm, now time.Time) (transition, error) {
	if !rec.Status.AllowSubmit() {
		return transition{}, errors.Wrapf(models.ErrInvalidTransition,
			"form %v cannot be submitted from status %v", rec.FormCode, rec.Status)
	}
	result := transition{
		formUpd: map[string]interface{}{
			"status":           models.FormStatusPendingVerify,
			"stage_entered_at": now,
		},
	}
	if rec.SubmittedAt == nil {
		result.formUpd["submitted_at"] = now
	}
	if step := rec.CurrentStep(); step != nil && step.StepStatus != models.StepStatusCurrent {
		result.steps = append(result.steps, stepChange{
			stepID: step.ID,
			updMap: map[string]interface{}{"step_status": models.StepStatusCurrent},
		})
	}
	return result, nil
}

func cancelTransition(rec dbmodels.IsnadForm, reason string, now time.Time) (transition, error) {
	if !rec.Status.AllowCancel() {
		return transition{}, errors.Wrapf(models.ErrInvalidTransition,
			"form %v cannot be cancelled from status %v", rec.FormCode, rec.Status)
	}
	return transition{
		formUpd: map[string]interface{}{
			"status":        models.FormStatusCancelled,
			"cancel_reason": reason,
			"completed_at":  now,
		},
	}, nil
}

// sectionEditable is the write-permission check: exactly one department may
// write at a time, the one owning the current stage.
func sectionEditable(rec dbmodels.IsnadForm, section models.SectionName) error {
	if !rec.Status.AllowSectionEdit() {
		return errors.Wrapf(models.ErrSectionNotEditable,
			"form %v is not editable in status %v", rec.FormCode, rec.Status)
	}
	owned, exist := models.SectionForStage(rec.CurrentStage)
	if !exist {
		return errors.Wrapf(models.ErrSectionNotEditable,
			"stage %v is decision-only", rec.CurrentStage)
	}
	if owned != section {
		return errors.Wrapf(models.ErrSectionNotEditable,
			"stage %v owns section %v, not %v", rec.CurrentStage, owned, section)
	}
	return nil
}

func reviewTransition(rec dbmodels.IsnadForm, data isnadapimodels.ReviewData, by Actor, resetSectionsOnReturn bool, now time.Time) (transition, error) {
	if data.Action == models.ReviewActionRequestInfo {
		// advisory side channel: audit entry only, no state change
		return transition{audit: auditEntry(rec, data, by)}, nil
	}
	if !rec.Status.AllowReview() {
		return transition{}, errors.Wrapf(models.ErrInvalidTransition,
			"form %v cannot be reviewed in status %v", rec.FormCode, rec.Status)
	}
	switch data.Action {
	case models.ReviewActionApprove:
		return approveTransition(rec, data, by, now)
	case models.ReviewActionReject:
		return rejectTransition(rec, data, by, now)
	case models.ReviewActionReturn:
		return returnTransition(rec, data, by, resetSectionsOnReturn, now)
	}
	return transition{}, errors.Wrapf(models.ErrValidation, "unsupported review action %v", data.Action)
}

func approveTransition(rec dbmodels.IsnadForm, data isnadapimodels.ReviewData, by Actor, now time.Time) (transition, error) {
	if rec.CurrentStage == models.StageIPInitiation && by.ID == rec.InitiatorID {
		return transition{}, errors.Wrap(models.ErrInvalidTransition,
			"the initiator cannot approve the initiation stage")
	}
	result := transition{
		formUpd: map[string]interface{}{},
		audit:   auditEntry(rec, data, by),
	}
	step := rec.CurrentStep()
	if step == nil {
		return transition{}, errors.Wrapf(models.ErrInvalidTransition,
			"form %v has no step at position %v", rec.FormCode, rec.CurrentStepIndex)
	}
	result.steps = append(result.steps, stepChange{
		stepID: step.ID,
		updMap: map[string]interface{}{
			"step_status":   models.StepStatusApproved,
			"reviewer_name": by.Name,
		},
	})

	nextStage, exist := models.StageByIndex(rec.CurrentStepIndex + 1)
	if !exist {
		// last stage approved, the form itself is done
		result.formUpd["status"] = models.FormStatusApproved
		result.formUpd["completed_at"] = now
		return result, nil
	}

	result.formUpd["current_stage"] = nextStage
	result.formUpd["current_step_index"] = rec.CurrentStepIndex + 1
	result.formUpd["stage_entered_at"] = now
	result.formUpd["status"] = statusOnStageEntry(nextStage)
	if nextStep := rec.StepByPosition(rec.CurrentStepIndex + 1); nextStep != nil {
		result.steps = append(result.steps, stepChange{
			stepID: nextStep.ID,
			updMap: map[string]interface{}{"step_status": models.StepStatusCurrent},
		})
	}
	return result, nil
}

// statusOnStageEntry maps the newly entered stage to the form status: the
// agency stage has its own status value, the last pre-package stage makes
// the form eligible for bundling, everything else stays pending.
func statusOnStageEntry(stage models.Stage) models.FormStatus {
	switch stage {
	case models.LastPrePackageStage():
		return models.FormStatusVerifiedFilled
	case models.StageInvestmentAgencyReview:
		return models.FormStatusAgencyReview
	}
	return models.FormStatusPendingVerify
}

func rejectTransition(rec dbmodels.IsnadForm, data isnadapimodels.ReviewData, by Actor, now time.Time) (transition, error) {
	// rejection is terminal, so the engine re-asserts the audit requirements
	// instead of trusting the transport layer to have validated them
	if data.RejectionReason == "" {
		return transition{}, errors.Wrap(models.ErrValidation, "rejection reason is required")
	}
	if utf8.RuneCountInString(data.RejectionJustification) < isnadapimodels.RejectionJustificationMinLen {
		return transition{}, errors.Wrapf(models.ErrValidation,
			"rejection justification must be at least %v characters", isnadapimodels.RejectionJustificationMinLen)
	}
	result := transition{
		formUpd: map[string]interface{}{
			"status":       models.FormStatusRejected,
			"completed_at": now,
		},
		audit: auditEntry(rec, data, by),
	}
	if step := rec.CurrentStep(); step != nil {
		result.steps = append(result.steps, stepChange{
			stepID: step.ID,
			updMap: map[string]interface{}{
				"step_status":   models.StepStatusRejected,
				"reviewer_name": by.Name,
			},
		})
	}
	return result, nil
}

func returnTransition(rec dbmodels.IsnadForm, data isnadapimodels.ReviewData, by Actor, resetSections bool, now time.Time) (transition, error) {
	if rec.CurrentStage == models.StageIPInitiation {
		return transition{}, errors.Wrap(models.ErrInvalidTransition,
			"the form is already with its initiator")
	}
	result := transition{
		formUpd: map[string]interface{}{
			"status":             models.FormStatusChangesRequested,
			"current_stage":      models.StageIPInitiation,
			"current_step_index": 0,
			"stage_entered_at":   now,
			"return_count":       rec.ReturnCount + 1,
		},
		audit: auditEntry(rec, data, by),
	}
	for _, step := range rec.WorkflowSteps {
		if step.StepStatus == models.StepStatusPending {
			continue
		}
		result.steps = append(result.steps, stepChange{
			stepID: step.ID,
			updMap: map[string]interface{}{"step_status": models.StepStatusPending},
		})
	}
	if resetSections {
		result.formUpd["school_planning_data"] = nil
		result.formUpd["school_planning_completed_at"] = nil
		result.formUpd["school_planning_completed_by"] = ""
		result.formUpd["investment_data"] = nil
		result.formUpd["investment_completed_at"] = nil
		result.formUpd["investment_completed_by"] = ""
		result.formUpd["finance_data"] = nil
		result.formUpd["finance_completed_at"] = nil
		result.formUpd["finance_completed_by"] = ""
		result.formUpd["security_facility_data"] = nil
		result.formUpd["security_facility_completed_at"] = nil
		result.formUpd["security_facility_completed_by"] = ""
	}
	return result, nil
}

func auditEntry(rec dbmodels.IsnadForm, data isnadapimodels.ReviewData, by Actor) *dbmodels.IsnadApproval {
	return &dbmodels.IsnadApproval{
		FormID:                 rec.ID,
		Stage:                  rec.CurrentStage,
		Action:                 data.Action.AuditAction(),
		Comments:               data.Comments,
		RejectionReason:        data.RejectionReason,
		RejectionJustification: data.RejectionJustification,
		ActorID:                by.ID,
		ActorName:              by.Name,
		ActorDepartment:        by.Department,
	}
}
