package isnadapimodels

import (
	"encoding/json"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"isnad-backend/models"
	apimodels "isnad-backend/models/api"
	dbmodels "isnad-backend/models/db"
)

// RejectionJustificationMinLen is enforced at the engine layer, not in the UI.
const RejectionJustificationMinLen = 50

type FormCreateData struct {
	AssetID string `json:"asset_id"` // asset under assessment
}

func (d FormCreateData) Validate() error {
	if d.AssetID == "" {
		return errors.New("asset reference is required")
	}
	return nil
}

type SectionSaveData struct {
	Section    models.SectionName     `json:"section"`
	Data       map[string]interface{} `json:"data"`
	IsComplete bool                   `json:"is_complete"` // stamps section completion
}

func (d SectionSaveData) Validate() error {
	if err := d.Section.Validate(); err != nil {
		return err
	}
	if len(d.Data) == 0 {
		return errors.New("section payload is empty")
	}
	return nil
}

type ReviewData struct {
	Action                 models.ReviewAction `json:"action"`
	Comments               string              `json:"comments"`
	RejectionReason        string              `json:"rejection_reason"`
	RejectionJustification string              `json:"rejection_justification"`
}

func (d ReviewData) Validate() error {
	if err := d.Action.Validate(); err != nil {
		return err
	}
	if d.Action == models.ReviewActionReject {
		if d.RejectionReason == "" {
			return errors.New("rejection reason is required")
		}
		if utf8.RuneCountInString(d.RejectionJustification) < RejectionJustificationMinLen {
			return errors.Errorf("rejection justification must be at least %v characters", RejectionJustificationMinLen)
		}
	}
	return nil
}

type CancelData struct {
	Reason string `json:"reason"`
}

func (d CancelData) Validate() error {
	if d.Reason == "" {
		return errors.New("cancellation reason is required")
	}
	return nil
}

type FormFilter struct {
	apimodels.Pagination
	Status    models.FormStatus `json:"status"`
	Stage     models.Stage      `json:"stage"`
	Region    string            `json:"region"`
	SlaStatus models.SLAStatus  `json:"sla_status"`
	Search    string            `json:"search"` // by form code or asset name
}

func (f FormFilter) Validate() error {
	if f.SlaStatus != "" {
		if err := f.SlaStatus.Validate(); err != nil {
			return err
		}
	}
	if f.Stage != "" {
		if err := f.Stage.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type WorkflowStepView struct {
	Position     int               `json:"position"`
	Stage        models.Stage      `json:"stage"`
	StageName    string            `json:"stage_name"`
	Status       models.StepStatus `json:"status"`
	ReviewerName string            `json:"reviewer_name,omitempty"`
}

type SectionView struct {
	Data        json.RawMessage `json:"data,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CompletedBy string          `json:"completed_by,omitempty"`
}

type FormView struct {
	ID               string            `json:"id"`
	FormCode         string            `json:"form_code"`
	AssetID          string            `json:"asset_id"`
	AssetName        string            `json:"asset_name,omitempty"`
	Region           string            `json:"region,omitempty"`
	InitiatorName    string            `json:"initiator_name,omitempty"`
	Status           models.FormStatus `json:"status"`
	StatusName       string            `json:"status_name"`
	CurrentStage     models.Stage      `json:"current_stage"`
	CurrentStageName string            `json:"current_stage_name"`
	CurrentStepIndex int               `json:"current_step_index"`
	StageEnteredAt   time.Time         `json:"stage_entered_at"`
	ReturnCount      int               `json:"return_count"`
	SlaStatus        models.SLAStatus  `json:"sla_status"`
	DaysPending      int               `json:"days_pending"`
	ApprovalProgress string            `json:"approval_progress"` // e.g. 3/8
	SectionsComplete int               `json:"sections_complete"`

	Sections      map[models.SectionName]SectionView `json:"sections"`
	WorkflowSteps []WorkflowStepView                 `json:"workflow_steps"`

	PackageID    string     `json:"package_id,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// FormConvert builds the API snapshot. SLA fields are computed by the caller
// through the clock, they are never read from storage.
func FormConvert(rec dbmodels.IsnadForm, slaStatus models.SLAStatus, daysPending int) FormView {
	result := FormView{
		ID:               rec.ID,
		FormCode:         rec.FormCode,
		AssetID:          rec.AssetID,
		InitiatorName:    rec.InitiatorName,
		Status:           rec.Status,
		CurrentStage:     rec.CurrentStage,
		CurrentStageName: rec.CurrentStage.ToHuman(),
		CurrentStepIndex: rec.CurrentStepIndex,
		StageEnteredAt:   rec.StageEnteredAt,
		ReturnCount:      rec.ReturnCount,
		SlaStatus:        slaStatus,
		DaysPending:      daysPending,
		ApprovalProgress: approvalProgress(rec),
		SectionsComplete: rec.CompletedSectionCount(),
		Sections:         sectionViews(rec),
		WorkflowSteps:    stepViews(rec),
		CancelReason:     rec.CancelReason,
		CreatedAt:        rec.CreatedAt,
		SubmittedAt:      rec.SubmittedAt,
		CompletedAt:      rec.CompletedAt,
	}
	// a pending form past its stage deadline surfaces as verification due;
	// the persisted status stays pending_verification
	if rec.Status == models.FormStatusPendingVerify && slaStatus == models.SLAStatusOverdue {
		result.Status = models.FormStatusVerificationDue
	}
	result.StatusName = result.Status.ToHuman()
	if rec.Asset != nil {
		result.AssetName = rec.Asset.Name
		result.Region = rec.Asset.Region
	}
	if rec.PackageID != nil {
		result.PackageID = *rec.PackageID
	}
	return result
}

func approvalProgress(rec dbmodels.IsnadForm) string {
	return strconv.Itoa(rec.ApprovedStepCount()) + "/" + strconv.Itoa(len(rec.WorkflowSteps))
}

func sectionViews(rec dbmodels.IsnadForm) map[models.SectionName]SectionView {
	result := map[models.SectionName]SectionView{}
	for _, section := range []models.SectionName{
		models.SectionSchoolPlanning,
		models.SectionInvestment,
		models.SectionFinance,
		models.SectionSecurityFacility,
	} {
		view := SectionView{
			CompletedAt: rec.SectionCompletedAt(section),
		}
		if data := rec.SectionData(section); len(data) > 0 {
			view.Data = json.RawMessage(data)
		}
		switch section {
		case models.SectionSchoolPlanning:
			view.CompletedBy = rec.SchoolPlanningCompletedBy
		case models.SectionInvestment:
			view.CompletedBy = rec.InvestmentCompletedBy
		case models.SectionFinance:
			view.CompletedBy = rec.FinanceCompletedBy
		case models.SectionSecurityFacility:
			view.CompletedBy = rec.SecurityFacilityCompletedBy
		}
		result[section] = view
	}
	return result
}

func stepViews(rec dbmodels.IsnadForm) []WorkflowStepView {
	result := make([]WorkflowStepView, 0, len(rec.WorkflowSteps))
	for _, step := range rec.WorkflowSteps {
		result = append(result, WorkflowStepView{
			Position:     step.Position,
			Stage:        step.Stage,
			StageName:    step.Stage.ToHuman(),
			Status:       step.StepStatus,
			ReviewerName: step.ReviewerName,
		})
	}
	return result
}

type ApprovalView struct {
	ID                     string                `json:"id"`
	Stage                  models.Stage          `json:"stage"`
	StageName              string                `json:"stage_name"`
	Action                 models.ApprovalAction `json:"action"`
	Comments               string                `json:"comments,omitempty"`
	RejectionReason        string                `json:"rejection_reason,omitempty"`
	RejectionJustification string                `json:"rejection_justification,omitempty"`
	ActorName              string                `json:"actor_name"`
	ActorDepartment        string                `json:"actor_department,omitempty"`
	CreatedAt              time.Time             `json:"created_at"`
}

func ApprovalConvert(rec dbmodels.IsnadApproval) ApprovalView {
	return ApprovalView{
		ID:                     rec.ID,
		Stage:                  rec.Stage,
		StageName:              rec.Stage.ToHuman(),
		Action:                 rec.Action,
		Comments:               rec.Comments,
		RejectionReason:        rec.RejectionReason,
		RejectionJustification: rec.RejectionJustification,
		ActorName:              rec.ActorName,
		ActorDepartment:        rec.ActorDepartment,
		CreatedAt:              rec.CreatedAt,
	}
}
