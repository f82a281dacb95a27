package dbmodels

import (
	"encoding/json"
	"time"

	"isnad-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IsnadForm struct {
	BaseModel
	FormCode      string `gorm:"type:varchar(50);uniqueIndex"`
	AssetID       string `gorm:"type:varchar(36);index"`
	Asset         *Asset
	InitiatorID   string            `gorm:"type:varchar(36)"`
	InitiatorName string            `gorm:"type:varchar(255)"`
	Status        models.FormStatus `gorm:"type:varchar(50);index"`

	CurrentStage     models.Stage `gorm:"type:varchar(100);index"`
	CurrentStepIndex int
	StageEnteredAt   time.Time
	ReturnCount      int

	SchoolPlanningData        datatypes.JSON
	SchoolPlanningCompletedAt *time.Time
	SchoolPlanningCompletedBy string `gorm:"type:varchar(255)"`

	InvestmentData        datatypes.JSON
	InvestmentCompletedAt *time.Time
	InvestmentCompletedBy string `gorm:"type:varchar(255)"`

	FinanceData        datatypes.JSON
	FinanceCompletedAt *time.Time
	FinanceCompletedBy string `gorm:"type:varchar(255)"`

	SecurityFacilityData        datatypes.JSON
	SecurityFacilityCompletedAt *time.Time
	SecurityFacilityCompletedBy string `gorm:"type:varchar(255)"`

	SubmittedAt  *time.Time
	CompletedAt  *time.Time
	CancelReason string

	PackageID *string `gorm:"type:varchar(36);index"`

	WorkflowSteps []IsnadWorkflowStep `gorm:"foreignKey:FormID"`
	Approvals     []IsnadApproval     `gorm:"foreignKey:FormID"`
}

// IsnadWorkflowStep is one entry of the form's ordered review pipeline.
// Rows are seeded from the stage order at creation and only change status.
type IsnadWorkflowStep struct {
	BaseModel
	FormID       string `gorm:"type:varchar(36);index"`
	Position     int
	Stage        models.Stage      `gorm:"type:varchar(100)"`
	StepStatus   models.StepStatus `gorm:"type:varchar(20)"`
	ReviewerName string            `gorm:"type:varchar(255)"`
}

func (f *IsnadForm) AfterDelete(tx *gorm.DB) (err error) {
	if f.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("form_id = ?", f.ID).Delete(&IsnadWorkflowStep{})
	return
}

// CurrentStep returns the workflow step at the form's current position.
func (f IsnadForm) CurrentStep() *IsnadWorkflowStep {
	for k := range f.WorkflowSteps {
		if f.WorkflowSteps[k].Position == f.CurrentStepIndex {
			return &f.WorkflowSteps[k]
		}
	}
	return nil
}

// StepByPosition returns the workflow step at the given position.
func (f IsnadForm) StepByPosition(position int) *IsnadWorkflowStep {
	for k := range f.WorkflowSteps {
		if f.WorkflowSteps[k].Position == position {
			return &f.WorkflowSteps[k]
		}
	}
	return nil
}

// SectionData returns the stored payload of the named section.
func (f IsnadForm) SectionData(section models.SectionName) datatypes.JSON {
	switch section {
	case models.SectionSchoolPlanning:
		return f.SchoolPlanningData
	case models.SectionInvestment:
		return f.InvestmentData
	case models.SectionFinance:
		return f.FinanceData
	case models.SectionSecurityFacility:
		return f.SecurityFacilityData
	}
	return nil
}

// SectionCompletedAt returns the completion stamp of the named section.
func (f IsnadForm) SectionCompletedAt(section models.SectionName) *time.Time {
	switch section {
	case models.SectionSchoolPlanning:
		return f.SchoolPlanningCompletedAt
	case models.SectionInvestment:
		return f.InvestmentCompletedAt
	case models.SectionFinance:
		return f.FinanceCompletedAt
	case models.SectionSecurityFacility:
		return f.SecurityFacilityCompletedAt
	}
	return nil
}

type financeAnalysis struct {
	FinancialAnalysis struct {
		CurrentValuation float64 `json:"current_valuation"`
	} `json:"financial_analysis"`
}

// CurrentValuation extracts the asset valuation from the finance section
// payload; zero when the section is empty or carries no analysis yet.
func (f IsnadForm) CurrentValuation() float64 {
	if len(f.FinanceData) == 0 {
		return 0
	}
	parsed := financeAnalysis{}
	if err := json.Unmarshal(f.FinanceData, &parsed); err != nil {
		return 0
	}
	return parsed.FinancialAnalysis.CurrentValuation
}

// CompletedSectionCount counts sections carrying a completion stamp.
func (f IsnadForm) CompletedSectionCount() int {
	count := 0
	for _, section := range []models.SectionName{
		models.SectionSchoolPlanning,
		models.SectionInvestment,
		models.SectionFinance,
		models.SectionSecurityFacility,
	} {
		if f.SectionCompletedAt(section) != nil {
			count++
		}
	}
	return count
}

// ApprovedStepCount counts pipeline steps already approved.
func (f IsnadForm) ApprovedStepCount() int {
	count := 0
	for _, step := range f.WorkflowSteps {
		if step.StepStatus == models.StepStatusApproved {
			count++
		}
	}
	return count
}
