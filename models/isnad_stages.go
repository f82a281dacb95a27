package models

import "github.com/pkg/errors"

type Stage string

const (
	StageIPInitiation           Stage = "ip_initiation"
	StageSchoolPlanningReview   Stage = "school_planning_review"
	StageIPSecondaryReview      Stage = "ip_secondary_review"
	StageFinanceReview          Stage = "finance_review"
	StageSecurityFacilities     Stage = "security_facilities_review"
	StageHeadOfEducationReview  Stage = "head_of_education_review"
	StageInvestmentAgencyReview Stage = "investment_agency_review"
	StageTbcFinalApproval       Stage = "tbc_final_approval"
)

// StageOrder is the review pipeline. Every form walks it in this order,
// one department at a time; there are no parallel stages.
var StageOrder = []Stage{
	StageIPInitiation,
	StageSchoolPlanningReview,
	StageIPSecondaryReview,
	StageFinanceReview,
	StageSecurityFacilities,
	StageHeadOfEducationReview,
	StageInvestmentAgencyReview,
	StageTbcFinalApproval,
}

var stageHumanName = map[Stage]string{
	StageIPInitiation:           "Investment & Partnerships initiation",
	StageSchoolPlanningReview:   "School Planning review",
	StageIPSecondaryReview:      "Investment & Partnerships secondary review",
	StageFinanceReview:          "Finance review",
	StageSecurityFacilities:     "Security & Facilities review",
	StageHeadOfEducationReview:  "Head of Education review",
	StageInvestmentAgencyReview: "Investment Agency review",
	StageTbcFinalApproval:       "TBC final approval",
}

func (s Stage) ToHuman() string {
	if human, exist := stageHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s Stage) Validate() error {
	if _, exist := stageHumanName[s]; !exist {
		return errors.Errorf("unknown stage: %v", s)
	}
	return nil
}

// StageIndex returns the position of the stage in StageOrder, -1 if unknown.
func StageIndex(stage Stage) int {
	for k, item := range StageOrder {
		if item == stage {
			return k
		}
	}
	return -1
}

// StageByIndex returns the stage at the given position of StageOrder.
func StageByIndex(idx int) (Stage, bool) {
	if idx < 0 || idx >= len(StageOrder) {
		return "", false
	}
	return StageOrder[idx], true
}

// IsLastStage reports whether no stages remain after the given one.
func IsLastStage(stage Stage) bool {
	return StageIndex(stage) == len(StageOrder)-1
}

// LastPrePackageStage is the stage at which a form becomes eligible for
// bundling into a package.
func LastPrePackageStage() Stage {
	return StageTbcFinalApproval
}

type SectionName string

const (
	SectionSchoolPlanning   SectionName = "school_planning"
	SectionInvestment       SectionName = "investment_partnerships"
	SectionFinance          SectionName = "finance"
	SectionSecurityFacility SectionName = "security_facilities"
)

func (s SectionName) Validate() error {
	switch s {
	case SectionSchoolPlanning, SectionInvestment, SectionFinance, SectionSecurityFacility:
		return nil
	}
	return errors.Errorf("unknown section: %v", s)
}

// stageSection maps each stage to the single section its department may
// edit. Decision-only stages are absent: their sole output is the verdict.
var stageSection = map[Stage]SectionName{
	StageIPInitiation:         SectionInvestment,
	StageSchoolPlanningReview: SectionSchoolPlanning,
	StageIPSecondaryReview:    SectionInvestment,
	StageFinanceReview:        SectionFinance,
	StageSecurityFacilities:   SectionSecurityFacility,
}

// SectionForStage returns the editable section of the stage, if any.
func SectionForStage(stage Stage) (SectionName, bool) {
	section, exist := stageSection[stage]
	return section, exist
}

// IsDecisionOnly reports whether the stage has no editable section.
func IsDecisionOnly(stage Stage) bool {
	_, exist := stageSection[stage]
	return !exist
}
