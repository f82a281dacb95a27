package models

import "github.com/pkg/errors"

type FormStatus string

const (
	FormStatusDraft            FormStatus = "draft"
	FormStatusPendingVerify    FormStatus = "pending_verification"
	FormStatusVerificationDue  FormStatus = "verification_due"
	FormStatusChangesRequested FormStatus = "changes_requested"
	FormStatusVerifiedFilled   FormStatus = "verified_filled"
	FormStatusAgencyReview     FormStatus = "investment_agency_review"
	FormStatusInPackage        FormStatus = "in_package"
	FormStatusPendingCeo       FormStatus = "pending_ceo"
	FormStatusPendingMinister  FormStatus = "pending_minister"
	FormStatusApproved         FormStatus = "approved"
	FormStatusRejected         FormStatus = "rejected"
	FormStatusCancelled        FormStatus = "cancelled"
)

var formStatusHumanName = map[FormStatus]string{
	FormStatusDraft:            "Draft",
	FormStatusPendingVerify:    "Pending verification",
	FormStatusVerificationDue:  "Verification due",
	FormStatusChangesRequested: "Changes requested",
	FormStatusVerifiedFilled:   "Verified and filled",
	FormStatusAgencyReview:     "Investment agency review",
	FormStatusInPackage:        "In package",
	FormStatusPendingCeo:       "Pending CEO approval",
	FormStatusPendingMinister:  "Pending Minister approval",
	FormStatusApproved:         "Approved",
	FormStatusRejected:         "Rejected",
	FormStatusCancelled:        "Cancelled",
}

func (s FormStatus) ToHuman() string {
	if human, exist := formStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s FormStatus) IsTerminal() bool {
	return s == FormStatusApproved || s == FormStatusRejected || s == FormStatusCancelled
}

// AllowSubmit - statuses from which the initiator may (re)submit the form
func (s FormStatus) AllowSubmit() bool {
	return s == FormStatusDraft || s == FormStatusChangesRequested
}

// AllowReview - statuses in which a stage reviewer action is legal
func (s FormStatus) AllowReview() bool {
	return s == FormStatusPendingVerify || s == FormStatusAgencyReview || s == FormStatusVerifiedFilled
}

func (s FormStatus) AllowCancel() bool {
	return s == FormStatusDraft || s == FormStatusPendingVerify || s == FormStatusChangesRequested
}

// AllowSectionEdit - statuses in which section payloads may still change
func (s FormStatus) AllowSectionEdit() bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case FormStatusInPackage, FormStatusPendingCeo, FormStatusPendingMinister:
		return false
	}
	return true
}

// EligibleForPackage - the form cleared all departmental stages and awaits bundling
func (s FormStatus) EligibleForPackage() bool {
	return s == FormStatusVerifiedFilled
}

type StepStatus string

const (
	StepStatusPending  StepStatus = "pending"
	StepStatusCurrent  StepStatus = "current"
	StepStatusApproved StepStatus = "approved"
	StepStatusRejected StepStatus = "rejected"
)

type ReviewAction string

const (
	ReviewActionApprove     ReviewAction = "approve"
	ReviewActionReject      ReviewAction = "reject"
	ReviewActionReturn      ReviewAction = "return"
	ReviewActionRequestInfo ReviewAction = "request_info"
)

func (a ReviewAction) Validate() error {
	switch a {
	case ReviewActionApprove, ReviewActionReject, ReviewActionReturn, ReviewActionRequestInfo:
		return nil
	}
	return errors.Errorf("unknown review action: %v", a)
}

// AuditAction - the value recorded in the approval log for a review action
func (a ReviewAction) AuditAction() ApprovalAction {
	switch a {
	case ReviewActionApprove:
		return ApprovalActionApproved
	case ReviewActionReject:
		return ApprovalActionRejected
	case ReviewActionReturn:
		return ApprovalActionModificationRequested
	}
	return ApprovalActionRequestInfo
}

type ApprovalAction string

const (
	ApprovalActionApproved              ApprovalAction = "approved"
	ApprovalActionRejected              ApprovalAction = "rejected"
	ApprovalActionModificationRequested ApprovalAction = "modification_requested"
	ApprovalActionRequestInfo           ApprovalAction = "request_info"
)

type SLAStatus string

const (
	SLAStatusOnTime  SLAStatus = "on_time"
	SLAStatusWarning SLAStatus = "warning"
	SLAStatusUrgent  SLAStatus = "urgent"
	SLAStatusOverdue SLAStatus = "overdue"
)

// Severity - rank for queue ordering, higher is worse
func (s SLAStatus) Severity() int {
	switch s {
	case SLAStatusOverdue:
		return 3
	case SLAStatusUrgent:
		return 2
	case SLAStatusWarning:
		return 1
	}
	return 0
}

func (s SLAStatus) Validate() error {
	switch s {
	case SLAStatusOnTime, SLAStatusWarning, SLAStatusUrgent, SLAStatusOverdue:
		return nil
	}
	return errors.Errorf("unknown sla status: %v", s)
}

type PackageStatus string

const (
	PackageStatusDraft            PackageStatus = "draft"
	PackageStatusPendingCeo       PackageStatus = "pending_ceo"
	PackageStatusCeoApproved      PackageStatus = "ceo_approved"
	PackageStatusPendingMinister  PackageStatus = "pending_minister"
	PackageStatusMinisterApproved PackageStatus = "minister_approved"
	PackageStatusRejectedCeo      PackageStatus = "rejected_ceo"
	PackageStatusRejectedMinister PackageStatus = "rejected_minister"
)

func (s PackageStatus) IsTerminal() bool {
	return s == PackageStatusMinisterApproved || s == PackageStatusRejectedCeo || s == PackageStatusRejectedMinister
}

func (s PackageStatus) AllowSubmitToCeo() bool {
	return s == PackageStatusDraft
}

func (s PackageStatus) AllowCeoReview() bool {
	return s == PackageStatusPendingCeo
}

func (s PackageStatus) AllowMinisterReview() bool {
	return s == PackageStatusCeoApproved || s == PackageStatusPendingMinister
}

type PackagePriority string

const (
	PackagePriorityLow    PackagePriority = "low"
	PackagePriorityMedium PackagePriority = "medium"
	PackagePriorityHigh   PackagePriority = "high"
)

func (p PackagePriority) Validate() error {
	switch p {
	case PackagePriorityLow, PackagePriorityMedium, PackagePriorityHigh:
		return nil
	}
	return errors.Errorf("unknown package priority: %v", p)
}

type AssetStatus string

const (
	AssetStatusRegistered   AssetStatus = "registered"
	AssetStatusInAssessment AssetStatus = "in_assessment"
	AssetStatusInvestable   AssetStatus = "investable"
)
