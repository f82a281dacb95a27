package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStages(t *testing.T) {
	t.Run(`stage order is consistent with index lookups check`, func(t *testing.T) {
		for k, stage := range StageOrder {
			require.Equal(t, k, StageIndex(stage))
			found, exist := StageByIndex(k)
			require.True(t, exist)
			require.Equal(t, stage, found)
			require.Nil(t, stage.Validate())
		}
		require.Equal(t, -1, StageIndex(Stage("no_such_stage")))
		_, exist := StageByIndex(len(StageOrder))
		require.False(t, exist)
		_, exist = StageByIndex(-1)
		require.False(t, exist)
	})

	t.Run(`pipeline starts with initiation and ends with final approval check`, func(t *testing.T) {
		require.Equal(t, StageIPInitiation, StageOrder[0])
		require.Equal(t, StageTbcFinalApproval, StageOrder[len(StageOrder)-1])
		require.True(t, IsLastStage(StageTbcFinalApproval))
		require.False(t, IsLastStage(StageInvestmentAgencyReview))
		require.Equal(t, StageTbcFinalApproval, LastPrePackageStage())
	})

	t.Run(`every stage is either section-owning or decision-only check`, func(t *testing.T) {
		for _, stage := range StageOrder {
			section, exist := SectionForStage(stage)
			if exist {
				require.Nil(t, section.Validate(), "stage %v", stage)
				require.False(t, IsDecisionOnly(stage))
			} else {
				require.True(t, IsDecisionOnly(stage))
			}
		}
	})

	t.Run(`both IP stages edit the same section check`, func(t *testing.T) {
		first, exist := SectionForStage(StageIPInitiation)
		require.True(t, exist)
		second, exist := SectionForStage(StageIPSecondaryReview)
		require.True(t, exist)
		require.Equal(t, SectionInvestment, first)
		require.Equal(t, first, second)
	})

	t.Run(`decision stages check`, func(t *testing.T) {
		require.True(t, IsDecisionOnly(StageHeadOfEducationReview))
		require.True(t, IsDecisionOnly(StageInvestmentAgencyReview))
		require.True(t, IsDecisionOnly(StageTbcFinalApproval))
	})

	t.Run(`every section belongs to some stage check`, func(t *testing.T) {
		owned := map[SectionName]bool{}
		for _, stage := range StageOrder {
			if section, exist := SectionForStage(stage); exist {
				owned[section] = true
			}
		}
		for _, section := range []SectionName{SectionSchoolPlanning, SectionInvestment, SectionFinance, SectionSecurityFacility} {
			require.True(t, owned[section], "section %v has no owning stage", section)
		}
	})
}

func TestFormStatusGuards(t *testing.T) {
	t.Run(`terminal statuses lock the form check`, func(t *testing.T) {
		for _, status := range []FormStatus{FormStatusApproved, FormStatusRejected, FormStatusCancelled} {
			require.True(t, status.IsTerminal())
			require.False(t, status.AllowSubmit())
			require.False(t, status.AllowReview())
			require.False(t, status.AllowCancel())
			require.False(t, status.AllowSectionEdit())
			require.False(t, status.EligibleForPackage())
		}
	})

	t.Run(`submit allowed only from draft and changes_requested check`, func(t *testing.T) {
		require.True(t, FormStatusDraft.AllowSubmit())
		require.True(t, FormStatusChangesRequested.AllowSubmit())
		require.False(t, FormStatusPendingVerify.AllowSubmit())
		require.False(t, FormStatusInPackage.AllowSubmit())
	})

	t.Run(`packaged forms are frozen for edits check`, func(t *testing.T) {
		require.False(t, FormStatusInPackage.AllowSectionEdit())
		require.False(t, FormStatusPendingCeo.AllowSectionEdit())
		require.False(t, FormStatusPendingMinister.AllowSectionEdit())
		require.True(t, FormStatusDraft.AllowSectionEdit())
		require.True(t, FormStatusPendingVerify.AllowSectionEdit())
	})

	t.Run(`only verified forms may be bundled check`, func(t *testing.T) {
		require.True(t, FormStatusVerifiedFilled.EligibleForPackage())
		require.False(t, FormStatusPendingVerify.EligibleForPackage())
		require.False(t, FormStatusAgencyReview.EligibleForPackage())
	})
}

func TestPackageStatusGuards(t *testing.T) {
	t.Run(`two-tier chain check`, func(t *testing.T) {
		require.True(t, PackageStatusDraft.AllowSubmitToCeo())
		require.False(t, PackageStatusPendingCeo.AllowSubmitToCeo())

		require.True(t, PackageStatusPendingCeo.AllowCeoReview())
		require.False(t, PackageStatusDraft.AllowCeoReview())

		require.True(t, PackageStatusPendingMinister.AllowMinisterReview())
		require.True(t, PackageStatusCeoApproved.AllowMinisterReview())
		require.False(t, PackageStatusPendingCeo.AllowMinisterReview())
	})

	t.Run(`terminal package statuses check`, func(t *testing.T) {
		for _, status := range []PackageStatus{PackageStatusMinisterApproved, PackageStatusRejectedCeo, PackageStatusRejectedMinister} {
			require.True(t, status.IsTerminal())
			require.False(t, status.AllowSubmitToCeo())
			require.False(t, status.AllowCeoReview())
			require.False(t, status.AllowMinisterReview())
		}
	})
}

func TestReviewAction(t *testing.T) {
	t.Run(`audit action mapping check`, func(t *testing.T) {
		require.Equal(t, ApprovalActionApproved, ReviewActionApprove.AuditAction())
		require.Equal(t, ApprovalActionRejected, ReviewActionReject.AuditAction())
		require.Equal(t, ApprovalActionModificationRequested, ReviewActionReturn.AuditAction())
		require.Equal(t, ApprovalActionRequestInfo, ReviewActionRequestInfo.AuditAction())
	})

	t.Run(`validate check`, func(t *testing.T) {
		require.Nil(t, ReviewActionApprove.Validate())
		require.NotNil(t, ReviewAction("escalate").Validate())
	})
}
