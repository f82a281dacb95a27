package isnadapimodels

import (
	"testing"

	"github.com/stretchr/testify/require"
	"isnad-backend/models"
)

func TestPackageCreateData(t *testing.T) {
	valid := PackageCreateData{
		PackageName:    "Riyadh schools bundle",
		Priority:       models.PackagePriorityHigh,
		DurationYears:  10,
		DurationMonths: 0,
		FormIDs:        []string{"form-1", "form-2"},
	}

	t.Run(`valid payload check`, func(t *testing.T) {
		require.Nil(t, valid.Validate())
	})

	t.Run(`name is required check`, func(t *testing.T) {
		data := valid
		data.PackageName = ""
		require.NotNil(t, data.Validate())
	})

	t.Run(`priority must be a known value check`, func(t *testing.T) {
		data := valid
		data.Priority = "critical"
		require.NotNil(t, data.Validate())
	})

	t.Run(`at least one form check`, func(t *testing.T) {
		data := valid
		data.FormIDs = nil
		require.NotNil(t, data.Validate())
	})

	t.Run(`duration bounds check`, func(t *testing.T) {
		data := valid
		data.DurationYears = 0
		data.DurationMonths = 0
		require.NotNil(t, data.Validate())

		data.DurationMonths = 12
		require.NotNil(t, data.Validate())

		data.DurationMonths = 11
		require.Nil(t, data.Validate())

		data.DurationYears = -1
		require.NotNil(t, data.Validate())
	})
}

func TestPackageReviewData(t *testing.T) {
	t.Run(`approve needs no comments check`, func(t *testing.T) {
		data := PackageReviewData{Action: models.ReviewActionApprove}
		require.Nil(t, data.Validate())
	})

	t.Run(`reject requires comments check`, func(t *testing.T) {
		data := PackageReviewData{Action: models.ReviewActionReject}
		require.NotNil(t, data.Validate())
		data.Comments = "valuation figures need an independent audit"
		require.Nil(t, data.Validate())
	})

	t.Run(`only approve and reject are legal check`, func(t *testing.T) {
		for _, action := range []models.ReviewAction{models.ReviewActionReturn, models.ReviewActionRequestInfo, "escalate"} {
			data := PackageReviewData{Action: action, Comments: "n/a"}
			require.NotNil(t, data.Validate(), "action %v", action)
		}
	})
}
