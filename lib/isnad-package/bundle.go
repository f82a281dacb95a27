package isnadpackagehandler

import (
	"github.com/pkg/errors"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

// buildPackage is the pure half of package creation: it validates every
// referenced form and freezes membership and totals into a draft record.
// Storage, code generation and the claim race live in the handler; the
// totals computed here never change afterwards.
func buildPackage(forms []dbmodels.IsnadForm, data isnadapimodels.PackageCreateData, code string) (dbmodels.IsnadPackage, error) {
	if len(forms) != len(data.FormIDs) {
		return dbmodels.IsnadPackage{}, errors.Wrap(models.ErrFormNotEligible,
			"some referenced forms do not exist")
	}
	totalValuation := 0.0
	for _, form := range forms {
		if form.PackageID != nil {
			return dbmodels.IsnadPackage{}, errors.Wrapf(models.ErrFormNotEligible,
				"form %v already belongs to a package", form.FormCode)
		}
		if !form.Status.EligibleForPackage() {
			return dbmodels.IsnadPackage{}, errors.Wrapf(models.ErrFormNotEligible,
				"form %v is not awaiting packaging (status %v)", form.FormCode, form.Status)
		}
		totalValuation += form.CurrentValuation()
	}
	return dbmodels.IsnadPackage{
		PackageCode:    code,
		PackageName:    data.PackageName,
		Description:    data.Description,
		Status:         models.PackageStatusDraft,
		Priority:       data.Priority,
		DurationYears:  data.DurationYears,
		DurationMonths: data.DurationMonths,
		TotalAssets:    len(forms),
		TotalValuation: totalValuation,
	}, nil
}
