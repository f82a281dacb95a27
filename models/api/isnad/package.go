package isnadapimodels

import (
	"time"

	"github.com/pkg/errors"
	"isnad-backend/models"
	apimodels "isnad-backend/models/api"
	dbmodels "isnad-backend/models/db"
)

type PackageCreateData struct {
	PackageName    string                 `json:"package_name"`
	Description    string                 `json:"description"`
	Priority       models.PackagePriority `json:"priority"`
	DurationYears  int                    `json:"duration_years"`
	DurationMonths int                    `json:"duration_months"`
	FormIDs        []string               `json:"form_ids"` // membership is frozen after creation
}

func (d PackageCreateData) Validate() error {
	if d.PackageName == "" {
		return errors.New("package name is required")
	}
	if err := d.Priority.Validate(); err != nil {
		return err
	}
	if len(d.FormIDs) == 0 {
		return errors.New("package must reference at least one form")
	}
	if d.DurationYears < 0 || d.DurationMonths < 0 || d.DurationMonths > 11 {
		return errors.New("invalid leasing duration")
	}
	if d.DurationYears == 0 && d.DurationMonths == 0 {
		return errors.New("leasing duration is required")
	}
	return nil
}

type PackageReviewData struct {
	Action   models.ReviewAction `json:"action"` // approve or reject
	Comments string              `json:"comments"`
}

func (d PackageReviewData) Validate() error {
	if d.Action != models.ReviewActionApprove && d.Action != models.ReviewActionReject {
		return errors.Errorf("unsupported package review action: %v", d.Action)
	}
	if d.Action == models.ReviewActionReject && d.Comments == "" {
		return errors.New("rejection comments are required")
	}
	return nil
}

type PackageFilter struct {
	apimodels.Pagination
	Status   models.PackageStatus   `json:"status"`
	Priority models.PackagePriority `json:"priority"`
	Search   string                 `json:"search"` // by package code or name
}

func (f PackageFilter) Validate() error {
	if f.Priority != "" {
		if err := f.Priority.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type PackageFormView struct {
	FormID    string  `json:"form_id"`
	FormCode  string  `json:"form_code"`
	AssetID   string  `json:"asset_id"`
	AssetName string  `json:"asset_name,omitempty"`
	Region    string  `json:"region,omitempty"`
	Valuation float64 `json:"valuation"`
}

type PackageView struct {
	ID             string                 `json:"id"`
	PackageCode    string                 `json:"package_code"`
	PackageName    string                 `json:"package_name"`
	Description    string                 `json:"description,omitempty"`
	Status         models.PackageStatus   `json:"status"`
	Priority       models.PackagePriority `json:"priority"`
	DurationYears  int                    `json:"duration_years"`
	DurationMonths int                    `json:"duration_months"`
	TotalAssets    int                    `json:"total_assets"`
	TotalValuation float64                `json:"total_valuation"`

	Forms []PackageFormView `json:"forms,omitempty"`

	CreatedAt          time.Time  `json:"created_at"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	CeoReviewedAt      *time.Time `json:"ceo_reviewed_at,omitempty"`
	CeoReviewedBy      string     `json:"ceo_reviewed_by,omitempty"`
	CeoComments        string     `json:"ceo_comments,omitempty"`
	MinisterReviewedAt *time.Time `json:"minister_reviewed_at,omitempty"`
	MinisterReviewedBy string     `json:"minister_reviewed_by,omitempty"`
	MinisterComments   string     `json:"minister_comments,omitempty"`
}

func PackageConvert(rec dbmodels.IsnadPackage) PackageView {
	result := PackageView{
		ID:                 rec.ID,
		PackageCode:        rec.PackageCode,
		PackageName:        rec.PackageName,
		Description:        rec.Description,
		Status:             rec.Status,
		Priority:           rec.Priority,
		DurationYears:      rec.DurationYears,
		DurationMonths:     rec.DurationMonths,
		TotalAssets:        rec.TotalAssets,
		TotalValuation:     rec.TotalValuation,
		CreatedAt:          rec.CreatedAt,
		SubmittedAt:        rec.SubmittedAt,
		CeoReviewedAt:      rec.CeoReviewedAt,
		CeoReviewedBy:      rec.CeoReviewedBy,
		CeoComments:        rec.CeoComments,
		MinisterReviewedAt: rec.MinisterReviewedAt,
		MinisterReviewedBy: rec.MinisterReviewedBy,
		MinisterComments:   rec.MinisterComments,
	}
	for _, form := range rec.Forms {
		item := PackageFormView{
			FormID:    form.ID,
			FormCode:  form.FormCode,
			AssetID:   form.AssetID,
			Valuation: form.CurrentValuation(),
		}
		if form.Asset != nil {
			item.AssetName = form.Asset.Name
			item.Region = form.Asset.Region
		}
		result.Forms = append(result.Forms, item)
	}
	return result
}

type EligibleFormView struct {
	FormID    string  `json:"form_id"`
	FormCode  string  `json:"form_code"`
	AssetID   string  `json:"asset_id"`
	AssetName string  `json:"asset_name,omitempty"`
	Region    string  `json:"region,omitempty"`
	Valuation float64 `json:"valuation"`
}

func EligibleFormConvert(rec dbmodels.IsnadForm) EligibleFormView {
	result := EligibleFormView{
		FormID:    rec.ID,
		FormCode:  rec.FormCode,
		AssetID:   rec.AssetID,
		Valuation: rec.CurrentValuation(),
	}
	if rec.Asset != nil {
		result.AssetName = rec.Asset.Name
		result.Region = rec.Asset.Region
	}
	return result
}
