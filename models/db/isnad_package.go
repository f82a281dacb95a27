package dbmodels

import (
	"time"

	"isnad-backend/models"
)

// IsnadPackage is a fixed bundle of verified forms going through the
// CEO -> Minister approval chain. Membership and totals are frozen at
// creation; the package is a valuation snapshot, not a live aggregate.
type IsnadPackage struct {
	BaseModel
	PackageCode    string `gorm:"type:varchar(50);uniqueIndex"`
	PackageName    string `gorm:"type:varchar(255)"`
	Description    string
	Status         models.PackageStatus   `gorm:"type:varchar(50);index"`
	Priority       models.PackagePriority `gorm:"type:varchar(20)"`
	DurationYears  int
	DurationMonths int
	TotalAssets    int
	TotalValuation float64

	SubmittedAt        *time.Time
	CeoReviewedAt      *time.Time
	CeoReviewedBy      string `gorm:"type:varchar(255)"`
	CeoComments        string
	MinisterReviewedAt *time.Time
	MinisterReviewedBy string `gorm:"type:varchar(255)"`
	MinisterComments   string

	Forms []IsnadForm `gorm:"foreignKey:PackageID"`
}
