package dbmodels

import (
	"isnad-backend/models"
)

// IsnadApproval is the append-only audit log of reviewer actions. Rows are
// never updated or deleted; the approval history view reads from here only.
type IsnadApproval struct {
	BaseModel
	FormID                 string                `gorm:"type:varchar(36);index"`
	Stage                  models.Stage          `gorm:"type:varchar(100)"`
	Action                 models.ApprovalAction `gorm:"type:varchar(50)"`
	Comments               string
	RejectionReason        string
	RejectionJustification string
	ActorID                string `gorm:"type:varchar(36)"`
	ActorName              string `gorm:"type:varchar(255)"`
	ActorDepartment        string `gorm:"type:varchar(255)"`
}
