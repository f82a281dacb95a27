package isnadapimodels

import (
	"time"

	"isnad-backend/models"
	apimodels "isnad-backend/models/api"
)

type QueueFilter struct {
	apimodels.Pagination
	Region string `json:"region"`
}

// QueueItemView is one row of a department's pending-review queue, worst
// SLA first.
type QueueItemView struct {
	FormID         string            `json:"form_id"`
	FormCode       string            `json:"form_code"`
	AssetID        string            `json:"asset_id"`
	AssetName      string            `json:"asset_name,omitempty"`
	Region         string            `json:"region,omitempty"`
	Status         models.FormStatus `json:"status"`
	SubmittedAt    *time.Time        `json:"submitted_at,omitempty"`
	StageEnteredAt time.Time         `json:"stage_entered_at"`
	DaysPending    int               `json:"days_pending"`
	SlaStatus      models.SLAStatus  `json:"sla_status"`
	DeadlineDays   int               `json:"deadline_days,omitempty"`
}
