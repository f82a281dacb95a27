package sla

import (
	"time"

	"isnad-backend/models"
)

// Thresholds are day marks for one stage: below WarningAfter the form is on
// time, from OverdueAfter on it has breached the stage deadline. A breach is
// advisory only, it never transitions the form.
type Thresholds struct {
	WarningAfter int
	UrgentAfter  int
	OverdueAfter int
}

// defaultThresholds reflect the agreed departmental deadlines: decision
// bodies get a tighter window than the section-filling departments.
var defaultThresholds = map[models.Stage]Thresholds{
	models.StageIPInitiation:           {WarningAfter: 5, UrgentAfter: 8, OverdueAfter: 10},
	models.StageSchoolPlanningReview:   {WarningAfter: 5, UrgentAfter: 8, OverdueAfter: 10},
	models.StageIPSecondaryReview:      {WarningAfter: 5, UrgentAfter: 8, OverdueAfter: 10},
	models.StageFinanceReview:          {WarningAfter: 5, UrgentAfter: 8, OverdueAfter: 10},
	models.StageSecurityFacilities:     {WarningAfter: 5, UrgentAfter: 8, OverdueAfter: 10},
	models.StageHeadOfEducationReview:  {WarningAfter: 3, UrgentAfter: 5, OverdueAfter: 7},
	models.StageInvestmentAgencyReview: {WarningAfter: 3, UrgentAfter: 5, OverdueAfter: 7},
	models.StageTbcFinalApproval:       {WarningAfter: 3, UrgentAfter: 5, OverdueAfter: 7},
}

type Clock struct {
	thresholds map[models.Stage]Thresholds
}

// NewClock builds a clock from the default per-stage table, with optional
// overrides for individual stages.
func NewClock(overrides map[models.Stage]Thresholds) Clock {
	thresholds := make(map[models.Stage]Thresholds, len(defaultThresholds))
	for stage, item := range defaultThresholds {
		thresholds[stage] = item
	}
	for stage, item := range overrides {
		thresholds[stage] = item
	}
	return Clock{thresholds: thresholds}
}

// DaysPending returns whole days elapsed since the stage was entered.
func DaysPending(enteredAt, now time.Time) int {
	if now.Before(enteredAt) {
		return 0
	}
	return int(now.Sub(enteredAt).Hours() / 24)
}

// StatusAt buckets elapsed stage time against the stage thresholds.
func (c Clock) StatusAt(stage models.Stage, enteredAt, now time.Time) models.SLAStatus {
	limits, exist := c.thresholds[stage]
	if !exist {
		return models.SLAStatusOnTime
	}
	days := DaysPending(enteredAt, now)
	switch {
	case days >= limits.OverdueAfter:
		return models.SLAStatusOverdue
	case days >= limits.UrgentAfter:
		return models.SLAStatusUrgent
	case days >= limits.WarningAfter:
		return models.SLAStatusWarning
	}
	return models.SLAStatusOnTime
}

// StageThresholds exposes the effective thresholds of a stage.
func (c Clock) StageThresholds(stage models.Stage) (Thresholds, bool) {
	limits, exist := c.thresholds[stage]
	return limits, exist
}
