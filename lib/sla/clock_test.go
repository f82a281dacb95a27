package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"isnad-backend/models"
)

func TestClock(t *testing.T) {
	clock := NewClock(nil)
	enteredAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run(`review stage buckets check`, func(t *testing.T) {
		cases := []struct {
			days     int
			expected models.SLAStatus
		}{
			{days: 0, expected: models.SLAStatusOnTime},
			{days: 4, expected: models.SLAStatusOnTime},
			{days: 5, expected: models.SLAStatusWarning},
			{days: 7, expected: models.SLAStatusWarning},
			{days: 8, expected: models.SLAStatusUrgent},
			{days: 9, expected: models.SLAStatusUrgent},
			{days: 10, expected: models.SLAStatusOverdue},
			{days: 30, expected: models.SLAStatusOverdue},
		}
		for _, c := range cases {
			now := enteredAt.Add(time.Duration(c.days) * 24 * time.Hour)
			require.Equal(t, c.expected, clock.StatusAt(models.StageFinanceReview, enteredAt, now), "day %v", c.days)
		}
	})

	t.Run(`decision stage has a tighter window check`, func(t *testing.T) {
		now := enteredAt.Add(7 * 24 * time.Hour)
		require.Equal(t, models.SLAStatusWarning, clock.StatusAt(models.StageFinanceReview, enteredAt, now))
		require.Equal(t, models.SLAStatusOverdue, clock.StatusAt(models.StageTbcFinalApproval, enteredAt, now))
	})

	t.Run(`status never improves as time passes check`, func(t *testing.T) {
		for _, stage := range models.StageOrder {
			prev := 0
			for days := 0; days <= 20; days++ {
				now := enteredAt.Add(time.Duration(days) * 24 * time.Hour)
				severity := clock.StatusAt(stage, enteredAt, now).Severity()
				require.GreaterOrEqual(t, severity, prev, "stage %v day %v", stage, days)
				prev = severity
			}
		}
	})

	t.Run(`overrides replace per-stage thresholds check`, func(t *testing.T) {
		custom := NewClock(map[models.Stage]Thresholds{
			models.StageFinanceReview: {WarningAfter: 1, UrgentAfter: 2, OverdueAfter: 3},
		})
		now := enteredAt.Add(3 * 24 * time.Hour)
		require.Equal(t, models.SLAStatusOverdue, custom.StatusAt(models.StageFinanceReview, enteredAt, now))
		// other stages keep the default table
		require.Equal(t, models.SLAStatusOnTime, custom.StatusAt(models.StageIPInitiation, enteredAt, now))
	})

	t.Run(`days pending check`, func(t *testing.T) {
		require.Equal(t, 0, DaysPending(enteredAt, enteredAt))
		require.Equal(t, 0, DaysPending(enteredAt, enteredAt.Add(23*time.Hour)))
		require.Equal(t, 1, DaysPending(enteredAt, enteredAt.Add(25*time.Hour)))
		// clock skew must not go negative
		require.Equal(t, 0, DaysPending(enteredAt, enteredAt.Add(-time.Hour)))
	})

	t.Run(`unknown stage is on time check`, func(t *testing.T) {
		now := enteredAt.Add(100 * 24 * time.Hour)
		require.Equal(t, models.SLAStatusOnTime, clock.StatusAt(models.Stage("no_such_stage"), enteredAt, now))
	})
}
