package reviewqueuehandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"isnad-backend/lib/sla"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

func TestProject(t *testing.T) {
	i := impl{clock: sla.NewClock(nil)}
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	t.Run(`queue row carries the stage deadline check`, func(t *testing.T) {
		rec := dbmodels.IsnadForm{
			FormCode:       "ISN-2025-00042",
			Status:         models.FormStatusPendingVerify,
			CurrentStage:   models.StageFinanceReview,
			StageEnteredAt: now.AddDate(0, 0, -6),
			Asset: &dbmodels.Asset{
				Name:   "Al Noor Primary",
				Region: "riyadh",
			},
		}
		item := i.project(rec, now)
		require.Equal(t, 6, item.DaysPending)
		require.Equal(t, models.SLAStatusWarning, item.SlaStatus)
		require.Equal(t, 10, item.DeadlineDays)
		require.Equal(t, "Al Noor Primary", item.AssetName)
		require.Equal(t, "riyadh", item.Region)
	})

	t.Run(`decision stages keep their tighter deadline check`, func(t *testing.T) {
		rec := dbmodels.IsnadForm{
			FormCode:       "ISN-2025-00043",
			Status:         models.FormStatusPendingVerify,
			CurrentStage:   models.StageTbcFinalApproval,
			StageEnteredAt: now.AddDate(0, 0, -1),
		}
		item := i.project(rec, now)
		require.Equal(t, 7, item.DeadlineDays)
		require.Equal(t, models.SLAStatusOnTime, item.SlaStatus)
	})
}

func TestSortQueue(t *testing.T) {
	t.Run(`worst sla first, then longest pending check`, func(t *testing.T) {
		items := []isnadapimodels.QueueItemView{
			{FormCode: "ISN-2025-00001", SlaStatus: models.SLAStatusOnTime, DaysPending: 4},
			{FormCode: "ISN-2025-00002", SlaStatus: models.SLAStatusOverdue, DaysPending: 12},
			{FormCode: "ISN-2025-00003", SlaStatus: models.SLAStatusWarning, DaysPending: 6},
			{FormCode: "ISN-2025-00004", SlaStatus: models.SLAStatusOverdue, DaysPending: 15},
			{FormCode: "ISN-2025-00005", SlaStatus: models.SLAStatusUrgent, DaysPending: 9},
		}
		sortQueue(items)
		ordered := make([]string, 0, len(items))
		for _, item := range items {
			ordered = append(ordered, item.FormCode)
		}
		require.Equal(t, []string{
			"ISN-2025-00004",
			"ISN-2025-00002",
			"ISN-2025-00005",
			"ISN-2025-00003",
			"ISN-2025-00001",
		}, ordered)
	})

	t.Run(`equal severity and days keep arrival order check`, func(t *testing.T) {
		items := []isnadapimodels.QueueItemView{
			{FormCode: "ISN-2025-00010", SlaStatus: models.SLAStatusWarning, DaysPending: 6},
			{FormCode: "ISN-2025-00011", SlaStatus: models.SLAStatusWarning, DaysPending: 6},
			{FormCode: "ISN-2025-00012", SlaStatus: models.SLAStatusWarning, DaysPending: 6},
		}
		sortQueue(items)
		require.Equal(t, "ISN-2025-00010", items[0].FormCode)
		require.Equal(t, "ISN-2025-00011", items[1].FormCode)
		require.Equal(t, "ISN-2025-00012", items[2].FormCode)
	})

	t.Run(`empty queue check`, func(t *testing.T) {
		items := []isnadapimodels.QueueItemView{}
		sortQueue(items)
		require.Empty(t, items)
	})
}
