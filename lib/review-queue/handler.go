package reviewqueuehandler

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"isnad-backend/db"
	isnadformstore "isnad-backend/lib/isnad-form/store"
	"isnad-backend/lib/sla"
	"isnad-backend/models"
	isnadapimodels "isnad-backend/models/api/isnad"
	dbmodels "isnad-backend/models/db"
)

// Read-side projection of the form state: what a department sees when it
// opens its review queue. Never mutates anything.

type Provider interface {
	QueueFor(stage models.Stage, filter isnadapimodels.QueueFilter) (list []isnadapimodels.QueueItemView, rowCount int64, err error)
}

var Instance Provider

func NewHandler(clock sla.Clock) {
	Instance = impl{
		store: isnadformstore.NewInstance(db.DB),
		clock: clock,
	}
}

type impl struct {
	store isnadformstore.Provider
	clock sla.Clock
}

func (i impl) QueueFor(stage models.Stage, filter isnadapimodels.QueueFilter) (list []isnadapimodels.QueueItemView, rowCount int64, err error) {
	recList, err := i.store.ListByStage(stage)
	if err != nil {
		log.WithField("stage", stage).WithError(err).Error("failed to load the stage queue")
		return nil, 0, err
	}
	now := time.Now()
	items := make([]isnadapimodels.QueueItemView, 0, len(recList))
	for _, rec := range recList {
		if filter.Region != "" && (rec.Asset == nil || rec.Asset.Region != filter.Region) {
			continue
		}
		items = append(items, i.project(rec, now))
	}
	sortQueue(items)
	rowCount = int64(len(items))

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []isnadapimodels.QueueItemView{}, rowCount, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], rowCount, nil
}

func (i impl) project(rec dbmodels.IsnadForm, now time.Time) isnadapimodels.QueueItemView {
	item := isnadapimodels.QueueItemView{
		FormID:         rec.ID,
		FormCode:       rec.FormCode,
		AssetID:        rec.AssetID,
		Status:         rec.Status,
		SubmittedAt:    rec.SubmittedAt,
		StageEnteredAt: rec.StageEnteredAt,
		DaysPending:    sla.DaysPending(rec.StageEnteredAt, now),
		SlaStatus:      i.clock.StatusAt(rec.CurrentStage, rec.StageEnteredAt, now),
	}
	if limits, exist := i.clock.StageThresholds(rec.CurrentStage); exist {
		item.DeadlineDays = limits.OverdueAfter
	}
	if rec.Asset != nil {
		item.AssetName = rec.Asset.Name
		item.Region = rec.Asset.Region
	}
	return item
}

// sortQueue orders worst SLA first, then longest pending first.
func sortQueue(items []isnadapimodels.QueueItemView) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].SlaStatus.Severity() != items[b].SlaStatus.Severity() {
			return items[a].SlaStatus.Severity() > items[b].SlaStatus.Severity()
		}
		return items[a].DaysPending > items[b].DaysPending
	})
}
