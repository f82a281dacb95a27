package initializers

import (
	"context"
	"isnad-backend/config"
	"isnad-backend/fiberlog"
	assethandler "isnad-backend/lib/asset"
	isnadformhandler "isnad-backend/lib/isnad-form"
	isnadpackagehandler "isnad-backend/lib/isnad-package"
	reviewqueuehandler "isnad-backend/lib/review-queue"
	"isnad-backend/lib/sla"
	"isnad-backend/models"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	clock := sla.NewClock(slaOverrides())
	assethandler.NewHandler()
	isnadformhandler.NewHandler(clock, *config.Conf.Isnad.ResetSectionsOnReturn)
	isnadpackagehandler.NewHandler()
	reviewqueuehandler.NewHandler(clock)
}

// slaOverrides maps the configured deadline windows onto the stage table:
// review windows for the section-filling departments, decision windows for
// the sign-off stages.
func slaOverrides() map[models.Stage]sla.Thresholds {
	cfg := config.Conf.Isnad
	review := sla.Thresholds{
		WarningAfter: cfg.ReviewWarningAfterDays,
		UrgentAfter:  cfg.ReviewUrgentAfterDays,
		OverdueAfter: cfg.ReviewOverdueAfterDays,
	}
	decision := sla.Thresholds{
		WarningAfter: cfg.DecisionWarningAfterDays,
		UrgentAfter:  cfg.DecisionUrgentAfterDays,
		OverdueAfter: cfg.DecisionOverdueAfterDays,
	}
	overrides := make(map[models.Stage]sla.Thresholds, len(models.StageOrder))
	for _, stage := range models.StageOrder {
		if models.IsDecisionOnly(stage) {
			overrides[stage] = decision
			continue
		}
		overrides[stage] = review
	}
	return overrides
}
