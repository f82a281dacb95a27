package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "isnad-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.Asset{}); err != nil {
		return errors.Wrap(err, "migration of Asset failed")
	}
	if err := DB.AutoMigrate(&dbmodels.IsnadForm{}); err != nil {
		return errors.Wrap(err, "migration of IsnadForm failed")
	}
	if err := DB.AutoMigrate(&dbmodels.IsnadWorkflowStep{}); err != nil {
		return errors.Wrap(err, "migration of IsnadWorkflowStep failed")
	}
	if err := DB.AutoMigrate(&dbmodels.IsnadApproval{}); err != nil {
		return errors.Wrap(err, "migration of IsnadApproval failed")
	}
	if err := DB.AutoMigrate(&dbmodels.IsnadPackage{}); err != nil {
		return errors.Wrap(err, "migration of IsnadPackage failed")
	}
	// one active form per asset, enforced at the storage layer as well
	DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_isnad_forms_active_asset
		ON isnad_forms (asset_id)
		WHERE status NOT IN ('approved', 'rejected', 'cancelled');`)
	log.Info("migrations finished")
	return nil
}
