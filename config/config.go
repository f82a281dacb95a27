package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"isnad" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"isnad-dev-secret" env:"AUTH_JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"AUTH_JWT_EXPIRE_IN_SEC"`
	}
	Isnad struct {
		// ResetSectionsOnReturn controls the rework policy: when true a
		// returned form loses completed sections and the initiator refills
		// everything; when false only the initiation section reopens.
		ResetSectionsOnReturn *bool `default:"false" env:"ISNAD_RESET_SECTIONS_ON_RETURN"`

		ReviewWarningAfterDays   int `default:"5" env:"ISNAD_REVIEW_WARNING_AFTER_DAYS"`
		ReviewUrgentAfterDays    int `default:"8" env:"ISNAD_REVIEW_URGENT_AFTER_DAYS"`
		ReviewOverdueAfterDays   int `default:"10" env:"ISNAD_REVIEW_OVERDUE_AFTER_DAYS"`
		DecisionWarningAfterDays int `default:"3" env:"ISNAD_DECISION_WARNING_AFTER_DAYS"`
		DecisionUrgentAfterDays  int `default:"5" env:"ISNAD_DECISION_URGENT_AFTER_DAYS"`
		DecisionOverdueAfterDays int `default:"7" env:"ISNAD_DECISION_OVERDUE_AFTER_DAYS"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
