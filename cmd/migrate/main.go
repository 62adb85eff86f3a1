package main

import (
	"flag"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/finbuddy/backend/internal/logging"
	"github.com/finbuddy/backend/internal/storage"
)

type migrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
}

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	_ = godotenv.Load()
	var cfg migrateConfig
	if err := env.Parse(&cfg); err != nil {
		logrus.WithError(err).Fatal("parse env")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	dsn := strings.TrimSpace(cfg.DatabaseURL)

	if *down > 0 {
		log.WithField("steps", *down).Info("rolling back migrations")
		if err := storage.RollbackMigrations(dsn, *down); err != nil {
			log.WithError(err).Fatal("rollback failed")
		}
	} else {
		log.Info("applying migrations")
		if err := storage.RunMigrations(dsn); err != nil {
			log.WithError(err).Fatal("migrate failed")
		}
	}

	version, dirty, err := storage.MigrationVersion(dsn)
	if err != nil {
		log.WithError(err).Fatal("read version")
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations done")
}
