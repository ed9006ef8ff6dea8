package main

import (
	"github.com/sirupsen/logrus"

	ledger_config "github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/storage/sqlconfig"
)

func main() {
	logging.SetupLogging("info")

	if err := ledger_config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Fatal("LoadDotEnv")
		return
	}

	env, err := ledger_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	db, err := sqlconfig.Open(env.PostgresDSN())
	if err != nil {
		logrus.WithError(err).Fatal("sqlconfig.Open")
		return
	}
	defer db.Close()

	result, err := db.Migrate()
	if err != nil {
		logrus.WithError(err).Fatal("db.Migrate")
		return
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreVersion,
		"postMigrationVersion": result.PostVersion,
	}).Info("Migration status")
}
