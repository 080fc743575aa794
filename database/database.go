package database

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/mager/cochlea/config"
	"go.uber.org/zap"
)

// ProvideDatabase provides a postgres client. The connection is optional:
// when no database URL is configured (Firestore deployments), it returns nil
// and the job store provider picks the Firestore backend.
func ProvideDatabase(logger *zap.SugaredLogger, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection", zap.Error(err))
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		logger.Error("Failed to ping database", zap.Error(err))
		return nil, err
	}

	return db, nil
}

var Options = ProvideDatabase
