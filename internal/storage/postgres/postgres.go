// Package pgstorage implements the storage.Backend interface on Postgres,
// wrapping the shared GORM backend. Connection settings come from the db.*
// viper keys.
package pgstorage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/railsim/wap7sim/internal/database"
	"github.com/railsim/wap7sim/internal/logging"
	gormstorage "github.com/railsim/wap7sim/internal/storage/gorm"
)

// Backend journals sessions to a Postgres database.
type Backend struct {
	*gormstorage.Backend
}

// New connects to Postgres and creates a journal backend.
func New(logManager *logging.SlogManager, dbLog zerolog.Logger) (*Backend, error) {
	db, err := database.GetPostgresDB(dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:         db,
			LogManager: logManager,
		}),
	}, nil
}
