package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/railsim/wap7sim/internal/config"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/storage/memory"
	pgstorage "github.com/railsim/wap7sim/internal/storage/postgres"
	sqlitestorage "github.com/railsim/wap7sim/internal/storage/sqlite"
	"github.com/railsim/wap7sim/internal/storage/websocket"
)

// NewBackend creates the journal backend selected by storage.type.
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager, dbLog zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpPath:     cfg.SQLite.DumpPath,
			DumpInterval: cfg.SQLite.DumpInterval,
		}, logManager, dbLog)
	case "postgres":
		return pgstorage.New(logManager, dbLog)
	case "websocket":
		if cfg.Websocket.URL == "" {
			return nil, fmt.Errorf("storage.websocket.url is required for websocket storage")
		}
		return websocket.New(websocket.Config{
			URL:    cfg.Websocket.URL,
			Secret: cfg.Websocket.Secret,
		}, logManager.Logger()), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
