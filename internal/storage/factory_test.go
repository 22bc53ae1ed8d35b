package storage

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railsim/wap7sim/internal/config"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/storage/memory"
)

func TestNewBackend_Memory(t *testing.T) {
	backend, err := NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, logging.NewSlogManager(), zerolog.Nop())
	require.NoError(t, err)

	_, ok := backend.(*memory.Backend)
	assert.True(t, ok)

	_, exportable := backend.(Exportable)
	assert.True(t, exportable)
}

func TestNewBackend_UnknownType(t *testing.T) {
	_, err := NewBackend(config.StorageConfig{Type: "carrier-pigeon"},
		logging.NewSlogManager(), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestNewBackend_WebsocketRequiresURL(t *testing.T) {
	_, err := NewBackend(config.StorageConfig{Type: "websocket"},
		logging.NewSlogManager(), zerolog.Nop())
	require.Error(t, err)
}
