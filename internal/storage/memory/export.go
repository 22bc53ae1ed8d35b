// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/railsim/wap7sim/pkg/core"
)

// SessionExport is the root JSON structure written at end of session.
type SessionExport struct {
	Session   *core.Session         `json:"session"`
	Commands  []core.CommandRecord  `json:"commands"`
	Snapshots []core.SnapshotRecord `json:"snapshots"`
	Final     *core.SnapshotRecord  `json:"final,omitempty"`
}

// exportJSON writes the session journal to a (optionally gzipped) JSON file.
// Caller holds b.mu.
func (b *Backend) exportJSON() error {
	if b.session == nil {
		return fmt.Errorf("no session to export")
	}

	export := SessionExport{
		Session:   b.session,
		Commands:  b.commands,
		Snapshots: b.snapshots,
		Final:     b.final,
	}

	// Build filename
	name := strings.ReplaceAll(b.session.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	timestamp := b.session.StartedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		defer func() { _ = gz.Close() }()
		if err := json.NewEncoder(gz).Encode(export); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
	}

	b.exportedPath = outputPath
	return nil
}
