// Command wap7sim is an interactive WAP-7 electric locomotive simulator.
// It reads operator commands from stdin, drives the engine state machine,
// and journals every command and resulting state to the configured storage
// backend.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/railsim/wap7sim/internal/api"
	"github.com/railsim/wap7sim/internal/config"
	"github.com/railsim/wap7sim/internal/dispatcher"
	"github.com/railsim/wap7sim/internal/engine"
	"github.com/railsim/wap7sim/internal/handlers"
	"github.com/railsim/wap7sim/internal/influx"
	"github.com/railsim/wap7sim/internal/logging"
	"github.com/railsim/wap7sim/internal/monitor"
	intOtel "github.com/railsim/wap7sim/internal/otel"
	"github.com/railsim/wap7sim/internal/session"
	"github.com/railsim/wap7sim/internal/storage"
	"github.com/railsim/wap7sim/pkg/core"
)

// Version can be set at build time via ldflags.
var (
	Version   = "2.0.0"
	BuildDate = "unknown"

	appName = "wap7sim"
)

const banner = `╔══════════════════════════════════════════════════╗
║                                                  ║
║             WAP-7 LOCOMOTIVE SIMULATOR           ║
║                                                  ║
║      _____                                       ║
║     |  _  \__________________________            ║
║  ===|_|_|_|   |_|_] |_|_] |_|_] |_|_]|===        ║
║  |  |_|_|_|___________________________|  |       ║
║  |_______________________________________|       ║
║                                                  ║
║              Enhanced Edition v2.0               ║
║                                                  ║
╚══════════════════════════════════════════════════╝

Type 'help' for available commands.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	startTime := time.Now()

	if err := config.Load("."); err != nil {
		return err
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}

	logFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, appName, startTime),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
	)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	// OTel provider (no-op unless otel.enabled)
	otelCfg := config.GetOTelConfig()
	var otelLogWriter *os.File
	if otelCfg.Enabled {
		otelLogWriter, err = os.OpenFile(
			filepath.Join(logsDir, fmt.Sprintf("%s.otel.%s.log", appName, startTime.Format("20060102_150405"))),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
		)
		if err != nil {
			return fmt.Errorf("failed to open otel log file: %w", err)
		}
		defer otelLogWriter.Close()
	}
	otelProvider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    otelLogWriter,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up OTel: %w", err)
	}
	defer otelProvider.Shutdown(context.Background())

	sessionCtx := session.NewContext()

	logManager := logging.NewSlogManager()
	logManager.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{slog.String("session", sessionCtx.Get().Name)}
	})
	logManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider())
	logger := logManager.Logger()
	defer logManager.Flush(context.Background())

	logger.Info("Simulator starting", "version", Version, "buildDate", BuildDate)

	dbLog := zerolog.New(logFile).With().Timestamp().Logger()

	backend, err := storage.NewBackend(config.GetStorageConfig(), logManager, dbLog)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	sess := sessionCtx.Begin(config.GetString("session.name"), Version, startTime)
	if err := backend.StartSession(sess); err != nil {
		logger.Error("Failed to start session in storage backend", "error", err)
	}
	logger.Info("Session started", "session", sess.Name, "storage", config.GetString("storage.type"))

	eng := engine.New()

	// Optional telemetry: influx + status monitor
	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		influxManager = influx.NewManager(dbLog,
			filepath.Join(logsDir, fmt.Sprintf("%s.influx_backup.%s.gz", appName, startTime.Format("20060102_150405"))))
		if err := influxManager.Connect(); err != nil {
			logger.Warn("InfluxDB connection failed, telemetry disabled", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	var mon *monitor.Service
	monCfg := config.GetMonitorConfig()
	if monCfg.Enabled {
		mon = monitor.NewService(monitor.Dependencies{
			LogManager: logManager,
			Session:    sessionCtx,
			Influx:     influxManager,
			StatusFile: monCfg.StatusFile,
			Interval:   monCfg.Interval,
		})
		if err := mon.Start(); err != nil {
			logger.Error("Failed to start status monitor", "error", err)
		} else {
			defer mon.Stop()
		}
	}

	svc := handlers.NewService(handlers.Dependencies{
		Engine:     eng,
		LogManager: logManager,
		Session:    sessionCtx,
		Version:    Version,
		Publish: func(snap engine.Snapshot) {
			if mon != nil {
				mon.Publish(snap)
			}
		},
	})
	svc.SetBackend(backend)

	d, err := dispatcher.New(logging.NewDispatcherLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	svc.RegisterAll(d)

	fmt.Println(banner)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			break
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		command := parts[0]

		if command == "exit" {
			fmt.Println("Exiting simulation. Final status:")
			fmt.Println(eng.Status())
			break
		}

		if !d.HasHandler(command) {
			fmt.Println("Invalid command. Type 'help' for available commands.")
			continue
		}

		result, err := d.Dispatch(dispatcher.Event{
			Command:   command,
			Args:      parts[1:],
			Timestamp: time.Now(),
		})
		if err != nil {
			var opErr *engine.OpError
			if errors.As(err, &opErr) {
				logger.Warn("Engine error", "command", command, "error", err)
				fmt.Println("⚠️  " + err.Error())
			} else {
				logger.Error("Unexpected error", "command", command, "error", err)
				fmt.Println("❌ Unexpected error: " + err.Error())
			}
			continue
		}
		if text, ok := result.(string); ok && text != "" {
			fmt.Println(text)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Input error", "error", err)
	}

	// End the session with the final state and release the backend.
	final := svc.SnapshotRecord(eng.Status(), sessionCtx.Seq())
	if err := backend.EndSession(&final); err != nil {
		logger.Error("Failed to end session in storage backend", "error", err)
	}
	if exp, ok := backend.(storage.Exportable); ok {
		exportedPath := exp.GetExportedFilePath()
		logger.Info("Session journal exported", "path", exportedPath)

		if config.GetBool("api.enabled") && exportedPath != "" {
			client := api.New(config.GetString("api.url"), config.GetString("api.key"))
			if err := client.Upload(exportedPath, core.UploadMetadata{
				SessionName:  sess.Name,
				Version:      Version,
				RunningTimeS: final.RunningTimeS,
				DistanceM:    final.DistanceM,
			}); err != nil {
				logger.Error("Failed to upload session journal", "error", err)
			} else {
				logger.Info("Session journal uploaded", "url", config.GetString("api.url"))
			}
		}
	}
	if err := backend.Close(); err != nil {
		logger.Error("Failed to close storage backend", "error", err)
	}

	logger.Info("Simulator shut down", "uptime", time.Since(startTime))
	return nil
}
