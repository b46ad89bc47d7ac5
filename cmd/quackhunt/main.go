package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/silentbyte/quackhunt/internal/app"
	"github.com/silentbyte/quackhunt/internal/capture"
	"github.com/silentbyte/quackhunt/internal/config"
	"github.com/silentbyte/quackhunt/internal/server"
	"github.com/silentbyte/quackhunt/internal/store"
)

var (
	flagConfig    string
	flagDevice    int
	flagAddr      string
	flagDB        string
	flagCalibrate bool
)

var rootCmd = &cobra.Command{
	Use:   "quackhunt",
	Short: "Gesture-tracked light gun: webcam markers to aim position and fire events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to the configuration file")
	rootCmd.Flags().IntVar(&flagDevice, "device", -1, "Camera device index (overrides the configured one)")
	rootCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Calibration server listen address")
	rootCmd.Flags().StringVar(&flagDB, "db", "", "Path to the profile library database (default ~/.quackhunt/quackhunt.db)")
	rootCmd.Flags().BoolVar(&flagCalibrate, "calibrate", false, "Run in calibration mode: no game consumer, frames go to the calibration tool")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		log.Printf("Using default config: %v", err)
	}
	if flagDevice >= 0 {
		cfg.VideoCaptureIndex = flagDevice
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to initialize profile store: %w", err)
	}
	defer st.Close()

	camera := capture.NewCamera(capture.Options{
		DeviceID:         cfg.VideoCaptureIndex,
		FlipVertically:   cfg.FlipVertically,
		FlipHorizontally: cfg.FlipHorizontally,
	})

	a := app.New(app.Config{
		Camera:  camera,
		Profile: cfg.Profile,
	})
	if err := a.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}
	defer a.Stop()

	srv := server.New(server.Config{
		Pipeline:   a,
		Store:      st,
		ConfigPath: flagConfig,
		AppConfig:  cfg,
	})

	go func() {
		log.Printf("Calibration server listening on %s", flagAddr)
		if err := srv.ListenAndServe(flagAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if flagCalibrate {
		log.Println("Calibration mode: connect the calibration tool to tune thresholds")
		<-ctx.Done()
		return nil
	}

	// The game engine consumes the publisher in-process; until it is
	// attached, poll it here so fire events are visible during bring-up.
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	pub := a.Publisher()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, ev := range pub.DrainFireEvents() {
				state := pub.Read()
				log.Printf("Fire %s at (%.0f, %.0f)", ev.ID, state.X, state.Y)
			}
		}
	}
}

// openStore opens the profile library at --db or its default location.
func openStore() (*store.Store, error) {
	dbPath := flagDB
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		dbDir := filepath.Join(homeDir, ".quackhunt")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath = filepath.Join(dbDir, "quackhunt.db")
	}

	return store.New(dbPath)
}
