package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/field"
	"github.com/iburimskiy/constellation/internal/ui"
)

var version = "0.3.0"

var (
	configPath string
	seedFlag   int64
	debugFlag  bool

	cfg     *config.Config
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "constellation",
	Short: "constellation: a drifting particle field background",
	Long: ui.Brand.Sprint(ui.Star+" constellation") + ": particles drift, bounce and link up with their neighbours\n" +
		ui.Subtle.Sprint("Runs in a window, a terminal, or renders PNG snapshots"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("CONSTELLATION_CONFIG", configPath); err != nil {
				return fmt.Errorf("config path: %w", err)
			}
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("seed") {
			cfg.Field.Seed = seedFlag
		}
		if cmd.Flags().Changed("debug") {
			cfg.Log.Debug = debugFlag
		}
		logFile = setupLogging(cfg.Log.Debug, cfg.Log.File)
		log.Printf("constellation %s: config %s", version, config.Path())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindow(cfg, windowOptions{})
	},
}

func init() {
	rootCmd.SetVersionTemplate("constellation {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/constellation/config.toml)")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Random seed for particle placement (0 = time based)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write a debug log")

	rootCmd.AddCommand(
		windowCmd(),
		termCmd(),
		snapshotCmd(),
		serveCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.StatusIcon(false), ui.Bad.Sprint(err))
	}
	return err
}

// seedFor resolves the configured seed; zero means time based.
func seedFor(c *config.Config) int64 {
	if c.Field.Seed != 0 {
		return c.Field.Seed
	}
	return time.Now().UnixNano()
}

// newField builds a field from the config.
func newField(c *config.Config) *field.Field {
	seed := seedFor(c)
	log.Printf("field: seed %d", seed)
	return field.New(c.Params(), c.Style(), rand.New(rand.NewSource(seed)))
}
