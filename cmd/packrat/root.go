// Root command for the packrat CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/packrat-app/packrat/internal/logging"
	"github.com/packrat-app/packrat/internal/paths"
	"github.com/packrat-app/packrat/pkg/types"
)

const version = "0.1.0"

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagImageDir  string
	flagJSON      bool
)

// Values loaded from config.yaml in PersistentPreRunE so every subcommand can
// resolve directories with the full precedence chain.
var (
	configDataDir  string
	configImageDir string
)

// runtimeConfig is the fully resolved and validated configuration every
// subcommand operates on.
var runtimeConfig types.Config

// logCleanup closes the log file, when one was opened.
var logCleanup = func() {}

var rootCmd = &cobra.Command{
	Use:     "packrat",
	Short:   "Packrat is a local-first personal inventory engine",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configImageDir = cfg.GetString(cfgKeyImageDir)

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		imageDir, err := resolveImageDir(dataDir)
		if err != nil {
			return err
		}
		runtimeConfig = types.Config{
			DataDir:  dataDir,
			ImageDir: imageDir,
			LogLevel: cfg.GetString(cfgKeyLogLevel),
			LogFile:  cfg.GetString(cfgKeyLogFile),
		}
		if err := runtimeConfig.Validate(); err != nil {
			return err
		}

		_, cleanup, err := logging.New(runtimeConfig.LogLevel, runtimeConfig.LogFile)
		if err != nil {
			return err
		}
		logCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logCleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.packrat-db)")
	rootCmd.PersistentFlags().StringVar(&flagImageDir, "image-dir", "", "image directory (default: <data-dir>/images)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(restockCmd)
	rootCmd.AddCommand(expiringCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
}

// resolveConfigDir follows: --config-dir flag > PACKRAT_CONFIG_DIR env >
// platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir follows: --data-dir flag > config.yaml data_dir >
// PACKRAT_DATA_DIR env > $(CWD)/.packrat-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveImageDir follows: --image-dir flag > config.yaml image_dir >
// PACKRAT_IMAGE_DIR env > <data-dir>/images.
func resolveImageDir(dataDir string) (string, error) {
	return paths.ResolveImageDir(flagImageDir, configImageDir, dataDir)
}
