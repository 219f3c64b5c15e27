// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the songdedup CLI. It wraps the
// duplicate engine (scan, resolve, similarity) and the SQLite song
// library (library import/list/export/history).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songdedup/internal/logging"
	"github.com/pdiddy/songdedup/internal/resolve"
	"github.com/pdiddy/songdedup/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --log-level/--log-file.
var (
	logger       = slog.New(slog.NewTextHandler(os.Stderr, nil))
	closeLogFile = func() error { return nil }
)

// rootCmd is the base command for the songdedup CLI.
var rootCmd = &cobra.Command{
	Use:   "songdedup",
	Short: "Find and resolve duplicate songs in a lyrics library",
	Long: `songdedup scans a collection of songs for exact and near-duplicate
titles and lyrics, and picks one song to keep from every duplicate group.

Songs come either from a YAML/JSON file (--input) or from the SQLite song
library managed by the library subcommands. Resolutions can be applied to
the library with resolve --apply.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, cleanup, err := logging.Setup(types.LogConfig{
			Level: viper.GetString("log.level"),
			File:  viper.GetString("log.file"),
		}, os.Stderr)
		if err != nil {
			return err
		}
		logger, closeLogFile = l, cleanup
		slog.SetDefault(logger)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogFile()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./songdedup.yaml or ~/.config/songdedup/config.yaml)")
	rootCmd.PersistentFlags().String("library-dir", "library", "directory holding the song library database")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().Duration("timeout", 0, "abandon the command after this long (0 = no limit)")

	viper.BindPFlag("library.library_dir", rootCmd.PersistentFlags().Lookup("library-dir"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("songdedup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "songdedup"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("SONGDEDUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; PersistentPreRunE logs the one in use.
	_ = viper.ReadInConfig()
}

// setDefaults registers every config key so environment variables such
// as SONGDEDUP_DEDUP_TITLE_SIMILARITY_THRESHOLD reach UnmarshalKey.
func setDefaults() {
	d := types.DefaultCheckOptions()
	viper.SetDefault("dedup.check_exact_titles", d.CheckExactTitles)
	viper.SetDefault("dedup.check_similar_titles", d.CheckSimilarTitles)
	viper.SetDefault("dedup.check_exact_lyrics", d.CheckExactLyrics)
	viper.SetDefault("dedup.check_similar_lyrics", d.CheckSimilarLyrics)
	viper.SetDefault("dedup.title_similarity_threshold", d.TitleSimilarityThreshold)
	viper.SetDefault("dedup.lyrics_similarity_threshold", d.LyricsSimilarityThreshold)
	viper.SetDefault("dedup.clustering", string(d.Clustering))
	viper.SetDefault("dedup.locale", resolve.DefaultLocale)
	viper.SetDefault("library.library_dir", "library")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
}

// commandContext returns a context cancelled on interrupt or after
// --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{LibraryDir: viper.GetString("library.library_dir")}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
