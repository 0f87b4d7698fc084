// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the flashcard-engine CLI. It turns a
// YAML or TOML topic outline into RemNote import text, generating the cards
// with an LLM.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/flashcard-engine/internal/logging"
	"github.com/pdiddy/flashcard-engine/internal/secrets"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the flashcard-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "flashcard-engine",
	Short: "Generate RemNote flashcards from a topic outline",
	Long: `flashcard-engine reads a hierarchical topic outline, asks an LLM for
concept, basic, cloze and descriptor cards, derives multiline, list and
multiple-choice cards from the outline itself, and writes RemNote import
text with escaped content and nested topic headings.

Use generate for the full pipeline, format to re-render a saved card file,
validate to check an import file, and cache to manage stored results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log.level")
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = "debug"
		}
		if _, err := logging.Setup(os.Stderr, level); err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./flashcard-engine.yaml or ~/.config/flashcard-engine/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("flashcard-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "flashcard-engine"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultConfig())
	viper.SetEnvPrefix("FLASHCARD_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables can
// override keys absent from the config file.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.max_retries", d.LLM.MaxRetries)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.concurrency", d.LLM.Concurrency)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.min_interval", d.LLM.MinInterval)
	v.SetDefault("generation.card_types", d.Generation.CardTypes)
	v.SetDefault("generation.multiline_threshold", d.Generation.MultilineThreshold)
	v.SetDefault("generation.prompts_dir", d.Generation.PromptsDir)
	v.SetDefault("remnote.preserve_hierarchy", d.RemNote.PreserveHierarchy)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.include_stats", d.Output.IncludeStats)
	v.SetDefault("output.cards_file", d.Output.CardsFile)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.lru_size", d.Cache.LRUSize)
	v.SetDefault("log.level", d.Log.Level)
}

// loadConfig decodes viper settings over the defaults and validates them.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
