// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flashcard-engine/internal/cardstore"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or manage the generated-card cache",
	Long: `Cache manages the SQLite database of generated cards keyed by topic
fingerprint. Use subcommands to show counts, clear it, or export it.`,
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached topic and card counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		heading.Fprintln(os.Stdout, st.Path)
		fmt.Fprintf(os.Stdout, "  %-18s %d\n", "topics", st.Topics)
		fmt.Fprintf(os.Stdout, "  %-18s %d\n", "cards", st.Cards)

		names := make([]string, 0, len(st.ByType))
		for t := range st.ByType {
			names = append(names, t)
		}
		sort.Strings(names)
		for _, t := range names {
			fmt.Fprintf(os.Stdout, "  %-18s %d\n", t, st.ByType[t])
		}
		return nil
	},
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "cleared %d topic(s)\n", n)
		return nil
	},
}

// --- export subcommand ---

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached cards to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("output")

		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		if path == "" {
			path = filepath.Join(filepath.Dir(store.Path()), "export."+format)
		}

		switch format {
		case "yaml":
			err = store.ExportYAML(context.Background(), path)
		case "json":
			err = store.ExportJSON(context.Background(), path)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported to %s\n", path)
		return nil
	},
}

func openCache() (*cardstore.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cardstore.Open(cfg.Cache)
}

func init() {
	cacheExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	cacheExportCmd.Flags().StringP("output", "o", "", "export path (default: <cache dir>/export.<format>)")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheExportCmd)

	rootCmd.AddCommand(cacheCmd)
}
