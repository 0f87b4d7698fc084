// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flashcard-engine/internal/cardstore"
	"github.com/pdiddy/flashcard-engine/internal/generate"
	"github.com/pdiddy/flashcard-engine/internal/prompts"
	"github.com/pdiddy/flashcard-engine/internal/topics"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate RemNote flashcards from a topic outline",
	Long: `Generate loads a YAML or TOML topic outline, validates it, and produces
cards for every topic. Prompted card types are requested from the configured
LLM provider; derived types come from the outline. Results are cached by topic
fingerprint so unchanged topics are not sent to the LLM again.

The cards are escaped, nested under topic headings, validated and written to
the output path. A stats sidecar is written next to it when enabled.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyOutputFlags(cmd, &cfg); err != nil {
		return err
	}
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.LLM.Model = model
	}
	if cardsOut, _ := cmd.Flags().GetString("cards-out"); cardsOut != "" {
		cfg.Output.CardsFile = cardsOut
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	input, _ := cmd.Flags().GetString("input")
	content, err := topics.Load(input)
	if err != nil {
		return err
	}
	tree, err := topics.NewTree(content.Topics)
	if err != nil {
		return err
	}

	if validateOnly, _ := cmd.Flags().GetBool("validate-only"); validateOnly {
		fmt.Fprintf(os.Stdout, "%s: %d topics, valid\n", input, tree.Len())
		return nil
	}

	loader, err := prompts.New(cfg.Generation.PromptsDir)
	if err != nil {
		return err
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		printPlan(os.Stdout, content, tree, generate.New(nil, loader, cfg))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend, err := newBackend(ctx, cfg.LLM)
	if err != nil {
		return err
	}

	gen := generate.New(backend, loader, cfg)
	gen.Subject = content.Metadata.Subject
	gen.Logger = slog.Default()
	gen.Refresh, _ = cmd.Flags().GetBool("refresh")

	if cfg.Cache.Enabled {
		store, err := cardstore.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close()
		gen.Cache = store
	}

	cards, summary, err := gen.All(ctx, tree, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\ngenerated: %d, cached: %d, partial: %d, failed: %d, cards: %d\n",
		summary.Generated, summary.Cached, summary.Partial, summary.Failed, summary.Cards)

	if cfg.Output.CardsFile != "" {
		set := types.CardSet{Subject: content.Metadata.Subject, Cards: cards}
		if err := writeCards(cfg.Output.CardsFile, set); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "cards saved to %s\n", cfg.Output.CardsFile)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if err := emit(os.Stdout, cfg, content.Metadata.Subject, cards, tree, strict); err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d topic(s) failed generation", summary.Failed)
	}
	return nil
}

// applyOutputFlags applies the flags shared by generate and format.
func applyOutputFlags(cmd *cobra.Command, cfg *types.Config) error {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output.Path = out
	}
	if flat, _ := cmd.Flags().GetBool("flat"); flat {
		cfg.RemNote.PreserveHierarchy = false
	}
	if noStats, _ := cmd.Flags().GetBool("no-stats"); noStats {
		cfg.Output.IncludeStats = false
	}
	if cfg.Output.Path == "" {
		return fmt.Errorf("output path required: set output.path or --output")
	}
	return nil
}

// printPlan lists the topic tree with the card range each topic may yield.
func printPlan(w io.Writer, content *types.Content, tree *topics.Tree, gen *generate.Generator) {
	if content.Metadata.Title != "" {
		fmt.Fprintf(w, "%s\n\n", content.Metadata.Title)
	}
	var lo, hi int
	tree.Walk(func(tp types.Topic, _ string, depth int) error {
		tlo, thi := gen.Estimate(tp)
		lo += tlo
		hi += thi
		fmt.Fprintf(w, "%s- %s (%d-%d cards)\n", strings.Repeat("  ", depth), tp.Name, tlo, thi)
		return nil
	})
	fmt.Fprintf(w, "\n%d topics, %d-%d cards, types: %s\n", tree.Len(), lo, hi, joinTypes(gen.Generation.EnabledTypes()))
}

func joinTypes(ts []types.CardType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func init() {
	generateCmd.Flags().StringP("input", "i", "", "topic outline (.yaml, .yml or .toml)")
	generateCmd.Flags().StringP("output", "o", "", "RemNote import file (default from output.path)")
	generateCmd.Flags().Bool("dry-run", false, "print the topic tree and estimated card counts without calling the LLM")
	generateCmd.Flags().Bool("validate-only", false, "validate the outline and exit")
	generateCmd.Flags().Bool("flat", false, "write cards without topic headings")
	generateCmd.Flags().Bool("refresh", false, "ignore cached cards and regenerate every topic")
	generateCmd.Flags().Bool("no-cache", false, "disable the card cache")
	generateCmd.Flags().Bool("no-stats", false, "do not write the stats sidecar")
	generateCmd.Flags().Bool("strict", false, "fail when the output does not pass validation")
	generateCmd.Flags().String("provider", "", "LLM provider: anthropic or gemini")
	generateCmd.Flags().String("model", "", "LLM model identifier")
	generateCmd.Flags().String("cards-out", "", "also save the generated cards as YAML")
	generateCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(generateCmd)
}
