// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flashcard-engine/internal/remnote"
	"github.com/pdiddy/flashcard-engine/internal/topics"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format a saved card file as RemNote import text",
	Long: `Format reads cards saved by generate --cards-out (YAML or JSON) and
writes RemNote import text without calling the LLM. Pass the topic outline
with --content to nest cards under the outline's headings; without it every
card's parent is treated as a top-level topic.`,
	RunE: runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyOutputFlags(cmd, &cfg); err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	set, err := readCards(input)
	if err != nil {
		return err
	}

	var h remnote.Hierarchy
	subject := set.Subject
	if contentPath, _ := cmd.Flags().GetString("content"); contentPath != "" {
		content, err := topics.Load(contentPath)
		if err != nil {
			return err
		}
		tree, err := topics.NewTree(content.Topics)
		if err != nil {
			return err
		}
		h = tree
		if subject == "" {
			subject = content.Metadata.Subject
		}
	}

	fmt.Fprintf(os.Stdout, "formatting %d cards from %s\n", len(set.Cards), input)
	strict, _ := cmd.Flags().GetBool("strict")
	return emit(os.Stdout, cfg, subject, set.Cards, h, strict)
}

func init() {
	formatCmd.Flags().StringP("input", "i", "", "card file (.yaml or .json)")
	formatCmd.Flags().String("content", "", "topic outline used for headings")
	formatCmd.Flags().StringP("output", "o", "", "RemNote import file (default from output.path)")
	formatCmd.Flags().Bool("flat", false, "write cards without topic headings")
	formatCmd.Flags().Bool("no-stats", false, "do not write the stats sidecar")
	formatCmd.Flags().Bool("strict", false, "fail when the output does not pass validation")
	formatCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(formatCmd)
}
