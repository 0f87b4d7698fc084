// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flashcard-engine/internal/remnote"
	"github.com/pdiddy/flashcard-engine/internal/topics"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a RemNote import file or a topic outline",
	Long: `Validate runs the import checks (balanced cloze delimiters, no
unescaped reserved tokens, consistent indentation) on a RemNote text file.
With --content it validates a topic outline instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if contentPath, _ := cmd.Flags().GetString("content"); contentPath != "" {
		content, err := topics.Load(contentPath)
		if err != nil {
			return err
		}
		if err := topics.Validate(content); err != nil {
			return err
		}
		tree, err := topics.NewTree(content.Topics)
		if err != nil {
			return err
		}
		good.Fprintf(os.Stdout, "%s: %d topics, valid\n", contentPath, tree.Len())
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("file or --content required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	report := remnote.Validate(strings.TrimRight(string(data), "\n"))
	printValidation(os.Stdout, report)
	if !report.OK() {
		return fmt.Errorf("%s failed validation: %s", args[0], strings.Join(report.Failed(), ", "))
	}
	return nil
}

func init() {
	validateCmd.Flags().String("content", "", "validate a topic outline instead of an import file")

	rootCmd.AddCommand(validateCmd)
}
