// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/pdiddy/flashcard-engine/internal/remnote"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

const maxIssuesShown = 10

var (
	heading = color.New(color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)

// printReport writes formatting statistics and validation results.
func printReport(w io.Writer, res *remnote.Result) {
	printStats(w, res.Stats)
	printValidation(w, res.Validation)

	if len(res.Errors) > 0 {
		warn.Fprintf(w, "\n%d card(s) skipped:\n", len(res.Errors))
		for i, e := range res.Errors {
			if i == maxIssuesShown {
				fmt.Fprintf(w, "  ... %d more\n", len(res.Errors)-i)
				break
			}
			fmt.Fprintf(w, "  %v\n", e)
		}
	}
	if res.Partial {
		warn.Fprintln(w, "\nresult is partial")
	}
}

func printStats(w io.Writer, st types.FormattingStats) {
	heading.Fprintln(w, "\nCards")
	fmt.Fprintf(w, "  %-18s %d\n", "total", st.Total)
	for _, t := range types.AllCardTypes() {
		if n := st.ByType[t]; n > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", t, n)
		}
	}
	fmt.Fprintf(w, "  %-18s %d\n", "topics", st.Topics)
	fmt.Fprintf(w, "  %-18s %.1f\n", "per topic", st.AveragePerTopic)
	if st.Levels > 0 {
		fmt.Fprintf(w, "  %-18s %d\n", "levels", st.Levels)
	}
	if st.Escaped > 0 {
		fmt.Fprintf(w, "  %-18s %d\n", "escaped", st.Escaped)
	}
	if st.Duplicates > 0 {
		warn.Fprintf(w, "  %-18s %d\n", "duplicates", st.Duplicates)
	}
	if st.Failed > 0 {
		bad.Fprintf(w, "  %-18s %d\n", "failed", st.Failed)
	}
}

func printValidation(w io.Writer, r remnote.Report) {
	heading.Fprintln(w, "\nValidation")
	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if r.Checks[name] {
			good.Fprintf(w, "  ok    %s\n", name)
		} else {
			bad.Fprintf(w, "  FAIL  %s\n", name)
		}
	}
	for i, issue := range r.Issues {
		if i == maxIssuesShown {
			fmt.Fprintf(w, "  ... %d more\n", len(r.Issues)-i)
			break
		}
		fmt.Fprintf(w, "  %v\n", issue)
	}
}
