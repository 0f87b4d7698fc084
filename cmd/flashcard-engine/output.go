// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flashcard-engine/internal/remnote"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// statsFile is the sidecar written next to the import file.
type statsFile struct {
	Subject     string                `yaml:"subject,omitempty"`
	GeneratedAt time.Time             `yaml:"generated_at"`
	Output      string                `yaml:"output"`
	Stats       types.FormattingStats `yaml:"stats"`
	Validation  map[string]bool       `yaml:"validation"`
	Partial     bool                  `yaml:"partial"`
	Errors      []string              `yaml:"errors,omitempty"`
}

// emit formats cards, writes the import file and the optional sidecar, and
// prints the report. With strict set a failed validation is an error.
func emit(w io.Writer, cfg types.Config, subject string, cards []types.Card, h remnote.Hierarchy, strict bool) error {
	f := remnote.Formatter{Hierarchy: h, PreserveHierarchy: cfg.RemNote.PreserveHierarchy}
	res := f.Format(cards)

	if res.Text == "" {
		printReport(w, res)
		return fmt.Errorf("no cards to write")
	}
	if err := writeFile(cfg.Output.Path, []byte(res.Text+"\n")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(w, "wrote %s\n", cfg.Output.Path)

	if cfg.Output.IncludeStats {
		path := statsPath(cfg.Output.Path)
		if err := writeStats(path, subject, cfg.Output.Path, res); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", path)
	}

	printReport(w, res)
	if strict && !res.Validation.OK() {
		return fmt.Errorf("output failed validation: %s", strings.Join(res.Validation.Failed(), ", "))
	}
	return nil
}

func statsPath(output string) string {
	return output + ".stats.yaml"
}

func writeStats(path, subject, output string, res *remnote.Result) error {
	sf := statsFile{
		Subject:     subject,
		GeneratedAt: time.Now().UTC(),
		Output:      output,
		Stats:       res.Stats,
		Validation:  res.Validation.Checks,
		Partial:     res.Partial,
	}
	for _, e := range res.Errors {
		sf.Errors = append(sf.Errors, e.Error())
	}
	for _, e := range res.Validation.Issues {
		sf.Errors = append(sf.Errors, e.Error())
	}
	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshaling stats: %w", err)
	}
	return writeFile(path, data)
}

// writeCards saves a card set as YAML, or JSON for a .json path.
func writeCards(path string, set types.CardSet) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(set, "", "  ")
	} else {
		data, err = yaml.Marshal(&set)
	}
	if err != nil {
		return fmt.Errorf("marshaling cards: %w", err)
	}
	return writeFile(path, data)
}

// readCards loads a card set written by writeCards. A bare list of cards is
// accepted as well.
func readCards(path string) (types.CardSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CardSet{}, fmt.Errorf("reading cards: %w", err)
	}

	isJSON := strings.EqualFold(filepath.Ext(path), ".json")
	unmarshal := yaml.Unmarshal
	if isJSON {
		unmarshal = json.Unmarshal
	}

	var set types.CardSet
	if err := unmarshal(data, &set); err == nil && len(set.Cards) > 0 {
		return set, nil
	}
	var list []types.Card
	if err := unmarshal(data, &list); err != nil {
		return types.CardSet{}, fmt.Errorf("parsing cards %s: %w", path, err)
	}
	return types.CardSet{Cards: list}, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
