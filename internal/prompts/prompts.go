// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompts loads the per-card-type prompt templates sent to the LLM.
// Built-in templates are embedded; a directory of <type>_card.yaml files
// overrides them one by one.
package prompts

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// ErrNoTemplate is returned by Render for a card type with no template.
var ErrNoTemplate = errors.New("no prompt template")

// File is the on-disk form of a prompt template.
type File struct {
	SystemPrompt string     `yaml:"system_prompt"`
	UserPrompt   string     `yaml:"user_prompt"`
	Config       FileConfig `yaml:"config"`
}

// FileConfig tunes generation for one card type.
type FileConfig struct {
	// Temperature overrides the configured LLM temperature when set.
	Temperature *float64 `yaml:"temperature"`
	MaxCards    int      `yaml:"max_cards"`
	Separator   string   `yaml:"separator"`
}

// Data is the template input for one topic.
type Data struct {
	Subject     string
	Topic       string
	Parent      string
	Content     string
	Difficulty  string
	KeyConcepts []string
	Examples    []string
	MaxCards    int
}

// Prompt is a rendered prompt ready for a backend.
type Prompt struct {
	System      string
	User        string
	Temperature *float64
	MaxCards    int
	Separator   string
}

type compiled struct {
	system *template.Template
	user   *template.Template
	cfg    FileConfig
	raw    []byte
}

// Loader holds the compiled templates keyed by card type.
type Loader struct {
	templates map[types.CardType]compiled
}

var funcs = template.FuncMap{"join": strings.Join}

// New compiles the embedded templates, then any overrides found in dir.
// An empty dir uses the embedded templates only.
func New(dir string) (*Loader, error) {
	l := &Loader{templates: make(map[types.CardType]compiled)}

	for _, t := range types.AllCardTypes() {
		data, err := defaults.ReadFile("defaults/" + fileName(t))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading embedded template %s: %w", t, err)
		}
		if err := l.add(t, data); err != nil {
			return nil, err
		}
	}

	if dir == "" {
		return l, nil
	}
	for _, t := range types.AllCardTypes() {
		path := filepath.Join(dir, fileName(t))
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
		if err := l.add(t, data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return l, nil
}

func fileName(t types.CardType) string {
	return string(t) + "_card.yaml"
}

func (l *Loader) add(t types.CardType, data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s template: %w", t, err)
	}
	if strings.TrimSpace(f.SystemPrompt) == "" || strings.TrimSpace(f.UserPrompt) == "" {
		return fmt.Errorf("%s template: system_prompt and user_prompt are required", t)
	}
	if f.Config.MaxCards <= 0 {
		f.Config.MaxCards = 1
	}

	sys, err := template.New(string(t) + "-system").Funcs(funcs).Parse(f.SystemPrompt)
	if err != nil {
		return fmt.Errorf("%s system prompt: %w", t, err)
	}
	user, err := template.New(string(t) + "-user").Funcs(funcs).Parse(f.UserPrompt)
	if err != nil {
		return fmt.Errorf("%s user prompt: %w", t, err)
	}
	l.templates[t] = compiled{system: sys, user: user, cfg: f.Config, raw: data}
	return nil
}

// Types lists the card types that have a template, in canonical order.
func (l *Loader) Types() []types.CardType {
	var out []types.CardType
	for _, t := range types.AllCardTypes() {
		if _, ok := l.templates[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Has reports whether a template exists for t.
func (l *Loader) Has(t types.CardType) bool {
	_, ok := l.templates[t]
	return ok
}

// MaxCards returns the configured card limit for t, or 0 without a template.
func (l *Loader) MaxCards(t types.CardType) int {
	return l.templates[t].cfg.MaxCards
}

// Digest identifies the active template set: any edit to a template file,
// an override included, changes it.
func (l *Loader) Digest() string {
	h := sha256.New()
	for _, t := range l.Types() {
		h.Write([]byte(t))
		h.Write([]byte{0})
		h.Write(l.templates[t].raw)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// Render executes the templates for t with d. d.MaxCards is filled from the
// template config when zero.
func (l *Loader) Render(t types.CardType, d Data) (Prompt, error) {
	c, ok := l.templates[t]
	if !ok {
		return Prompt{}, fmt.Errorf("%w for %s", ErrNoTemplate, t)
	}
	if d.MaxCards <= 0 {
		d.MaxCards = c.cfg.MaxCards
	}

	var sys, user bytes.Buffer
	if err := c.system.Execute(&sys, d); err != nil {
		return Prompt{}, fmt.Errorf("rendering %s system prompt: %w", t, err)
	}
	if err := c.user.Execute(&user, d); err != nil {
		return Prompt{}, fmt.Errorf("rendering %s user prompt: %w", t, err)
	}

	return Prompt{
		System:      strings.TrimSpace(sys.String()),
		User:        strings.TrimSpace(user.String()),
		Temperature: c.cfg.Temperature,
		MaxCards:    d.MaxCards,
		Separator:   c.cfg.Separator,
	}, nil
}
