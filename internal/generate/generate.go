// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces flashcards for each topic of an outline. Concept,
// basic, cloze and descriptor cards come from one LLM call per card type;
// multiline, list-answer and multiple-choice cards are derived from the
// topic itself.
package generate

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pdiddy/flashcard-engine/internal/prompts"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// Backend abstracts the LLM so tests can supply a mock. Given a prompt it
// returns the model's text.
type Backend interface {
	Complete(ctx context.Context, p prompts.Prompt) (string, error)
}

// Cache stores generated cards by topic fingerprint.
type Cache interface {
	Get(ctx context.Context, fingerprint string) ([]types.Card, bool, error)
	Put(ctx context.Context, fingerprint, topic string, cards []types.Card) error
}

// Walker visits topics in pre-order with their parent name and depth.
type Walker interface {
	Walk(fn func(topic types.Topic, parent string, depth int) error) error
}

// llmTypes are generated by prompting; the rest are derived.
var llmTypes = map[types.CardType]bool{
	types.CardConcept:    true,
	types.CardBasic:      true,
	types.CardCloze:      true,
	types.CardDescriptor: true,
}

// Summary holds counts from a generation run.
type Summary struct {
	Generated int
	Cached    int
	Partial   int
	Failed    int
	Cards     int
}

// Total returns the number of topics processed.
func (s Summary) Total() int {
	return s.Generated + s.Cached + s.Failed
}

// HasFailures reports whether any topic produced no cards because of errors.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Generator turns topics into cards.
type Generator struct {
	Backend    Backend
	Prompts    *prompts.Loader
	LLM        types.LLMConfig
	Generation types.GenerationConfig

	// Subject is passed to the prompt templates.
	Subject string

	// Cache is optional. Refresh bypasses lookups but still stores results.
	Cache   Cache
	Refresh bool

	Logger *slog.Logger
}

// New returns a Generator whose backend is paced to cfg.LLM.MinInterval.
func New(backend Backend, loader *prompts.Loader, cfg types.Config) *Generator {
	if cfg.LLM.MinInterval > 0 {
		backend = &paced{
			Backend: backend,
			limiter: rate.NewLimiter(rate.Every(cfg.LLM.MinInterval), 1),
		}
	}
	return &Generator{
		Backend:    backend,
		Prompts:    loader,
		LLM:        cfg.LLM,
		Generation: cfg.Generation,
	}
}

// paced spaces calls to the wrapped backend, retries included.
type paced struct {
	Backend
	limiter *rate.Limiter
}

func (p *paced) Complete(ctx context.Context, pr prompts.Prompt) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.Backend.Complete(ctx, pr)
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.Logger
}

func (g *Generator) maxRetries() int {
	if g.LLM.MaxRetries <= 0 {
		return 3
	}
	return g.LLM.MaxRetries
}

type topicResult struct {
	cards  []types.Card
	cached bool
	err    error
}

// All generates cards for every topic the walker visits. Topics run
// concurrently up to LLM.Concurrency; cards come back in walk order.
// A failing topic is reported on w and counted, not returned as an error.
func (g *Generator) All(ctx context.Context, tree Walker, w io.Writer) ([]types.Card, Summary, error) {
	type job struct {
		topic  types.Topic
		parent string
	}
	var jobs []job
	if err := tree.Walk(func(tp types.Topic, parent string, _ int) error {
		jobs = append(jobs, job{topic: tp, parent: parent})
		return nil
	}); err != nil {
		return nil, Summary{}, err
	}

	limit := g.LLM.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]topicResult, len(jobs))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, j := range jobs {
		eg.Go(func() error {
			mu.Lock()
			fmt.Fprintf(w, "generating %s\n", j.topic.Name)
			mu.Unlock()

			res := g.cachedTopic(egCtx, j.topic, j.parent)
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			switch {
			case res.cached:
				fmt.Fprintf(w, "cached  %s (%d cards)\n", j.topic.Name, len(res.cards))
			case res.err != nil && len(res.cards) == 0:
				fmt.Fprintf(w, "failed  %s: %v\n", j.topic.Name, res.err)
			case res.err != nil:
				fmt.Fprintf(w, "partial %s (%d cards): %v\n", j.topic.Name, len(res.cards), res.err)
			default:
				fmt.Fprintf(w, "generated %s (%d cards)\n", j.topic.Name, len(res.cards))
			}

			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				return res.err
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, Summary{}, err
	}

	var cards []types.Card
	var summary Summary
	for _, res := range results {
		switch {
		case res.cached:
			summary.Cached++
		case res.err != nil && len(res.cards) == 0:
			summary.Failed++
		case res.err != nil:
			summary.Partial++
			summary.Generated++
		default:
			summary.Generated++
		}
		cards = append(cards, res.cards...)
	}
	summary.Cards = len(cards)
	return cards, summary, nil
}

// cachedTopic serves a topic from the cache when possible. Only complete
// results are stored.
func (g *Generator) cachedTopic(ctx context.Context, tp types.Topic, parent string) topicResult {
	fp := Fingerprint(tp, parent, g.Generation.EnabledTypes(), g.LLM.Model, g.settingsKey())
	log := g.logger().With("topic", tp.Name, "fingerprint", fp)

	if g.Cache != nil && !g.Refresh {
		cards, ok, err := g.Cache.Get(ctx, fp)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", "error", err)
		case ok:
			log.Debug("cache hit", "cards", len(cards))
			return topicResult{cards: cards, cached: true}
		}
	}

	cards, err := g.Topic(ctx, tp, parent)
	if err == nil && g.Cache != nil {
		if perr := g.Cache.Put(ctx, fp, tp.Name, cards); perr != nil {
			log.Warn("cache store failed", "error", perr)
		}
	}
	return topicResult{cards: cards, err: err}
}

// Topic generates cards for one topic. Each card carries the topic name as
// Parent. When some card types fail, the cards that succeeded are returned
// together with the joined errors.
func (g *Generator) Topic(ctx context.Context, tp types.Topic, parent string) ([]types.Card, error) {
	var cards []types.Card
	var errs []error

	for _, t := range g.Generation.EnabledTypes() {
		var got []types.Card
		if llmTypes[t] {
			if g.Prompts == nil || !g.Prompts.Has(t) {
				continue
			}
			var err error
			got, err = g.fromLLM(ctx, t, tp, parent)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				g.logger().Warn("card type failed", "topic", tp.Name, "type", string(t), "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", t, err))
				continue
			}
		} else {
			got = derive(t, tp, g.Generation.MultilineThreshold)
		}

		for i := range got {
			got[i].Parent = tp.Name
			got[i].Tags = []string{tp.Name, string(t)}
		}
		cards = append(cards, got...)
	}

	return cards, errors.Join(errs...)
}

func (g *Generator) fromLLM(ctx context.Context, t types.CardType, tp types.Topic, parent string) ([]types.Card, error) {
	p, err := g.Prompts.Render(t, prompts.Data{
		Subject:     g.Subject,
		Topic:       tp.Name,
		Parent:      parent,
		Content:     tp.Content,
		Difficulty:  tp.Difficulty,
		KeyConcepts: tp.KeyConcepts,
		Examples:    tp.Examples,
	})
	if err != nil {
		return nil, err
	}
	if p.Temperature == nil {
		temp := g.LLM.Temperature
		p.Temperature = &temp
	}

	g.logger().Debug("prompting", "topic", tp.Name, "type", string(t), "max_cards", p.MaxCards)
	resp, err := callWithRetry(ctx, g.Backend, p, g.maxRetries())
	if err != nil {
		return nil, err
	}
	return parseCards(t, resp, p)
}

// Estimate returns the range of cards Topic could produce for tp without
// calling the backend. Each prompted type yields between one card and its
// template limit; derived types are counted exactly.
func (g *Generator) Estimate(tp types.Topic) (lo, hi int) {
	for _, t := range g.Generation.EnabledTypes() {
		if !llmTypes[t] {
			n := len(derive(t, tp, g.Generation.MultilineThreshold))
			lo += n
			hi += n
			continue
		}
		if g.Prompts == nil || !g.Prompts.Has(t) {
			continue
		}
		lo++
		hi += g.Prompts.MaxCards(t)
	}
	return lo, hi
}

// settingsKey folds the prompt templates and generation knobs that shape
// the output into one string for Fingerprint.
func (g *Generator) settingsKey() string {
	digest := ""
	if g.Prompts != nil {
		digest = g.Prompts.Digest()
	}
	return fmt.Sprintf("%s|%g|%d", digest, g.LLM.Temperature, g.Generation.MultilineThreshold)
}

// Fingerprint identifies a topic's generation inputs. Any change to the
// topic text, its parent, the enabled card types, the model or the
// settings (prompt templates and sampling) changes it.
func Fingerprint(tp types.Topic, parent string, enabled []types.CardType, model, settings string) string {
	h := sha256.New()
	for _, s := range []string{tp.Name, parent, tp.Content, tp.Difficulty, model, settings} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte(strings.Join(tp.KeyConcepts, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(tp.Examples, "\x1f")))
	h.Write([]byte{0})
	for _, t := range enabled {
		h.Write([]byte(t))
		h.Write([]byte{0x1f})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
