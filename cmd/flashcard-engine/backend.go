// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/flashcard-engine/internal/generate"
	"github.com/pdiddy/flashcard-engine/internal/secrets"
	"github.com/pdiddy/flashcard-engine/pkg/types"
)

// apiKey resolves the key for the configured provider: config first, then
// environment, then the secrets directory.
func apiKey(cfg types.LLMConfig) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	name, ok := secrets.KeyFor(cfg.Provider)
	if !ok {
		return "", fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if key := secrets.Lookup(loadedSecrets, name); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key for %s: set llm.api_key, the provider's environment variable, or .secrets/%s", cfg.Provider, name)
}

func newBackend(ctx context.Context, cfg types.LLMConfig) (generate.Backend, error) {
	key, err := apiKey(cfg)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case types.ProviderAnthropic:
		return &generate.ClaudeBackend{
			APIKey:    key,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Client:    client,
		}, nil
	case types.ProviderGemini:
		return generate.NewGeminiBackend(ctx, key, cfg.Model, cfg.MaxTokens, client)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
