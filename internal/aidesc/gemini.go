// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package aidesc

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider generates descriptions with Google's Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

// ID implements Provider.
func (p *GeminiProvider) ID() string { return ProviderGemini }

// Model implements Provider.
func (p *GeminiProvider) Model() string { return p.model }

// Describe implements Provider.
func (p *GeminiProvider) Describe(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx,
		p.model,
		genai.Text(buildUserPrompt(req)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr[float32](temperature),
			MaxOutputTokens:   maxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := cleanOutput(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
