// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package aidesc generates short marketing descriptions of portfolio
// projects with a hosted generative-text model.
package aidesc

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider IDs.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Generation limits.
const (
	maxOutputTokens = 300
	temperature     = 0.7
	maxInputLength  = 4000
)

var (
	// ErrNotConfigured is returned when no API key is configured.
	ErrNotConfigured = errors.New("ai description provider not configured")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("ai provider returned no text")

	// ErrInvalidRequest wraps every Request validation failure.
	ErrInvalidRequest = errors.New("invalid description request")
)

// Request is the body of an AI description request.
type Request struct {
	ProjectTitle       string `json:"projectTitle"`
	ProjectDescription string `json:"projectDescription"`
}

// Validate checks the request has something to describe.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ProjectTitle) == "" {
		return fmt.Errorf("%w: projectTitle is required", ErrInvalidRequest)
	}
	if len(r.ProjectTitle)+len(r.ProjectDescription) > maxInputLength {
		return fmt.Errorf("%w: request too long", ErrInvalidRequest)
	}
	return nil
}

// Provider is the interface for generative-text backends.
type Provider interface {
	// ID returns the provider identifier.
	ID() string
	// Model returns the model used for generation.
	Model() string
	// Describe returns a description for the request.
	Describe(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the API endpoint, mostly for tests and proxies.
	BaseURL string
}

// NewProvider creates the configured provider. A missing API key yields
// ErrNotConfigured.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

const systemPrompt = `You are a copywriter for Arrowedge, a design and development studio.
Write a concise, engaging description of a portfolio project for its case study page.

Rules:
- Two or three sentences, under 80 words
- Plain text only, no markdown, no quotes, no headings
- Focus on the outcome for the client and the craft involved
- Do not invent metrics or client names that were not given`

// buildUserPrompt creates the user prompt for a request.
func buildUserPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Project title: ")
	sb.WriteString(strings.TrimSpace(req.ProjectTitle))
	sb.WriteString("\n")
	if d := strings.TrimSpace(req.ProjectDescription); d != "" {
		sb.WriteString("Project details: ")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	return sb.String()
}

// cleanOutput trims whitespace and wrapping quotes from model output.
func cleanOutput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"“”")
	return strings.TrimSpace(s)
}
