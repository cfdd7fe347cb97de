// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package contact implements the contact form intake: field validation,
// the arithmetic challenge, email composition and SMTP delivery.
package contact

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Field patterns accepted by the contact form.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,}$`)
)

// Field limits.
const (
	MaxNameLength    = 200
	MaxMessageLength = 5000
	MaxServices      = 20
)

// Submission is the JSON body posted by the contact form.
type Submission struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Budget   string   `json:"budget"`
	Message  string   `json:"message"`
	Services []string `json:"services"`

	// Optional server-verified challenge.
	CaptchaToken  string `json:"captchaToken,omitempty"`
	CaptchaAnswer string `json:"captchaAnswer,omitempty"`
}

// Normalize trims every field and drops blank or repeated services.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Budget = strings.TrimSpace(s.Budget)
	s.Message = strings.TrimSpace(s.Message)
	s.CaptchaToken = strings.TrimSpace(s.CaptchaToken)
	s.CaptchaAnswer = strings.TrimSpace(s.CaptchaAnswer)

	services := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		svc = strings.TrimSpace(svc)
		if svc != "" && !slices.Contains(services, svc) {
			services = append(services, svc)
		}
	}
	s.Services = services
}

// ValidationErrors maps a field name to a human readable problem.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := slices.Sorted(maps.Keys(v))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// Validate checks required fields and formats. It returns nil or a
// non-empty ValidationErrors.
func (s *Submission) Validate() error {
	errs := ValidationErrors{}

	switch {
	case s.Name == "":
		errs["name"] = "Name is required"
	case len(s.Name) > MaxNameLength:
		errs["name"] = "Name is too long"
	}

	switch {
	case s.Email == "":
		errs["email"] = "Email is required"
	case !IsValidEmail(s.Email):
		errs["email"] = "Please enter a valid email address"
	}

	if s.Phone != "" && !IsValidPhone(s.Phone) {
		errs["phone"] = "Please enter a valid phone number"
	}

	switch {
	case s.Message == "":
		errs["message"] = "Message is required"
	case len(s.Message) > MaxMessageLength:
		errs["message"] = "Message is too long"
	}

	if len(s.Services) > MaxServices {
		errs["services"] = "Too many services selected"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsValidEmail reports whether email matches the accepted address shape.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone reports whether phone matches the accepted number shape.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
