// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Intake errors.
var (
	ErrCaptchaRequired = errors.New("challenge answer required")
	ErrDelivery        = errors.New("email delivery failed")
)

// IntakeConfig configures an Intake.
type IntakeConfig struct {
	From    string
	To      []string
	Timeout time.Duration
	// RequireCaptcha rejects submissions that carry no challenge token.
	RequireCaptcha bool
}

// Intake validates submissions and relays them as email.
type Intake struct {
	cfg    IntakeConfig
	mailer Mailer
	signer *Signer
	logger *slog.Logger
	now    func() time.Time
}

// NewIntake creates an Intake. signer may be nil when no challenge is used.
func NewIntake(cfg IntakeConfig, mailer Mailer, signer *Signer, logger *slog.Logger) *Intake {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Intake{cfg: cfg, mailer: mailer, signer: signer, logger: logger, now: time.Now}
}

// Submit normalises, validates and delivers a submission, returning its id.
// Validation failures are returned as ValidationErrors; delivery failures
// wrap ErrDelivery.
func (in *Intake) Submit(ctx context.Context, sub Submission) (string, error) {
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return "", err
	}
	if err := in.checkChallenge(ctx, sub); err != nil {
		return "", err
	}

	id := uuid.NewString()
	email, err := Compose(sub, id, in.cfg.From, in.cfg.To, in.now())
	if err != nil {
		return "", err
	}

	sendCtx, cancel := context.WithTimeout(ctx, in.cfg.Timeout)
	defer cancel()
	if err := in.mailer.Send(sendCtx, email); err != nil {
		in.logger.Error("contact email failed", "submission_id", id, "error", err)
		return "", fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	in.logger.Info("contact email sent",
		"submission_id", id,
		"email", sub.Email,
		"services", len(sub.Services),
	)
	return id, nil
}

// NewChallengeToken signs c. It reports false when no signer is configured.
func (in *Intake) NewChallengeToken(c Challenge) (string, bool) {
	if in.signer == nil {
		return "", false
	}
	return in.signer.Issue(c), true
}

func (in *Intake) checkChallenge(ctx context.Context, sub Submission) error {
	if sub.CaptchaToken == "" {
		if in.cfg.RequireCaptcha {
			return ErrCaptchaRequired
		}
		return nil
	}
	if in.signer == nil {
		return ErrChallengeInvalid
	}
	return in.signer.Verify(ctx, sub.CaptchaToken, sub.CaptchaAnswer)
}

// IsChallengeError reports whether err came from challenge verification.
func IsChallengeError(err error) bool {
	for _, target := range []error{ErrCaptchaRequired, ErrChallengeInvalid, ErrChallengeExpired, ErrChallengeUsed, ErrWrongAnswer} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
