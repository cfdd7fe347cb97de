// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package contact

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arrowedge/site/internal/cache"
)

// Operand bounds of a challenge.
const (
	MinOperand = 1
	MaxOperand = 10
)

// Operator is the arithmetic operation of a challenge.
type Operator string

// Supported operators.
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
)

// Challenge errors.
var (
	ErrChallengeInvalid = errors.New("challenge token invalid")
	ErrChallengeExpired = errors.New("challenge expired")
	ErrChallengeUsed    = errors.New("challenge already used")
	ErrWrongAnswer      = errors.New("wrong challenge answer")
)

// Challenge is a single-operation arithmetic question.
type Challenge struct {
	A  int      `json:"a"`
	B  int      `json:"b"`
	Op Operator `json:"op"`
}

// NewChallenge draws operands in [MinOperand, MaxOperand] and a random operator.
func NewChallenge(r *rand.Rand) Challenge {
	op := OpAdd
	if r.IntN(2) == 1 {
		op = OpSub
	}
	span := MaxOperand - MinOperand + 1
	return Challenge{
		A:  MinOperand + r.IntN(span),
		B:  MinOperand + r.IntN(span),
		Op: op,
	}
}

// Valid reports whether the operands are in range and the operator is known.
func (c Challenge) Valid() bool {
	inRange := func(n int) bool { return n >= MinOperand && n <= MaxOperand }
	return inRange(c.A) && inRange(c.B) && (c.Op == OpAdd || c.Op == OpSub)
}

// Answer evaluates the challenge.
func (c Challenge) Answer() int {
	if c.Op == OpSub {
		return c.A - c.B
	}
	return c.A + c.B
}

// Check accepts exactly the integer answer, ignoring surrounding space.
func (c Challenge) Check(input string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	return err == nil && n == c.Answer()
}

// Question renders the challenge for display, e.g. "What is 3 + 4?".
func (c Challenge) Question() string {
	return fmt.Sprintf("What is %d %s %d?", c.A, c.Op, c.B)
}

// Signer issues and verifies stateless challenge tokens. A token carries
// the operands, a nonce and an expiry, authenticated with HMAC-SHA256.
type Signer struct {
	secret []byte
	ttl    time.Duration
	used   cache.Cache
	now    func() time.Time
}

// NewSigner creates a Signer. When used is non-nil each token is accepted
// at most once.
func NewSigner(secret string, ttl time.Duration, used cache.Cache) *Signer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl, used: used, now: time.Now}
}

// Issue returns a token for c.
func (s *Signer) Issue(c Challenge) string {
	payload := strings.Join([]string{
		strconv.Itoa(c.A),
		strconv.Itoa(c.B),
		string(c.Op),
		strconv.FormatInt(s.now().Add(s.ttl).Unix(), 10),
		uuid.NewString(),
	}, "|")
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(payload)) + "." + enc.EncodeToString(s.mac([]byte(payload)))
}

// Verify checks the token signature, expiry and answer.
func (s *Signer) Verify(ctx context.Context, token, answer string) error {
	c, expires, nonce, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.now().After(expires) {
		return ErrChallengeExpired
	}
	if !c.Check(answer) {
		return ErrWrongAnswer
	}
	if s.used == nil {
		return nil
	}

	// The nonce is claimed atomically; concurrent posts of one token get
	// exactly one success.
	claimed, err := s.used.SetNX(ctx, "captcha:"+nonce, []byte{1}, expires.Sub(s.now())+time.Minute)
	if err != nil {
		return fmt.Errorf("recording challenge: %w", err)
	}
	if !claimed {
		return ErrChallengeUsed
	}
	return nil
}

func (s *Signer) parse(token string) (Challenge, time.Time, string, error) {
	var c Challenge
	encPayload, encMAC, ok := strings.Cut(token, ".")
	if !ok {
		return c, time.Time{}, "", ErrChallengeInvalid
	}

	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(encPayload)
	if err != nil {
		return c, time.Time{}, "", ErrChallengeInvalid
	}
	mac, err := enc.DecodeString(encMAC)
	if err != nil || !hmac.Equal(mac, s.mac(payload)) {
		return c, time.Time{}, "", ErrChallengeInvalid
	}

	parts := strings.Split(string(payload), "|")
	if len(parts) != 5 {
		return c, time.Time{}, "", ErrChallengeInvalid
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	exp, errE := strconv.ParseInt(parts[3], 10, 64)
	c = Challenge{A: a, B: b, Op: Operator(parts[2])}
	if errA != nil || errB != nil || errE != nil || !c.Valid() {
		return Challenge{}, time.Time{}, "", ErrChallengeInvalid
	}
	return c, time.Unix(exp, 0), parts[4], nil
}

func (s *Signer) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	return h.Sum(nil)
}
