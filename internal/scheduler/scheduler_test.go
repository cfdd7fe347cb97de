// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(discardLogger())
	if err := s.Add("noop", "does nothing", "@every 1h", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	s.Stop()
}

func TestSchedulerAdd(t *testing.T) {
	s := New(discardLogger())
	noop := func(context.Context) error { return nil }

	if err := s.Add("a", "", "*/5 * * * *", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("a", "", "@hourly", noop); err == nil {
		t.Error("expected error for duplicate job name")
	}
	if err := s.Add("b", "", "not a schedule", noop); err == nil {
		t.Error("expected error for invalid schedule")
	}

	jobs := s.List()
	if len(jobs) != 1 || jobs[0].Name != "a" || jobs[0].Schedule != "*/5 * * * *" {
		t.Errorf("List() = %+v", jobs)
	}
}

func TestTriggerNow(t *testing.T) {
	s := New(discardLogger())

	var calls atomic.Int32
	boom := errors.New("boom")
	_ = s.Add("ok", "", "@daily", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context has no deadline")
		}
		calls.Add(1)
		return nil
	})
	_ = s.Add("fails", "", "@daily", func(context.Context) error { return boom })

	if err := s.TriggerNow("ok"); err != nil {
		t.Errorf("TriggerNow(ok) error = %v", err)
	}
	if err := s.TriggerNow("fails"); !errors.Is(err, boom) {
		t.Errorf("TriggerNow(fails) error = %v, want %v", err, boom)
	}
	if err := s.TriggerNow("missing"); err == nil {
		t.Error("expected error for unknown job")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}

	for _, info := range s.List() {
		switch info.Name {
		case "ok":
			if info.Runs != 1 || info.LastError != "" || info.LastRun.IsZero() {
				t.Errorf("ok info = %+v", info)
			}
		case "fails":
			if info.Runs != 1 || info.LastError != "boom" {
				t.Errorf("fails info = %+v", info)
			}
		}
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(discardLogger())
	s.Stop()

	var ctxErr error
	_ = s.Add("observe", "", "@daily", func(ctx context.Context) error {
		ctxErr = ctx.Err()
		return nil
	})
	_ = s.TriggerNow("observe")

	if !errors.Is(ctxErr, context.Canceled) {
		t.Errorf("ctx.Err() = %v, want context.Canceled", ctxErr)
	}
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(discardLogger())

	ran := make(chan struct{}, 1)
	_ = s.Add("tick", "", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

type fakeSitemap struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSitemap) Rebuild(context.Context) ([]byte, error) {
	f.calls.Add(1)
	return []byte("<urlset/>"), f.err
}

type fakePruner struct {
	maxIdle time.Duration
	removed int
}

func (f *fakePruner) Prune(maxIdle time.Duration) int {
	f.maxIdle = maxIdle
	return f.removed
}

func TestRegisterSiteJobs(t *testing.T) {
	s := New(discardLogger())
	sitemap := &fakeSitemap{}
	p1, p2 := &fakePruner{removed: 2}, &fakePruner{}

	err := s.RegisterSiteJobs(SiteJobs{
		Sitemap:  sitemap,
		Limiters: []Pruner{p1, p2},
		MaxIdle:  time.Minute,
	})
	if err != nil {
		t.Fatalf("RegisterSiteJobs() error = %v", err)
	}

	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(jobs))
	}
	if jobs[0].Name != JobLimiterPrune || jobs[1].Name != JobSitemapRebuild {
		t.Errorf("jobs = %+v", jobs)
	}
	if jobs[1].Schedule != "@hourly" {
		t.Errorf("sitemap schedule = %q, want @hourly", jobs[1].Schedule)
	}

	if err := s.TriggerNow(JobSitemapRebuild); err != nil {
		t.Errorf("sitemap job error = %v", err)
	}
	if sitemap.calls.Load() != 1 {
		t.Errorf("Rebuild calls = %d, want 1", sitemap.calls.Load())
	}

	if err := s.TriggerNow(JobLimiterPrune); err != nil {
		t.Errorf("prune job error = %v", err)
	}
	if p1.maxIdle != time.Minute || p2.maxIdle != time.Minute {
		t.Errorf("maxIdle = %v, %v", p1.maxIdle, p2.maxIdle)
	}
}

func TestRegisterSiteJobsSkipsMissing(t *testing.T) {
	s := New(discardLogger())
	if err := s.RegisterSiteJobs(SiteJobs{}); err != nil {
		t.Fatalf("RegisterSiteJobs() error = %v", err)
	}
	if len(s.List()) != 0 {
		t.Errorf("List() = %+v, want empty", s.List())
	}
}

func TestRegisterSiteJobsInvalidSchedule(t *testing.T) {
	s := New(discardLogger())
	err := s.RegisterSiteJobs(SiteJobs{Sitemap: &fakeSitemap{}, SitemapSchedule: "every day"})
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"0 * * * *", false},
		{"*/10 * * * *", false},
		{"@hourly", false},
		{"@every 30m", false},
		{"", true},
		{"   ", true},
		{"* * *", true},
		{"61 * * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}
