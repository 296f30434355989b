// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/assessmatch/internal/metrics"
)

type fakeProbe struct {
	count atomic.Int64
	err   error
	calls atomic.Int32
}

func (f *fakeProbe) Count(context.Context) (int, error) {
	f.calls.Add(1)
	return int(f.count.Load()), f.err
}

type fakeVerifier struct{ err error }

func (f fakeVerifier) VerifyModel(context.Context) error { return f.err }

func TestIndexMonitorService_Check(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		probeErr error
		verifier ModelVerifier
		want     bool
	}{
		{"healthy", 42, nil, fakeVerifier{}, true},
		{"healthy without verifier", 42, nil, nil, true},
		{"empty", 0, nil, fakeVerifier{}, false},
		{"unreachable", 0, errors.New("connection refused"), fakeVerifier{}, false},
		{"model mismatch", 42, nil, fakeVerifier{err: errors.New("model mismatch")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &fakeProbe{err: tt.probeErr}
			probe.count.Store(tt.count)
			svc := NewIndexMonitorService(probe, tt.verifier, time.Minute, zerolog.Nop())

			svc.check(context.Background())

			if svc.Healthy() != tt.want {
				t.Errorf("Healthy() = %v, want %v", svc.Healthy(), tt.want)
			}
			if svc.Records() != int(tt.count) {
				t.Errorf("Records() = %d, want %d", svc.Records(), tt.count)
			}
		})
	}
}

func TestIndexMonitorService_UpdatesGauges(t *testing.T) {
	probe := &fakeProbe{}
	probe.count.Store(377)
	svc := NewIndexMonitorService(probe, nil, time.Minute, zerolog.Nop())

	svc.check(context.Background())

	if got := testutil.ToFloat64(metrics.IndexRecords); got != 377 {
		t.Errorf("index records gauge = %v, want 377", got)
	}
	if got := testutil.ToFloat64(metrics.IndexHealthy); got != 1 {
		t.Errorf("index healthy gauge = %v, want 1", got)
	}
}

func TestIndexMonitorService_ServeTicks(t *testing.T) {
	probe := &fakeProbe{}
	probe.count.Store(1)
	svc := NewIndexMonitorService(probe, nil, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if probe.calls.Load() < 3 {
		t.Errorf("probe called %d times, want at least 3", probe.calls.Load())
	}
}
