// AssessMatch - Assessment Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/assessmatch

package embedding

import (
	"context"
	"sync"

	"github.com/tomtom215/assessmatch/internal/metrics"
	"github.com/tomtom215/assessmatch/internal/recommend"
)

type poolResult struct {
	vec []float32
	err error
}

type poolJob struct {
	ctx    context.Context //nolint:containedctx // job carries the caller's deadline to the worker
	text   string
	result chan poolResult
}

// Pool runs embeddings on a fixed set of worker goroutines so that
// CPU-bound inference never runs on request goroutines. Callers waiting for
// a worker observe context cancellation.
type Pool struct {
	inner recommend.Embedder
	jobs  chan poolJob
	done  chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts workers goroutines in front of inner. workers < 1 means 1.
func NewPool(inner recommend.Embedder, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		inner: inner,
		jobs:  make(chan poolJob),
		done:  make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.jobs:
			if err := j.ctx.Err(); err != nil {
				j.result <- poolResult{err: err}
				continue
			}
			vec, err := p.inner.Embed(j.ctx, j.text)
			j.result <- poolResult{vec: vec, err: err}
		case <-p.done:
			return
		}
	}
}

// ModelID returns the wrapped embedder's model identifier.
func (p *Pool) ModelID() string { return p.inner.ModelID() }

// Dimension returns the wrapped embedder's dimension.
func (p *Pool) Dimension() int { return p.inner.Dimension() }

// Embed hands text to a worker and waits for the result or ctx.
func (p *Pool) Embed(ctx context.Context, text string) ([]float32, error) {
	j := poolJob{ctx: ctx, text: text, result: make(chan poolResult, 1)}

	metrics.EmbeddingPoolWaiting.Inc()
	select {
	case p.jobs <- j:
		metrics.EmbeddingPoolWaiting.Dec()
	case <-ctx.Done():
		metrics.EmbeddingPoolWaiting.Dec()
		return nil, ctx.Err()
	case <-p.done:
		metrics.EmbeddingPoolWaiting.Dec()
		return nil, ErrClosed
	}

	select {
	case r := <-j.result:
		return r.vec, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the workers after in-flight jobs finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

var _ recommend.Embedder = (*Pool)(nil)
