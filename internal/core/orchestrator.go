package core

import (
	"context"
	"sync"
	"time"
)

// Service is the interface to the recommendation backend used by the
// orchestrator. This matches client.Client but is defined here to avoid
// import cycles.
type Service interface {
	// Recommendations submits a query plus documents and returns the
	// recommendation markdown.
	Recommendations(ctx context.Context, query string, files []UploadedFile) (string, error)
}

// DefaultTimeout bounds a single recommendation request. The service makes
// several LLM calls per request, so this is generous.
const DefaultTimeout = 60 * time.Second

// Orchestrator owns the lifecycle of "query + files -> recommendation text".
// Submissions are not queued: a new submission supersedes any earlier one,
// and a superseded response is discarded rather than applied. Each
// submission is tagged with a generation counter; a response is applied only
// if its generation is still the latest.
type Orchestrator struct {
	service Service
	timeout time.Duration

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewOrchestrator creates an orchestrator backed by the given service.
// A timeout of 0 means DefaultTimeout.
func NewOrchestrator(service Service, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{service: service, timeout: timeout}
}

// Submit starts a new submission and returns the immediate state transition
// plus a channel that delivers the terminal result for this generation.
//
// The query and file sequence are snapshotted at call time; later edits do
// not affect the in-flight request. With zero files no network I/O happens:
// the immediate state is PhaseNeedsFiles and the channel is already closed.
//
// If this submission is itself superseded before its response arrives, its
// channel is closed without a value and the stale response is dropped.
func (o *Orchestrator) Submit(query string, files []UploadedFile) (Result, <-chan Result) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.gen++
	gen := o.gen

	// Cancel interest in any earlier submission.
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}

	done := make(chan Result, 1)

	if len(files) == 0 {
		close(done)
		return Result{Phase: PhaseNeedsFiles, Generation: gen}, done
	}

	snapshot := make([]UploadedFile, len(files))
	copy(snapshot, files)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	o.cancel = cancel

	go o.run(ctx, gen, query, snapshot, done)

	return Result{Phase: PhaseLoading, Generation: gen}, done
}

// Generation returns the latest submitted generation.
func (o *Orchestrator) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen
}

// Close aborts any in-flight request. Used on component teardown so no
// goroutine or timer outlives the UI.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, query string, files []UploadedFile, done chan Result) {
	markdown, err := o.service.Recommendations(ctx, query, files)

	o.mu.Lock()
	defer o.mu.Unlock()

	// Stale-response suppression: a later submission owns the state now.
	if gen != o.gen {
		close(done)
		return
	}

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}

	r := Result{Generation: gen}
	if err != nil {
		r.Phase = PhaseError
		r.Err = err
	} else {
		r.Phase = PhaseSuccess
		r.Markdown = markdown
	}

	done <- r
	close(done)
}
