package upload

import (
	"context"
	"log/slog"
	"sync"

	"shelf/internal/domain"
	"shelf/internal/library"
)

// BatchStatus classifies one upload submission as a whole.
type BatchStatus int

const (
	StatusIdle BatchStatus = iota
	StatusUploading
	StatusSuccess
	StatusPartialSuccess
	StatusFailed
)

func (s BatchStatus) String() string {
	switch s {
	case StatusUploading:
		return "uploading"
	case StatusSuccess:
		return "success"
	case StatusPartialSuccess:
		return "partial success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// OutcomeState is the per-file result within a batch.
type OutcomeState int

const (
	OutcomePending OutcomeState = iota
	OutcomeSucceeded
	OutcomeFailed
)

// Outcome records what happened to one file of a batch.
type Outcome struct {
	Filename string
	State    OutcomeState
	Entry    domain.Entry // set when Succeeded
	Reason   string       // set when Failed
}

// Result summarizes a resolved batch.
type Result struct {
	Status   BatchStatus
	Outcomes []Outcome
	Added    int // entries forwarded to the library
	Failed   int
}

// FailedNames lists the files that did not make it, for the status line.
func (r Result) FailedNames() []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.State == OutcomeFailed {
			names = append(names, o.Filename)
		}
	}
	return names
}

// Coordinator turns the staged selection into one multipart submission
// and feeds the successfully uploaded subset into the library store. It
// owns the batch only until it resolves.
type Coordinator struct {
	client     domain.FileService
	store      *library.Store
	collection string
	logger     *slog.Logger

	mu        sync.Mutex
	selection []domain.LocalFile
	status    BatchStatus
	inFlight  bool
}

// NewCoordinator creates a new upload coordinator.
func NewCoordinator(client domain.FileService, store *library.Store, collection string, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client:     client,
		store:      store,
		collection: collection,
		logger:     logger,
	}
}

// Stage adds a local file to the pending selection.
func (c *Coordinator) Stage(file domain.LocalFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = append(c.selection, file)
}

// Selection returns a copy of the staged files, in pick order.
func (c *Coordinator) Selection() []domain.LocalFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.LocalFile, len(c.selection))
	copy(out, c.selection)
	return out
}

// ClearSelection drops all staged files.
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = nil
}

// Status returns the classification of the last (or running) batch.
func (c *Coordinator) Status() BatchStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// InFlight reports whether a submission is currently running. The
// transport is a single request/response, so progress is this coarse
// boolean rather than a byte-level ramp.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Submit posts the staged selection as one multipart batch. An empty
// selection is a no-op that performs no network call. The selection is
// cleared only on Success or PartialSuccess; a Failed batch keeps it so
// the user can retry without re-picking files.
func (c *Coordinator) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	if len(c.selection) == 0 {
		c.mu.Unlock()
		return Result{Status: StatusIdle}, nil
	}
	files := make([]domain.LocalFile, len(c.selection))
	copy(files, c.selection)
	c.status = StatusUploading
	c.inFlight = true
	c.mu.Unlock()

	c.logger.Info("submitting upload batch", "files", len(files))

	results, err := c.client.Upload(ctx, c.collection, files)
	if err != nil {
		c.logger.Error("upload batch failed", "error", err)
		c.setStatus(StatusFailed)
		return Result{Status: StatusFailed, Outcomes: failAll(files, err)}, err
	}

	res := classify(files, results)

	if res.Added > 0 {
		entries := make([]domain.Entry, 0, res.Added)
		for _, o := range res.Outcomes {
			if o.State == OutcomeSucceeded {
				entries = append(entries, o.Entry)
			}
		}
		c.store.AddEntries(ctx, entries)
	}

	c.mu.Lock()
	c.status = res.Status
	c.inFlight = false
	if res.Status == StatusSuccess || res.Status == StatusPartialSuccess {
		c.selection = nil
	}
	c.mu.Unlock()

	c.logger.Info("upload batch resolved",
		"status", res.Status.String(), "added", res.Added, "failed", res.Failed)
	return res, nil
}

func (c *Coordinator) setStatus(status BatchStatus) {
	c.mu.Lock()
	c.status = status
	c.inFlight = false
	c.mu.Unlock()
}

// classify folds per-file verdicts into a batch result. The service
// answers in request order; files it never mentions count as failed.
func classify(files []domain.LocalFile, results []domain.FileResult) Result {
	byName := make(map[string][]domain.FileResult, len(results))
	for _, r := range results {
		byName[r.Filename] = append(byName[r.Filename], r)
	}

	res := Result{Outcomes: make([]Outcome, 0, len(files))}
	for _, f := range files {
		rs := byName[f.Name]
		if len(rs) == 0 {
			res.Failed++
			res.Outcomes = append(res.Outcomes, Outcome{
				Filename: f.Name,
				State:    OutcomeFailed,
				Reason:   "no result reported",
			})
			continue
		}
		r := rs[0]
		byName[f.Name] = rs[1:]

		if r.OK {
			res.Added++
			res.Outcomes = append(res.Outcomes, Outcome{
				Filename: f.Name,
				State:    OutcomeSucceeded,
				Entry:    r.Entry,
			})
		} else {
			res.Failed++
			res.Outcomes = append(res.Outcomes, Outcome{
				Filename: f.Name,
				State:    OutcomeFailed,
				Reason:   r.Reason,
			})
		}
	}

	switch {
	case res.Failed == 0:
		res.Status = StatusSuccess
	case res.Added == 0:
		res.Status = StatusFailed
	default:
		res.Status = StatusPartialSuccess
	}
	return res
}

func failAll(files []domain.LocalFile, err error) []Outcome {
	outcomes := make([]Outcome, len(files))
	for i, f := range files {
		outcomes[i] = Outcome{Filename: f.Name, State: OutcomeFailed, Reason: err.Error()}
	}
	return outcomes
}
