// Package pipeline runs one scrape: render, index, extract, normalize,
// validate, compute, publish. Every stage runs on the calling goroutine.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"mnavtracker/extract"
	"mnavtracker/history"
	"mnavtracker/logger"
	"mnavtracker/normalize"
	"mnavtracker/publish"
	"mnavtracker/snapshot"
	"mnavtracker/textindex"

	"github.com/google/uuid"
)

// Outcome of a run
type Outcome string

const (
	Published Outcome = "published"
	Skipped   Outcome = "skipped"
	Failed    Outcome = "failed"
)

// Renderer returns the rendered HTML of url after waiting settle
type Renderer interface {
	Render(ctx context.Context, url string, settle time.Duration) (string, error)
}

// Recorder stores run history
type Recorder interface {
	Record(ctx context.Context, r history.Run) error
}

// Options are the per-run settings
type Options struct {
	URL            string
	Path           string
	Settle         time.Duration
	ZeroThreshold  int
	Fields         extract.FieldMap
	RenderTimeout  time.Duration
	PublishTimeout time.Duration
}

// Result describes a finished run
type Result struct {
	RunID    string
	Outcome  Outcome
	Snapshot *snapshot.Snapshot
	Verdict  snapshot.Verdict
	Raw      extract.Raw
	Values   map[string]float64
	Elapsed  time.Duration
}

// Runner wires the stages together. Renderer and Publisher are owned by the caller.
type Runner struct {
	Renderer  Renderer
	Publisher publish.Publisher
	// History is optional
	History Recorder
	Options Options
	Log     *logger.Logger
	Now     func() time.Time
}

// Run performs one scrape. A validator skip is not an error: it returns a
// Skipped result and a nil error. Render and publish failures come back as
// *RunError with nothing published.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	log := r.Log
	if log == nil {
		log = logger.New()
	}
	fields := r.Options.Fields
	if fields == nil {
		fields = extract.DefaultFieldMap
	}
	threshold := r.Options.ZeroThreshold
	if threshold < 1 {
		threshold = snapshot.DefaultZeroThreshold
	}

	started := now()
	res := Result{RunID: uuid.NewString(), Outcome: Failed}
	log = log.With("run", res.RunID)

	err := r.run(ctx, &res, fields, threshold, now, log)
	res.Elapsed = now().Sub(started)

	r.record(ctx, res, started, now(), err, log)

	switch {
	case err != nil:
		log.Error("run failed", "err", err, "elapsed", res.Elapsed)
	case res.Outcome == Skipped:
		log.Warn("update skipped", "reason", res.Verdict.String(), "fields", res.Verdict.Zeros)
	default:
		log.Info("update published", "path", r.Options.Path, "mnav", res.Snapshot.MNAV, "elapsed", res.Elapsed)
	}
	return res, err
}

func (r *Runner) run(ctx context.Context, res *Result, fields extract.FieldMap, threshold int, now func() time.Time, log *logger.Logger) error {
	log.Info("rendering page", "url", r.Options.URL, "settle", r.Options.Settle)

	renderCtx, cancel := withTimeout(ctx, r.Options.RenderTimeout)
	rendered, err := r.Renderer.Render(renderCtx, r.Options.URL, r.Options.Settle)
	cancel()
	if err != nil {
		return &RunError{Stage: StageRender, Err: err}
	}

	index, err := textindex.Build(rendered)
	if err != nil {
		return &RunError{Stage: StageIndex, Err: err}
	}
	log.Debug("text index built", "entries", len(index))

	res.Raw = extract.Extract(index, fields)
	res.Values = normalize.Fields(res.Raw)
	for _, name := range fields.Names() {
		log.Debug("field extracted", "field", name, "position", fields[name], "raw", res.Raw[name], "value", res.Values[name])
	}

	res.Verdict = snapshot.Validate(res.Values, fields.Names(), threshold)
	if res.Verdict.Skip() {
		res.Outcome = Skipped
		return nil
	}

	snap := snapshot.Build(res.Values, now())
	res.Snapshot = &snap

	publishCtx, cancel := withTimeout(ctx, r.Options.PublishTimeout)
	defer cancel()
	if err := r.Publisher.Publish(publishCtx, r.Options.Path, snap.Fields()); err != nil {
		return &RunError{Stage: StagePublish, Err: err}
	}

	res.Outcome = Published
	return nil
}

func (r *Runner) record(ctx context.Context, res Result, started, finished time.Time, runErr error, log *logger.Logger) {
	if r.History == nil {
		return
	}

	run := history.Run{
		ID:         res.RunID,
		StartedAt:  started,
		FinishedAt: finished,
		Outcome:    string(res.Outcome),
		ZeroCount:  res.Verdict.ZeroCount,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if res.Snapshot != nil {
		if data, err := json.Marshal(res.Snapshot); err == nil {
			run.Snapshot = data
		}
	}

	// History is best effort; it never changes the run's outcome
	if err := r.History.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("failed to record run history", "err", err)
	}
}

// withTimeout applies d when positive; zero means no deadline
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
