package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"txnetl/internal/core"
	"txnetl/internal/log"
)

// State is the lifecycle position of a pipeline run.
type State string

const (
	StatePending    State = "pending"
	StateExtracted  State = "extracted"
	StateCleaned    State = "cleaned"
	StateAggregated State = "aggregated"
	StateLoaded     State = "loaded"
	StateFailed     State = "failed"
)

// Stage names used in reports and error context.
const (
	StageExtract   = "extract"
	StageClean     = "clean"
	StageAggregate = "aggregate"
	StageLoad      = "load"
)

// Source supplies the raw record set. Failures must wrap
// core.ErrSourceUnavailable.
type Source interface {
	Fetch(ctx context.Context) ([]core.RawRecord, error)
}

// Sink persists a run's result. Failures must wrap core.ErrSinkUnavailable.
type Sink interface {
	Write(ctx context.Context, res *Result) error
}

// Result bundles the three artifacts of a successful transform.
type Result struct {
	Cleaned    []core.Record
	Daily      DailySummary
	Categories CategorySummary
}

// RunReport is the structured account of one pipeline run, successful or
// not. It replaces console progress output: the orchestrator renders it,
// the core only fills it in.
type RunReport struct {
	RunID       string
	State       State
	FailedStage string
	StartedAt   time.Time
	FinishedAt  time.Time

	Extracted    int
	Kept         int
	Removed      int
	NullCounts   map[string]int
	DailyRows    int
	CategoryRows int
}

// Pipeline wires a source, the transform core, and a sink into one batch
// run. Stages execute sequentially; the first failing stage moves the run
// to StateFailed and nothing is retried.
type Pipeline struct {
	source Source
	sink   Sink
	logger *log.Logger
}

func New(source Source, sink Sink, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Pipeline{
		source: source,
		sink:   sink,
		logger: logger.WithComponent(log.ComponentPipeline),
	}
}

// Run executes one batch: extract, clean, aggregate, load. The returned
// report always describes how far the run got; the result is nil whenever
// the run did not reach StateLoaded (results computed before a load
// failure are discarded).
func (p *Pipeline) Run(ctx context.Context) (*Result, RunReport, error) {
	report := RunReport{
		RunID:     uuid.NewString(),
		State:     StatePending,
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With(log.FieldRunID, report.RunID)

	fail := func(stage string, err error) (*Result, RunReport, error) {
		report.State = StateFailed
		report.FailedStage = stage
		report.FinishedAt = time.Now().UTC()
		logger.Error("pipeline run failed",
			log.FieldStage, stage,
			log.FieldError, err)
		return nil, report, fmt.Errorf("%s: %w", stage, err)
	}

	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return fail(StageExtract, err)
	}
	report.State = StateExtracted
	report.Extracted = len(raw)
	logger.Info("extracted raw records", log.FieldRecordCount, len(raw))

	cleaned, cleanReport, err := Clean(raw)
	report.NullCounts = cleanReport.NullCounts
	report.Removed = cleanReport.Removed
	if err != nil {
		return fail(StageClean, err)
	}
	report.State = StateCleaned
	report.Kept = cleanReport.Kept
	if nulls := cleanReport.TotalNulls(); nulls > 0 {
		logger.Warn("missing values in raw input",
			log.FieldNullCount, nulls)
	}
	logger.Info("cleaned record set",
		log.FieldRecordCount, cleanReport.Kept,
		log.FieldRemovedCount, cleanReport.Removed)

	daily, categories := Aggregate(cleaned)
	report.State = StateAggregated
	report.DailyRows = len(daily)
	report.CategoryRows = len(categories)
	logger.Info("aggregated summaries",
		log.FieldDailyRows, len(daily),
		log.FieldCategoryRows, len(categories))

	result := &Result{Cleaned: cleaned, Daily: daily, Categories: categories}
	if err := p.sink.Write(ctx, result); err != nil {
		return fail(StageLoad, err)
	}
	report.State = StateLoaded
	report.FinishedAt = time.Now().UTC()
	logger.Info("pipeline run complete",
		log.FieldDuration, report.FinishedAt.Sub(report.StartedAt).Milliseconds())

	return result, report, nil
}
