package etl

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"txnetl/internal/core"
)

type stubSource struct {
	records []core.RawRecord
	err     error
}

func (s *stubSource) Fetch(context.Context) ([]core.RawRecord, error) {
	return s.records, s.err
}

type stubSink struct {
	written *Result
	err     error
}

func (s *stubSink) Write(_ context.Context, res *Result) error {
	if s.err != nil {
		return s.err
	}
	s.written = res
	return nil
}

func TestPipeline_RunSuccess(t *testing.T) {
	source := &stubSource{records: []core.RawRecord{
		{TransactionID: "1", TransactionDate: "2026-01-01", Amount: "100.00", Category: "A", Status: "completed"},
		{TransactionID: "2", TransactionDate: "2026-01-01", Amount: "50.00", Category: "B", Status: "completed"},
		{TransactionID: "3", TransactionDate: "2026-01-02", Amount: "30.00", Category: "A", Status: "pending"},
	}}
	sink := &stubSink{}

	result, report, err := New(source, sink, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.State != StateLoaded {
		t.Errorf("state = %s, want %s", report.State, StateLoaded)
	}
	if report.RunID == "" {
		t.Error("report should carry a run id")
	}
	if report.Extracted != 3 || report.Kept != 2 || report.Removed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", report.Extracted, report.Kept, report.Removed)
	}
	if report.DailyRows != 1 || report.CategoryRows != 2 {
		t.Errorf("summary rows = %d/%d, want 1/2", report.DailyRows, report.CategoryRows)
	}
	if report.FinishedAt.Before(report.StartedAt) {
		t.Error("finished before started")
	}

	if sink.written == nil {
		t.Fatal("sink received no result")
	}
	if result != sink.written {
		t.Error("pipeline should hand the sink the same result it returns")
	}
	if len(result.Cleaned) != 2 {
		t.Errorf("cleaned = %d records, want 2", len(result.Cleaned))
	}
}

func TestPipeline_RunEmptySource(t *testing.T) {
	sink := &stubSink{}
	result, report, err := New(&stubSource{}, sink, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.State != StateLoaded {
		t.Errorf("state = %s, want %s (empty result is valid)", report.State, StateLoaded)
	}
	if len(result.Cleaned) != 0 || len(result.Daily) != 0 || len(result.Categories) != 0 {
		t.Errorf("result = %+v, want empty artifacts", result)
	}
}

func TestPipeline_ExtractFailure(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("open input.csv: %w", core.ErrSourceUnavailable)}
	sink := &stubSink{}

	result, report, err := New(source, sink, nil).Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail when the source is unavailable")
	}
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
	if report.State != StateFailed || report.FailedStage != StageExtract {
		t.Errorf("report = %s/%s, want failed/extract", report.State, report.FailedStage)
	}
	if result != nil {
		t.Error("failed run should not return a result")
	}
	if sink.written != nil {
		t.Error("sink must not be written on extract failure")
	}
}

func TestPipeline_TransformFailure(t *testing.T) {
	source := &stubSource{records: []core.RawRecord{
		{TransactionID: "1", TransactionDate: "garbage", Amount: "1.00", Category: "A", Status: "completed"},
	}}
	sink := &stubSink{}

	result, report, err := New(source, sink, nil).Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail on a malformed date")
	}
	if !errors.Is(err, core.ErrMalformedDate) {
		t.Errorf("error = %v, want ErrMalformedDate", err)
	}
	if report.State != StateFailed || report.FailedStage != StageClean {
		t.Errorf("report = %s/%s, want failed/clean", report.State, report.FailedStage)
	}
	if report.Extracted != 1 {
		t.Errorf("extracted = %d, want 1 (counts processed so far are reported)", report.Extracted)
	}
	if result != nil || sink.written != nil {
		t.Error("no partial output may be emitted for a failed transform")
	}
}

func TestPipeline_LoadFailure(t *testing.T) {
	source := &stubSource{records: []core.RawRecord{
		{TransactionID: "1", TransactionDate: "2026-01-01", Amount: "1.00", Category: "A", Status: "completed"},
	}}
	sink := &stubSink{err: fmt.Errorf("write daily_summary.csv: %w", core.ErrSinkUnavailable)}

	result, report, err := New(source, sink, nil).Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail when the sink is unavailable")
	}
	if !errors.Is(err, core.ErrSinkUnavailable) {
		t.Errorf("error = %v, want ErrSinkUnavailable", err)
	}
	if report.State != StateFailed || report.FailedStage != StageLoad {
		t.Errorf("report = %s/%s, want failed/load", report.State, report.FailedStage)
	}
	if result != nil {
		t.Error("in-memory results are discarded on load failure")
	}
}
