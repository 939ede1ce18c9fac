package metrics

import (
	"errors"
	"testing"
	"time"
)

// captureBackend records every call so tests can assert routing.
type captureBackend struct {
	counters   []capturedMetric
	histograms []capturedMetric
	flushed    int
}

type capturedMetric struct {
	name   string
	value  float64
	labels Labels
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters = append(c.counters, capturedMetric{name, delta, labels})
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms = append(c.histograms, capturedMetric{name, value, labels})
}

func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

// install swaps the global backend for the test and restores it after.
func install(t *testing.T, b Backend) {
	t.Helper()
	prev := backend
	SetBackend(b)
	t.Cleanup(func() { backend = prev })
}

func TestRecordStep(t *testing.T) {
	sink := &captureBackend{}
	install(t, sink)

	RecordStep("steps_report", "extract", nil, 120*time.Millisecond)

	if len(sink.counters) != 1 || len(sink.histograms) != 1 {
		t.Fatalf("calls = %d counters, %d histograms; want 1 and 1", len(sink.counters), len(sink.histograms))
	}
	c := sink.counters[0]
	if c.name != "etl_step_total" || c.value != 1 {
		t.Fatalf("counter = %+v", c)
	}
	if c.labels["step"] != "extract" || c.labels["status"] != "success" {
		t.Fatalf("labels = %v", c.labels)
	}
	h := sink.histograms[0]
	if h.name != "etl_step_duration_seconds" || h.value != 0.12 {
		t.Fatalf("histogram = %+v", h)
	}
}

func TestRecordStepFailureStatus(t *testing.T) {
	sink := &captureBackend{}
	install(t, sink)

	RecordStep("steps_report", "load", errTest, time.Second)

	if got := sink.counters[0].labels["status"]; got != "failure" {
		t.Fatalf("status = %q; want failure", got)
	}
}

func TestRecordRow(t *testing.T) {
	sink := &captureBackend{}
	install(t, sink)

	RecordRow("steps_report", "loaded", 8)
	RecordRow("steps_report", "loaded", 0)  // ignored
	RecordRow("steps_report", "loaded", -1) // ignored

	if len(sink.counters) != 1 {
		t.Fatalf("calls = %d; want 1", len(sink.counters))
	}
	c := sink.counters[0]
	if c.name != "etl_records_total" || c.value != 8 || c.labels["kind"] != "loaded" {
		t.Fatalf("counter = %+v", c)
	}
}

func TestRecordBatches(t *testing.T) {
	sink := &captureBackend{}
	install(t, sink)

	RecordBatches("steps_report", 3)
	RecordBatches("steps_report", 0) // ignored

	if len(sink.counters) != 1 || sink.counters[0].name != "etl_batches_total" || sink.counters[0].value != 3 {
		t.Fatalf("counters = %+v", sink.counters)
	}
}

func TestSetBackendNilKeepsCurrent(t *testing.T) {
	sink := &captureBackend{}
	install(t, sink)

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatal(err)
	}
	if sink.flushed != 1 {
		t.Fatalf("flushed = %d; want 1", sink.flushed)
	}
}

var errTest = errors.New("test error")
