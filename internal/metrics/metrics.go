// Package metrics records operational counters and timings for the ETL run:
// per-step status and duration, record counts per stage, and flushed load
// batches. A global Backend defaults to a no-op so every call site is safe
// when no metrics system is configured; the run command swaps in a concrete
// backend (see prompush) when one is selected.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the narrow contract a metrics system has to satisfy. It covers
// exactly what the job emits: counters and duration observations, plus a
// Flush for push-style systems that publish at process exit.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Nil keeps the current one, so
// callers can pass a possibly-unset backend without a guard.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend. Called once per run, after the job
// finishes, so push-style backends publish exactly one snapshot.
func Flush() error {
	return backend.Flush()
}

// RecordStep reports one pipeline stage (extract, transform, load): a status
// counter and the stage duration, labeled by job and step.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	backend.IncCounter("etl_step_total", 1, lbls)
	backend.ObserveHistogram("etl_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRow adds to the per-stage record counter. Kind mirrors the run
// summary fields: "extracted", "transformed", or "loaded". Non-positive
// deltas are ignored so a failed stage never decrements.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("etl_records_total", float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches counts load batches flushed into the sink.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("etl_batches_total", float64(delta), Labels{"job": job})
}
