// Package metrics defines the sample type produced by a collection cycle
// and the emitter contract the monitor reports through. Serialization and
// transport are the sink's problem; the monitor only hands over values.
package metrics

// Sample is one metric observation: a name, a numeric value and the
// dimensions it is reported under.
type Sample struct {
	Name  string
	Value float64

	// App is the monitor instance identifier. It is published on every
	// sample under the "app" dimension so that several monitor instances
	// can share one sink.
	App string

	// Type distinguishes flavors of the same metric (user vs. system CPU,
	// resident vs. virtual memory). Empty when the metric has no flavor.
	Type string
}

// Emitter receives samples as they are produced during a cycle.
type Emitter interface {
	Emit(Sample)
}

// EmitterFunc adapts a plain function to the Emitter interface.
type EmitterFunc func(Sample)

func (f EmitterFunc) Emit(s Sample) { f(s) }

// Recorder is an Emitter that buffers samples in memory. The CLI drains
// it after every cycle to render output; tests use it to assert on what
// a cycle produced. Not safe for concurrent use: a monitor instance runs
// one cycle at a time, so no locking is needed.
type Recorder struct {
	samples []Sample
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Emit(s Sample) { r.samples = append(r.samples, s) }

// Samples returns the buffered samples in emission order.
func (r *Recorder) Samples() []Sample { return r.samples }

// Reset discards the buffered samples, keeping the allocation.
func (r *Recorder) Reset() { r.samples = r.samples[:0] }

// Len reports how many samples are currently buffered.
func (r *Recorder) Len() int { return len(r.samples) }
