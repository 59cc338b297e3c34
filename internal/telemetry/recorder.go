// Package telemetry buffers per-tick samples in memory for status output and
// end-of-run plots. Nothing is written to disk.
package telemetry

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/davral/wheelsim/internal/chair"
)

// Sample is one tick of recorded state.
type Sample struct {
	Time            float64
	X               float64
	Y               float64
	Theta           float64
	LinearVelocity  float64
	AngularVelocity float64
	BatteryPercent  float64
}

// Recorder keeps the most recent samples in a bounded buffer.
type Recorder struct {
	samples  []Sample
	capacity int
	simTime  float64
}

// NewRecorder creates a recorder holding up to capacity samples; older
// samples are dropped first.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1
	}
	return &Recorder{
		samples:  make([]Sample, 0, capacity),
		capacity: capacity,
	}
}

// Callback returns a per-tick callback that records into the buffer; attach
// it to the loop with AddCallback.
func (r *Recorder) Callback() func(state *chair.WheelchairState, dt float64) {
	return func(state *chair.WheelchairState, dt float64) {
		r.simTime += dt
		r.Record(state, r.simTime)
	}
}

func (r *Recorder) Record(state *chair.WheelchairState, t float64) {
	if len(r.samples) == r.capacity {
		copy(r.samples, r.samples[1:])
		r.samples = r.samples[:len(r.samples)-1]
	}
	r.samples = append(r.samples, Sample{
		Time:            t,
		X:               state.X,
		Y:               state.Y,
		Theta:           state.Theta,
		LinearVelocity:  state.LinearVelocity,
		AngularVelocity: state.AngularVelocity,
		BatteryPercent:  state.BatteryPercent,
	})
}

func (r *Recorder) Len() int { return len(r.samples) }

// Samples returns the buffered samples, oldest first.
func (r *Recorder) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
	r.simTime = 0
}

func (r *Recorder) series(pick func(Sample) float64) []float64 {
	data := make([]float64, len(r.samples))
	for i, s := range r.samples {
		data[i] = pick(s)
	}
	return data
}

// Plots renders ascii charts of linear velocity and battery percent over the
// buffered window.
func (r *Recorder) Plots(width, height int) string {
	if len(r.samples) < 2 {
		return "not enough samples to plot"
	}

	var b strings.Builder
	b.WriteString(asciigraph.Plot(r.series(func(s Sample) float64 { return s.LinearVelocity }),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("linear velocity (m/s)"),
	))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.Plot(r.series(func(s Sample) float64 { return s.BatteryPercent }),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("battery (%)"),
	))
	return b.String()
}
