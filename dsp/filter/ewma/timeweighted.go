package ewma

import (
	"errors"
	"math"
)

var errNonFiniteState = errors.New("ewma: state output must be finite")

// State is a snapshot of the time-weighted filter's mutable state.
type State struct {
	Output     float64
	HasInitial bool
	LastTimeUs uint64
}

// TimeWeighted is a floating-point EWMA whose smoothing strength is given
// by a time constant tau.
//
// For a reading arriving elapsed microseconds after the previous one the
// weight of the reading is 1 - exp(-elapsed/tau). The unit of tau must
// match the unit of the supplied timestamps.
type TimeWeighted struct {
	tau        float64
	output     float64
	hasInitial bool
	lastTimeUs uint64
}

// NewTimeWeighted creates a filter without an initial output. The first
// output equals the first input.
func NewTimeWeighted(tau float64) *TimeWeighted {
	return &TimeWeighted{
		tau:        tau,
		output:     0,
		hasInitial: false,
		lastTimeUs: 0,
	}
}

// NewSeededTimeWeighted creates a filter whose output is already defined
// as initialOutput at currentTimeUs.
func NewSeededTimeWeighted(tau, initialOutput float64, currentTimeUs uint64) *TimeWeighted {
	return &TimeWeighted{
		tau:        tau,
		output:     initialOutput,
		hasInitial: true,
		lastTimeUs: currentTimeUs,
	}
}

// Tau returns the time constant.
func (f *TimeWeighted) Tau() float64 { return f.tau }

// SetTau replaces the time constant. The current output is kept.
func (f *TimeWeighted) SetTau(tau float64) { f.tau = tau }

// Output returns the last computed output. It is meaningless while
// HasInitial reports false.
func (f *TimeWeighted) Output() float64 { return f.output }

// HasInitial reports whether the filter has been seeded.
func (f *TimeWeighted) HasInitial() bool { return f.hasInitial }

// LastTimeUs returns the timestamp of the last timed update or ResetAt.
func (f *TimeWeighted) LastTimeUs() uint64 { return f.lastTimeUs }

// Alpha returns the constant per-tick weight equivalent to tau, i.e. the
// weight FilterTick gives a new reading.
func (f *TimeWeighted) Alpha() float64 {
	return 1 - sanitizeDecay(f.tau, math.Exp(-1/f.tau))
}

// SetAlpha sets tau from an equivalent per-tick weight and returns the new
// tau. Weights at or above 1 yield tau = 0 (no smoothing), weights at or
// below 0 yield tau = +Inf (output held).
func (f *TimeWeighted) SetAlpha(alpha float64) float64 {
	switch {
	case alpha >= 1:
		f.tau = 0
	case alpha <= 0:
		f.tau = math.Inf(1)
	default:
		f.tau = -1 / math.Log(1-alpha)
	}

	return f.tau
}

// AlphaForPeriod returns the weight given to a reading that arrives
// periodUs after the previous one.
func (f *TimeWeighted) AlphaForPeriod(periodUs uint64) float64 {
	return 1 - sanitizeDecay(f.tau, math.Exp(-float64(periodUs)/f.tau))
}

// Reset drops the current output. The next reading becomes the new
// baseline. The last timestamp is kept.
func (f *TimeWeighted) Reset() {
	f.hasInitial = false
}

// ResetAt drops the current output and records currentTimeUs as the last
// timestamp.
func (f *TimeWeighted) ResetAt(currentTimeUs uint64) {
	f.hasInitial = false
	f.lastTimeUs = currentTimeUs
}

// FilterAtTime feeds a reading taken at currentTimeUs and returns the new
// output.
//
// Timestamps are expected to be non-decreasing. A timestamp earlier than
// the previous one replaces the output with the reading.
func (f *TimeWeighted) FilterAtTime(input float64, currentTimeUs uint64) float64 {
	if !f.hasInitial {
		f.output = input
		f.hasInitial = true
		f.lastTimeUs = currentTimeUs

		return f.output
	}

	alpha := 1.0
	if currentTimeUs >= f.lastTimeUs {
		elapsed := float64(currentTimeUs - f.lastTimeUs)
		alpha = 1 - sanitizeDecay(f.tau, math.Exp(-elapsed/f.tau))
	}

	f.output = blend(f.output, input, alpha)
	f.lastTimeUs = currentTimeUs

	return f.output
}

// FilterTick feeds a reading with a constant weight of Alpha, ignoring
// time. It is meant for callers invoking the filter at a fixed rate that is
// folded into tau.
func (f *TimeWeighted) FilterTick(input float64) float64 {
	if !f.hasInitial {
		f.output = input
		f.hasInitial = true

		return f.output
	}

	f.output = blend(f.output, input, f.Alpha())

	return f.output
}

// ProcessInPlace runs FilterTick over buf in place.
func (f *TimeWeighted) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.FilterTick(buf[i])
	}
}

// ProcessTo runs FilterTick over src into dst. Both slices must have the
// same length.
func (f *TimeWeighted) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.FilterTick(x)
	}
}

// ProcessTimedTo runs FilterAtTime over src with the matching timestamps
// in timesUs. All three slices must have the same length.
func (f *TimeWeighted) ProcessTimedTo(dst, src []float64, timesUs []uint64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	_ = timesUs[n-1]
	for i, x := range src {
		dst[i] = f.FilterAtTime(x, timesUs[i])
	}
}

// State returns a copy of the current filter state.
func (f *TimeWeighted) State() State {
	return State{
		Output:     f.output,
		HasInitial: f.hasInitial,
		LastTimeUs: f.lastTimeUs,
	}
}

// SetState restores a state previously obtained from State.
func (f *TimeWeighted) SetState(state State) error {
	if state.HasInitial && !isFinite(state.Output) {
		return errNonFiniteState
	}

	f.output = state.Output
	f.hasInitial = state.HasInitial
	f.lastTimeUs = state.LastTimeUs

	return nil
}

// blend moves output toward input by alpha. A weight of 1 replaces the
// output exactly.
func blend(output, input, alpha float64) float64 {
	if alpha >= 1 {
		return input
	}

	return alpha*(input-output) + output
}

// sanitizeDecay forces the decay factor to 0 (full replacement) when tau is
// not positive or the factor left [0, 1].
func sanitizeDecay(tau, decay float64) float64 {
	if !(tau > 0) || !isFinite(decay) || decay < 0 || decay > 1 {
		return 0
	}

	return decay
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
