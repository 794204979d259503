// Package response characterizes per-tick smoothers from their step and
// impulse responses.
//
// A smoother is described by a step function that feeds one reading and
// returns the new output, and a reset function that returns it to its
// unseeded state. Both EWMA filters in dsp/filter/ewma fit this shape.
package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	rise63Fraction   = 0.632
	settle95Fraction = 0.95
	settle99Fraction = 0.99
)

// ErrInvalidFFTSize is returned for FFT sizes that are not a power of two.
var ErrInvalidFFTSize = errors.New("response: fft size must be a power of two >= 2")

// StepFunc feeds one reading to a smoother and returns its output.
type StepFunc func(input float64) float64

// Result holds the characterization of a smoother.
type Result struct {
	// Rise63, Settle95 and Settle99 are the tick counts after a unit step
	// until the output stays within 36.8 %, 5 % and 1 % of the step. -1
	// means the level was not reached within the recorded length.
	Rise63   int
	Settle95 int
	Settle99 int
	// StepFinal is the last recorded output of the unit step response.
	StepFinal float64
	// DCGain is the magnitude response at 0 Hz.
	DCGain float64
	// CutoffHz is the -3 dB frequency relative to DCGain, NaN if the
	// magnitude never drops 3 dB below Nyquist.
	CutoffHz float64
}

// Analyze records the step and impulse responses of a smoother and derives
// settle times and its -3 dB cutoff.
func Analyze(step StepFunc, reset func(), opts ...Option) (Result, error) {
	cfg := ApplyOptions(opts...)

	fftSize := cfg.FFTSize
	if fftSize == 0 {
		fftSize = nextPowerOf2(cfg.Length)
	}

	stepResp := StepResponse(step, reset, cfg.Length)
	impulse := ImpulseResponse(step, reset, cfg.Length)

	mag, err := MagnitudeResponse(impulse, fftSize)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Rise63:    SettleTicks(stepResp, 1, rise63Fraction),
		Settle95:  SettleTicks(stepResp, 1, settle95Fraction),
		Settle99:  SettleTicks(stepResp, 1, settle99Fraction),
		StepFinal: stepResp[len(stepResp)-1],
		DCGain:    mag[0],
		CutoffHz:  CutoffHz(mag, cfg.SampleRate, fftSize),
	}, nil
}

// StepResponse resets the smoother, seeds it with 0 and records length
// outputs for a constant input of 1.
func StepResponse(step StepFunc, reset func(), length int) []float64 {
	out := make([]float64, length)
	prime(step, reset)
	for i := range out {
		out[i] = step(1)
	}
	return out
}

// ImpulseResponse resets the smoother, seeds it with 0 and records length
// outputs for a unit impulse followed by zeros.
func ImpulseResponse(step StepFunc, reset func(), length int) []float64 {
	out := make([]float64, length)
	prime(step, reset)
	for i := range out {
		x := 0.0
		if i == 0 {
			x = 1
		}
		out[i] = step(x)
	}
	return out
}

// SettleTicks returns the number of ticks after which resp stays within
// (1-fraction)*|target| of target, or -1 if it never does.
func SettleTicks(resp []float64, target, fraction float64) int {
	tol := (1 - fraction) * math.Abs(target)

	settled := -1
	for i, v := range resp {
		if math.Abs(v-target) <= tol {
			if settled < 0 {
				settled = i + 1
			}
		} else {
			settled = -1
		}
	}

	return settled
}

// MagnitudeResponse zero-pads impulse to fftSize and returns the magnitude
// of the non-negative frequency bins [0..fftSize/2]. Samples beyond fftSize
// are dropped.
func MagnitudeResponse(impulse []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	in := make([]complex128, fftSize)
	for i := 0; i < len(impulse) && i < fftSize; i++ {
		in[i] = complex(impulse[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, fmt.Errorf("response: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(spectrum[i])
		im[i] = imag(spectrum[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// CutoffHz returns the frequency where mag first falls to mag[0]/sqrt(2),
// interpolating linearly between bins. It returns NaN when no bin falls
// that low.
func CutoffHz(mag []float64, sampleRate float64, fftSize int) float64 {
	if len(mag) < 2 || fftSize <= 0 {
		return math.NaN()
	}

	threshold := mag[0] / math.Sqrt2
	binHz := sampleRate / float64(fftSize)

	for k := 1; k < len(mag); k++ {
		if mag[k] > threshold {
			continue
		}

		prev := mag[k-1]
		frac := 0.0
		if prev != mag[k] {
			frac = (prev - threshold) / (prev - mag[k])
		}

		return (float64(k-1) + frac) * binHz
	}

	return math.NaN()
}

func prime(step StepFunc, reset func()) {
	if reset != nil {
		reset()
	}
	step(0)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
