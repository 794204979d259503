package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ewma/dsp/filter/ewma"
	"github.com/cwbudde/algo-ewma/internal/testutil"
)

func TestAnalyzeTimeWeighted(t *testing.T) {
	const tau = 10.0

	f := ewma.NewTimeWeighted(tau)

	res, err := Analyze(f.FilterTick, f.Reset)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.Rise63 != 10 || res.Settle95 != 30 || res.Settle99 != 47 {
		t.Fatalf("settle ticks = %d/%d/%d, want 10/30/47", res.Rise63, res.Settle95, res.Settle99)
	}

	if math.Abs(res.StepFinal-1) > 1e-12 {
		t.Fatalf("StepFinal = %v, want 1", res.StepFinal)
	}

	if math.Abs(res.DCGain-1) > 1e-9 {
		t.Fatalf("DCGain = %v, want 1", res.DCGain)
	}

	// |H(w)|^2 = a^2 / (1 - 2b cos(w) + b^2) with b = 1-a.
	a := f.Alpha()
	b := 1 - a
	w := math.Acos((1 + b*b - 2*a*a) / (2 * b))
	want := w / (2 * math.Pi) * defaultSampleRate

	if math.Abs(res.CutoffHz-want) > 0.25 {
		t.Fatalf("CutoffHz = %v, want %v", res.CutoffHz, want)
	}
}

func TestAnalyzeFasterFilterHasHigherCutoff(t *testing.T) {
	slow := ewma.NewTimeWeighted(40)
	fast := ewma.NewTimeWeighted(4)

	rs, err := Analyze(slow.FilterTick, slow.Reset, WithSampleRate(200), WithLength(2048))
	if err != nil {
		t.Fatalf("Analyze(slow) error = %v", err)
	}

	rf, err := Analyze(fast.FilterTick, fast.Reset, WithSampleRate(200), WithLength(2048))
	if err != nil {
		t.Fatalf("Analyze(fast) error = %v", err)
	}

	if !(rf.CutoffHz > rs.CutoffHz) {
		t.Fatalf("fast cutoff %v not above slow cutoff %v", rf.CutoffHz, rs.CutoffHz)
	}

	if !(rf.Settle95 < rs.Settle95) {
		t.Fatalf("fast settle %d not below slow settle %d", rf.Settle95, rs.Settle95)
	}
}

func TestAnalyzePassThrough(t *testing.T) {
	f := ewma.NewTimeWeighted(0)

	res, err := Analyze(f.FilterTick, f.Reset, WithLength(256))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.Rise63 != 1 || res.Settle99 != 1 {
		t.Fatalf("settle ticks = %d/%d, want 1/1", res.Rise63, res.Settle99)
	}

	if !math.IsNaN(res.CutoffHz) {
		t.Fatalf("CutoffHz = %v, want NaN for an unfiltered signal", res.CutoffHz)
	}
}

func TestAnalyzeInvalidFFTSize(t *testing.T) {
	f := ewma.NewTimeWeighted(5)

	if _, err := Analyze(f.FilterTick, f.Reset, WithFFTSize(1000)); !errors.Is(err, ErrInvalidFFTSize) {
		t.Fatalf("Analyze() error = %v, want ErrInvalidFFTSize", err)
	}
}

func TestStepAndImpulseResponse(t *testing.T) {
	f := ewma.NewTimeWeighted(3)
	a := f.Alpha()

	step := StepResponse(f.FilterTick, f.Reset, 4)
	wantStep := []float64{a, 1 - (1-a)*(1-a), 1 - math.Pow(1-a, 3), 1 - math.Pow(1-a, 4)}
	testutil.RequireSliceNearlyEqual(t, step, wantStep, 1e-12)
	testutil.RequireMonotoneToward(t, step, 0, 1)

	imp := ImpulseResponse(f.FilterTick, f.Reset, 4)
	wantImp := []float64{a, a * (1 - a), a * math.Pow(1-a, 2), a * math.Pow(1-a, 3)}
	testutil.RequireSliceNearlyEqual(t, imp, wantImp, 1e-12)
}

func TestSettleTicks(t *testing.T) {
	tests := []struct {
		name     string
		resp     []float64
		fraction float64
		want     int
	}{
		{name: "immediate", resp: []float64{1, 1, 1}, fraction: 0.99, want: 1},
		{name: "third", resp: []float64{0.2, 0.5, 0.96, 0.99}, fraction: 0.95, want: 3},
		{name: "leaves band", resp: []float64{0.97, 0.5, 0.96, 1.0}, fraction: 0.95, want: 3},
		{name: "never", resp: []float64{0.1, 0.2, 0.3}, fraction: 0.95, want: -1},
		{name: "empty", resp: nil, fraction: 0.95, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettleTicks(tt.resp, 1, tt.fraction); got != tt.want {
				t.Fatalf("SettleTicks() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMagnitudeResponse(t *testing.T) {
	mag, err := MagnitudeResponse(testutil.Impulse(16, 0), 16)
	if err != nil {
		t.Fatalf("MagnitudeResponse() error = %v", err)
	}

	if len(mag) != 9 {
		t.Fatalf("len = %d, want 9", len(mag))
	}

	for i, v := range mag {
		if math.Abs(v-1) > 1e-12 {
			t.Fatalf("mag[%d] = %v, want 1 for a unit impulse", i, v)
		}
	}

	for _, size := range []int{0, 1, 3, 12} {
		if _, err := MagnitudeResponse([]float64{1}, size); !errors.Is(err, ErrInvalidFFTSize) {
			t.Fatalf("size %d: error = %v, want ErrInvalidFFTSize", size, err)
		}
	}
}

func TestCutoffHzInterpolates(t *testing.T) {
	mag := []float64{1, 0.9, 0.5, 0.2}
	threshold := 1 / math.Sqrt2
	want := (1 + (0.9-threshold)/(0.9-0.5)) * 10

	if got := CutoffHz(mag, 60, 6); math.Abs(got-want) > 1e-12 {
		t.Fatalf("CutoffHz() = %v, want %v", got, want)
	}

	if got := CutoffHz([]float64{1}, 60, 6); !math.IsNaN(got) {
		t.Fatalf("CutoffHz() on one bin = %v, want NaN", got)
	}
}
