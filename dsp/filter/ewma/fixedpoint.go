package ewma

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrInvalidAlpha is returned when a fixed-point smoothing ratio is not in
// (0, 1] or its scale is zero.
var ErrInvalidAlpha = errors.New("ewma: invalid alpha")

// FixedPoint is an integer-only EWMA. The weight of a new reading is
// alpha/alphaScale; with alpha = 3 and alphaScale = 100 the filter behaves
// like a floating-point EWMA with alpha 0.03.
//
// The output is stored multiplied by alphaScale. Callers must pick T and
// alphaScale such that alphaScale times the largest expected input, plus
// alpha times the input, fits in T; overflow is not detected.
type FixedPoint[T constraints.Integer] struct {
	alpha        T
	alphaScale   uint
	outputScaled T
	hasInitial   bool
}

// NewFixedPoint creates a filter without an initial output. The first
// output equals the first input.
func NewFixedPoint[T constraints.Integer](alpha T, alphaScale uint) (*FixedPoint[T], error) {
	if err := validateRatio(alpha, alphaScale); err != nil {
		return nil, err
	}

	return &FixedPoint[T]{
		alpha:        alpha,
		alphaScale:   alphaScale,
		outputScaled: 0,
		hasInitial:   false,
	}, nil
}

// NewSeededFixedPoint creates a filter whose output is already
// initialOutput.
func NewSeededFixedPoint[T constraints.Integer](alpha T, alphaScale uint, initialOutput T) (*FixedPoint[T], error) {
	if err := validateRatio(alpha, alphaScale); err != nil {
		return nil, err
	}

	return &FixedPoint[T]{
		alpha:        alpha,
		alphaScale:   alphaScale,
		outputScaled: initialOutput * T(alphaScale),
		hasInitial:   true,
	}, nil
}

// Alpha returns the numerator of the smoothing ratio.
func (f *FixedPoint[T]) Alpha() T { return f.alpha }

// AlphaScale returns the denominator of the smoothing ratio.
func (f *FixedPoint[T]) AlphaScale() uint { return f.alphaScale }

// HasInitial reports whether the filter has been seeded.
func (f *FixedPoint[T]) HasInitial() bool { return f.hasInitial }

// SetAlpha replaces the smoothing ratio. The stored output is rescaled so
// Output keeps returning the same value.
func (f *FixedPoint[T]) SetAlpha(alpha T, alphaScale uint) error {
	if err := validateRatio(alpha, alphaScale); err != nil {
		return err
	}

	f.outputScaled = f.Output() * T(alphaScale)
	f.alphaScale = alphaScale
	f.alpha = alpha

	return nil
}

// Reset drops the current output. The next reading becomes the new
// baseline.
func (f *FixedPoint[T]) Reset() {
	f.hasInitial = false
}

// Filter feeds a reading and returns the new output.
func (f *FixedPoint[T]) Filter(input T) T {
	scale := T(f.alphaScale)

	if f.hasInitial {
		f.outputScaled = f.alpha*input + (scale-f.alpha)*f.outputScaled/scale
	} else {
		f.outputScaled = input * scale
		f.hasInitial = true
	}

	return f.Output()
}

// Output returns the current output rounded to the nearest integer.
func (f *FixedPoint[T]) Output() T {
	scale := T(f.alphaScale)
	half := T(f.alphaScale / 2)

	var zero T
	if f.outputScaled < zero {
		return (f.outputScaled - half) / scale
	}

	return (f.outputScaled + half) / scale
}

// ProcessInPlace runs Filter over buf in place.
func (f *FixedPoint[T]) ProcessInPlace(buf []T) {
	for i := range buf {
		buf[i] = f.Filter(buf[i])
	}
}

func validateRatio[T constraints.Integer](alpha T, alphaScale uint) error {
	if alphaScale == 0 {
		return fmt.Errorf("%w: alpha scale must be > 0", ErrInvalidAlpha)
	}

	var zero T
	if alpha <= zero || uint64(alpha) > uint64(alphaScale) {
		return fmt.Errorf("%w: alpha must be in (0, %d]: %d", ErrInvalidAlpha, alphaScale, alpha)
	}

	if uint64(T(alphaScale)) != uint64(alphaScale) {
		return fmt.Errorf("%w: alpha scale %d overflows %T", ErrInvalidAlpha, alphaScale, alpha)
	}

	return nil
}
