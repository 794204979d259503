package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// NoisyReadings models a sensor settled at level with uniform noise of the
// given amplitude on top.
func NoisyReadings(seed int64, level, noise float64, length int) []float64 {
	out := DeterministicNoise(seed, noise, length)
	for i := range out {
		out[i] += level
	}
	return out
}

// Step returns length samples that are before up to pos and after from pos
// on.
func Step(length, pos int, before, after float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i < pos {
			out[i] = before
		} else {
			out[i] = after
		}
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// JitteredTimestamps returns length strictly increasing microsecond
// timestamps starting at start. Each interval is meanUs plus a uniform
// offset in [-jitterUs, jitterUs], never less than 1.
func JitteredTimestamps(seed int64, start, meanUs, jitterUs uint64, length int) []uint64 {
	out := make([]uint64, length)
	rng := rand.New(rand.NewSource(seed))
	ts := start
	for i := range out {
		if i > 0 {
			delta := int64(meanUs)
			if jitterUs > 0 {
				delta += rng.Int63n(2*int64(jitterUs)+1) - int64(jitterUs)
			}
			if delta < 1 {
				delta = 1
			}
			ts += uint64(delta)
		}
		out[i] = ts
	}
	return out
}
