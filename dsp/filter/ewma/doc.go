// Package ewma provides exponentially weighted moving-average smoothers for
// noisy scalar series such as sensor readings or rate estimates.
//
// Two independent filters are available:
//   - TimeWeighted:
//     Floating-point filter parameterized by a time constant tau. The weight
//     of each reading is derived from the time elapsed since the previous
//     one, so irregular sampling intervals are handled correctly. A per-tick
//     mode is also available for callers running at a fixed rate.
//   - FixedPoint:
//     Integer-only filter generic over the integer type. The weight of a new
//     reading is alpha/alphaScale and the output is stored pre-multiplied by
//     alphaScale to keep fractional precision.
//
// Both filters seed themselves with the first reading: the first output
// always equals the first input.
//
// Filters are plain mutable values owned by a single caller and are not
// safe for concurrent use.
package ewma
