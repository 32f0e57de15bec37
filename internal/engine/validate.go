package engine

import (
	"fmt"
	"math"

	"github.com/mattcarrick/driftline/internal/models"
)

// SumTolerance is how far a model's percentage sum may stray from 100.
// The same constant gates client-side and persistence-layer validation so
// the two can never disagree on acceptance.
const SumTolerance = 0.01

// ValidationCode identifies why a model's asset list was rejected.
type ValidationCode string

const (
	CodeSumMismatch ValidationCode = "sum_mismatch"
	CodeOutOfRange  ValidationCode = "out_of_range"
)

// ValidationError reports an invalid target allocation. It is recoverable:
// callers surface it as a form error, never as a fault.
type ValidationError struct {
	Code   ValidationCode
	Symbol string  // set for out_of_range
	Value  float64 // offending percentage or the actual sum
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeOutOfRange:
		return fmt.Sprintf("target percentage for %s is out of range: %g", e.Symbol, e.Value)
	case CodeSumMismatch:
		return fmt.Sprintf("target percentages sum to %g, expected 100 ±%g", e.Value, SumTolerance)
	}
	return string(e.Code)
}

// ValidateAssets checks a model's target percentages: each must fall in
// [0, 100] and together they must sum to 100 within SumTolerance. The
// per-asset range check runs first so a single oversized asset is reported
// before the sum check would mask it.
func ValidateAssets(assets []models.ModelAsset) error {
	sum := 0.0
	for _, a := range assets {
		if a.TargetPercentage < 0 || a.TargetPercentage > 100 {
			return &ValidationError{Code: CodeOutOfRange, Symbol: a.Symbol, Value: a.TargetPercentage}
		}
		sum += a.TargetPercentage
	}
	if math.Abs(sum-100) > SumTolerance {
		return &ValidationError{Code: CodeSumMismatch, Value: sum}
	}
	return nil
}
