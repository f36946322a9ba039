// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the numeric assertion helpers used by the
// geometry and kinematics tests.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within tol of want.
func AssertInDelta(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("value = %v, want %v (tol %v)", got, want, tol)
	}
}

// AssertVecInDelta checks that both components of got are within tol of
// want.
func AssertVecInDelta(t *testing.T, got, want r2.Vec, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol {
		t.Errorf("point = (%v, %v), want (%v, %v) (tol %v)",
			got.X, got.Y, want.X, want.Y, tol)
	}
}
