// Package test provides small assertion and buffer helpers shared by the
// unit tests of every package in this module. It has no dependency on the
// emulator itself so it can be imported from any package's _test.go file
// without creating import cycles.
package test

import (
	"math"
	"reflect"
	"testing"
)

// success reports whether v represents a "successful" outcome: a bool that
// is true, or an error that is nil.
func success(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case error:
		return x == nil
	case nil:
		return true
	}
	return false
}

// ExpectSuccess fails the test if v is false or a non-nil error.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !success(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// ExpectFailure fails the test if v is true or a nil error.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if success(v) {
		t.Errorf("expected failure, got %v", v)
	}
}

// ExpectEquality fails the test if a and b are not equal.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test if a and b differ by more than tolerance.
func ExpectApproximate(t *testing.T, a, b, tolerance float64) {
	t.Helper()
	if math.Abs(a-b) > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}

// Equate is a terser alias for ExpectEquality, used throughout this module's
// tests for simple value comparisons.
func Equate(t *testing.T, a, b interface{}) {
	t.Helper()
	ExpectEquality(t, a, b)
}

// ExpectedSuccess and ExpectedFailure are spelling variants of ExpectSuccess
// and ExpectFailure kept around because both spellings are in active use
// across this module's test files.
func ExpectedSuccess(t *testing.T, v interface{}) {
	t.Helper()
	ExpectSuccess(t, v)
}

func ExpectedFailure(t *testing.T, v interface{}) {
	t.Helper()
	ExpectFailure(t, v)
}
