package main

import "testing"

func TestMainWiringCompiles(t *testing.T) {
	// Wiring behavior is covered by the package-level tests; this keeps the
	// main package in the test build.
}
