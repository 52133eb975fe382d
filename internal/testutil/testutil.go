// Package testutil provides deterministic helpers shared by tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/attune/internal/attr"
)

// TokenSequence returns a FixedGenerator yielding "tx-1" .. "tx-n".
//
// Tests use predetermined tokens so traces and golden files are stable
// across runs; the generator panics past n to catch tests that open more
// transactions than they expected.
func TokenSequence(n int) *attr.FixedGenerator {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tx-%d", i+1)
	}
	return attr.NewFixedGenerator(tokens...)
}

// DiscardLogger returns a logger that drops everything. Suppresses journal
// and harness logs in tests.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
