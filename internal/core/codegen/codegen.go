// Package codegen produces human-readable codes for operations and their
// line items.
//
// Operation codes have the form CLIENT3-OP3-TS4: the first word of the client
// and operation names truncated to three characters and uppercased, plus the
// low-order four digits of the creation timestamp in milliseconds. The suffix
// makes codes distinct in practice but not guaranteed unique: two operations
// created in the same millisecond collide, and no uniqueness check is made.
//
// Item codes append the 1-based item position zero-padded to three digits
// (OP-CODE-001, OP-CODE-002, ...). Positions must stay contiguous, so every
// removal or reorder of the item list regenerates all sibling codes.
package codegen

import (
	"fmt"
	"strings"
	"time"

	"contractops/internal/core/clock"
)

// Generator builds operation and item codes using an injected clock.
type Generator struct {
	clock clock.Clock
}

// New creates a Generator on the given clock.
func New(clk clock.Clock) *Generator {
	return &Generator{clock: clk}
}

// OperationCode generates a code from the client and operation names.
// Empty names produce empty tokens rather than an error; the caller is
// expected to have validated both names already.
func (g *Generator) OperationCode(clientName, operationName string) string {
	return OperationCodeAt(clientName, operationName, g.clock.Now())
}

// OperationCodeAt is the pure form of OperationCode for a known instant.
func OperationCodeAt(clientName, operationName string, now time.Time) string {
	suffix := now.UnixMilli() % 10_000
	return fmt.Sprintf("%s-%s-%04d", namePrefix(clientName), namePrefix(operationName), suffix)
}

// ItemCode generates an item code from the parent operation code and the
// item's zero-based position in the list.
func ItemCode(operationCode string, itemIndex int) string {
	return fmt.Sprintf("%s-%03d", operationCode, itemIndex+1)
}

// namePrefix returns the first whitespace-delimited word truncated to three
// runes, uppercased. Blank input yields "".
func namePrefix(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	word := []rune(fields[0])
	if len(word) > 3 {
		word = word[:3]
	}
	return strings.ToUpper(string(word))
}
