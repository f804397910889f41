// Package testutil holds the assertions shared by the Papyrus test suites.
package testutil

import (
	"strings"
	"testing"
)

// Diagnostic is anything reporting a message, lexer and parser errors alike.
type Diagnostic interface {
	GetError() string
}

// ContainsSubstring reports whether 'text' contains 'fragment', ignoring case.
// Keywords are case-insensitive in Papyrus, so messages may quote them either way.
func ContainsSubstring(text, fragment string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(fragment))
}

// Messages returns the message of every diagnostic, in order.
func Messages[D Diagnostic](diagnostics []D) []string {
	messages := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		messages = append(messages, d.GetError())
	}

	return messages
}

func AssertNoErrors[D Diagnostic](t *testing.T, diagnostics []D) {
	t.Helper()

	if len(diagnostics) > 0 {
		t.Errorf("expected no diagnostic, got %d:\n  %s", len(diagnostics), strings.Join(Messages(diagnostics), "\n  "))
	}
}

// AssertErrorCount stops the test when the count differs, later checks index into the list.
func AssertErrorCount[D Diagnostic](t *testing.T, diagnostics []D, expected int) {
	t.Helper()

	if len(diagnostics) != expected {
		t.Fatalf("expected %d diagnostic(s), got %d: %q", expected, len(diagnostics), Messages(diagnostics))
	}
}

func AssertErrorContains[D Diagnostic](t *testing.T, diagnostics []D, fragment string) {
	t.Helper()

	if !HasErrorContaining(diagnostics, fragment) {
		t.Errorf("no diagnostic mentions %q: %q", fragment, Messages(diagnostics))
	}
}

func HasErrorContaining[D Diagnostic](diagnostics []D, fragment string) bool {
	for _, message := range Messages(diagnostics) {
		if ContainsSubstring(message, fragment) {
			return true
		}
	}

	return false
}
