package errutil

import (
	"errors"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		original := errors.New("original error")
		wrapped := Wrap(original, "additional context")

		if wrapped == nil {
			t.Fatal("Wrap should not return nil for non-nil error")
		}
		msg := wrapped.Error()
		if !strings.Contains(msg, "additional context") || !strings.Contains(msg, "original error") {
			t.Errorf("expected wrapped message to contain both parts, got: %s", msg)
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if wrapped := Wrap(nil, "context"); wrapped != nil {
			t.Errorf("Wrap(nil, _) should return nil, got: %v", wrapped)
		}
	})

	t.Run("preserves error chain", func(t *testing.T) {
		original := errors.New("root cause")
		wrapped := Wrap(original, "context")

		if !errors.Is(wrapped, original) {
			t.Error("wrapped error should match original with errors.Is")
		}
	})
}

func TestWrapf(t *testing.T) {
	original := errors.New("boom")
	wrapped := Wrapf(original, "failed on item %d", 3)

	if !strings.Contains(wrapped.Error(), "item 3") {
		t.Errorf("expected formatted context, got: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, original) {
		t.Error("expected wrapped error chain to preserve original")
	}
}

func TestWrapf_NilError(t *testing.T) {
	if wrapped := Wrapf(nil, "context %d", 1); wrapped != nil {
		t.Errorf("Wrapf(nil, _) should return nil, got: %v", wrapped)
	}
}
