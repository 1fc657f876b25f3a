package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestCode_UnwrapsDomainError(t *testing.T) {
	err := fmt.Errorf("create todo: %w", ErrInvalidPayload)
	if got := Code(err); got != "invalid_payload" {
		t.Errorf("expected invalid_payload, got %q", got)
	}
	if !errors.Is(err, ErrInvalidPayload) {
		t.Error("expected errors.Is to match ErrInvalidPayload")
	}
}

func TestCode_ForeignError(t *testing.T) {
	if got := Code(errors.New("boom")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
	if got := Code(nil); got != "" {
		t.Errorf("expected empty code for nil, got %q", got)
	}
}
