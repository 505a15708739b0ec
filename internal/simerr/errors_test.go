package simerr

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestConfigErrorIs(t *testing.T) {
	err := NewConfigError("h1.void_fraction", "< 1", 1.2)

	if !errors.Is(err, ErrConfig) {
		t.Error("expected ConfigError to match ErrConfig")
	}
	if errors.Is(err, ErrInternal) {
		t.Error("ConfigError should not match ErrInternal")
	}

	wrapped := fmt.Errorf("validate: %w", err)
	var ce *ConfigError
	if !errors.As(wrapped, &ce) {
		t.Fatal("expected errors.As to find ConfigError")
	}
	if ce.Field != "h1.void_fraction" {
		t.Errorf("expected field h1.void_fraction, got %s", ce.Field)
	}
}

func TestInternalErrorMessage(t *testing.T) {
	err := &InternalError{Floater: 3, Step: 150, Time: 7.5, State: "VENTING", Message: "skipped transition"}
	expected := "internal: floater 3 step 150 (t=7.5000) state VENTING: skipped transition"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInternal) {
		t.Error("expected InternalError to match ErrInternal")
	}
}

func TestFieldsFlattensJoin(t *testing.T) {
	joined := errors.Join(
		NewConfigError("a", "> 0", 0),
		fmt.Errorf("wrapped: %w", NewConfigError("b", "> 0", -1)),
		errors.New("unrelated"),
	)

	fields := Fields(joined)
	if len(fields) != 2 {
		t.Fatalf("expected 2 config errors, got %d", len(fields))
	}
	if fields[0].Field != "a" || fields[1].Field != "b" {
		t.Errorf("unexpected order: %s, %s", fields[0].Field, fields[1].Field)
	}

	if Fields(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		ok    bool
	}{
		{"normal", 1.0, true},
		{"zero", 0.0, true},
		{"NaN", math.NaN(), false},
		{"+Inf", math.Inf(1), false},
		{"-Inf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Finite("x", tt.value)
			if (err == nil) != tt.ok {
				t.Errorf("Finite(%v) error = %v, want ok=%v", tt.value, err, tt.ok)
			}
		})
	}
}
