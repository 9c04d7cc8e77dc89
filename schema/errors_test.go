package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestFieldError(t *testing.T) {
	base := errors.New("type mismatch: want float, got char")

	tests := []struct {
		name         string
		buildError   func() error
		expectedPath string
	}{
		{
			name: "single field error",
			buildError: func() error {
				return WrapField(base, "Latitude")
			},
			expectedPath: "Latitude",
		},
		{
			name: "nested field error",
			buildError: func() error {
				return WrapField(WrapField(base, "Latitude"), "Loc")
			},
			expectedPath: "Loc.Latitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buildError()

			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected FieldError, got %T", err)
			}
			if got := strings.Join(fieldErr.FieldPath, "."); got != tt.expectedPath {
				t.Errorf("expected path %q, got %q", tt.expectedPath, got)
			}
			if !strings.Contains(err.Error(), tt.expectedPath) || !strings.Contains(err.Error(), base.Error()) {
				t.Errorf("unexpected message: %s", err)
			}
			if !errors.Is(err, base) {
				t.Error("errors.Is should reach the underlying error")
			}
		})
	}

	if WrapField(nil, "x") != nil {
		t.Error("WrapField(nil) should be nil")
	}
}
