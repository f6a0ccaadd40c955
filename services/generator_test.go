package services

import (
	"context"
	"errors"
	"testing"

	"planexport/visuals"
)

func TestRunGenerator(t *testing.T) {
	ctx := context.Background()

	out, err := runGenerator(ctx, "test", func() ([]byte, error) {
		panic("layout exploded")
	})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("panic: error = %v, want ErrGenerationFailed", err)
	}
	if out != nil {
		t.Errorf("panic: got %d bytes of partial output", len(out))
	}

	cause := errors.New("disk full")
	_, err = runGenerator(ctx, "test", func() ([]byte, error) {
		return []byte("partial"), cause
	})
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, cause) {
		t.Errorf("error: got %v, want ErrGenerationFailed wrapping the cause", err)
	}

	out, err = runGenerator(ctx, "test", func() ([]byte, error) {
		return []byte("ok"), nil
	})
	if err != nil || string(out) != "ok" {
		t.Errorf("success: got %q, %v", out, err)
	}
}

func TestRecoverBlock(t *testing.T) {
	b := VisualBlock{ElementID: "x"}
	if recoverBlock("test", b, func() { panic("bad") }) {
		t.Error("recoverBlock() = true after a panic")
	}
	if !recoverBlock("test", b, func() {}) {
		t.Error("recoverBlock() = false without a panic")
	}
}

func TestPlaceholderText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chart", "[Chart rendering error]"},
		{"TABLE", "[Table rendering error]"},
		{"metrics", "[Metrics rendering error]"},
		{"metric", "[Metrics rendering error]"},
		{"Infographic", "[Infographic rendering error]"},
		{"gauge", "[Unsupported visual element: gauge]"},
		{"", "[Unsupported visual element: ]"},
	}
	for _, tt := range tests {
		if got := placeholderText(visuals.Type(tt.in)); got != tt.want {
			t.Errorf("placeholderText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
