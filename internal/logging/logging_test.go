package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "info"},
		{"debug", "debug"},
		{"WARN", "warn"},
		{"error", "error"},
	}
	for _, tt := range tests {
		l, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if l.String() != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, l)
		}
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew(t *testing.T) {
	log, err := New("warn")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn")
	}
	if !log.Core().Enabled(zap.ErrorLevel) {
		t.Error("error should be enabled at warn")
	}

	if _, err := NewJSON("debug"); err != nil {
		t.Fatal(err)
	}
}
