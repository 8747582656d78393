package util

import (
	"strings"
	"testing"
)

func TestGenerateRandomID(t *testing.T) {
	id := GenerateRandomID("sess-", 16)
	if !strings.HasPrefix(id, "sess-") {
		t.Errorf("id %q missing prefix", id)
	}
	if len(id) != len("sess-")+16 {
		t.Errorf("id %q has wrong length", id)
	}
	if id == GenerateRandomID("sess-", 16) {
		t.Error("two generated ids collided")
	}
}

func TestGenerateRandomHex(t *testing.T) {
	if got := GenerateRandomHex(0); got != "" {
		t.Errorf("GenerateRandomHex(0) = %q, want empty", got)
	}
	hex := GenerateRandomHex(32)
	if len(hex) != 32 {
		t.Fatalf("hex length = %d, want 32", len(hex))
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("non-hex character %q in %q", c, hex)
		}
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"off", true, false},
		{"0", true, false},
		{"", true, true},
		{"banana", false, false},
		{"banana", true, true},
	}
	for _, tt := range tests {
		t.Setenv("STEADYPATH_TEST_BOOL", tt.value)
		if got := ParseBoolEnv("STEADYPATH_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}
