package server

import (
	"context"
	"testing"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8080", ":8080"},
		{":8080", ":8080"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := normalizeAddr(tc.in); got != tc.want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestShutdown_BeforeRunIsANoOp(t *testing.T) {
	s := &Server{}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() on an unstarted server: %v", err)
	}
}
