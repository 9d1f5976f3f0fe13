package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// Server is a miniredis instance bound to a test.
type Server struct {
	*miniredis.Miniredis
}

// Start launches a miniredis server that is closed when t finishes.
func Start(t testing.TB) *Server {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)
	return &Server{Miniredis: mini}
}
