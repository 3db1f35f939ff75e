// Package dblock serialises integration tests that share the Postgres and
// Redis instances named by DATABASE_URL and REDIS_URL, even across packages.
package dblock

import (
	"net"
	"testing"
	"time"
)

const lockAddr = "127.0.0.1:45433"

// Acquire blocks until the process holds the lock and releases it when t ends.
func Acquire(t testing.TB) {
	t.Helper()
	for {
		ln, err := net.Listen("tcp", lockAddr)
		if err == nil {
			t.Cleanup(func() { ln.Close() })
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
