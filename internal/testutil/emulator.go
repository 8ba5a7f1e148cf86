// Package testutil gates integration tests on external services being reachable.
package testutil

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// EmulatorProjectID is the project ID used for emulator tests.
const EmulatorProjectID = "demo-test-project"

// RequireEmulator skips the test unless FIRESTORE_EMULATOR_HOST names a reachable
// Firestore emulator.
func RequireEmulator(t *testing.T) {
	t.Helper()
	requireTCP(t, "FIRESTORE_EMULATOR_HOST", os.Getenv("FIRESTORE_EMULATOR_HOST"))
}

// RequireRedis skips the test unless REDIS_URL names a reachable Redis server.
// It returns the URL.
func RequireRedis(t *testing.T) string {
	t.Helper()

	raw := os.Getenv("REDIS_URL")
	if raw == "" {
		t.Skip("REDIS_URL not set; skipping redis test")
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		t.Skipf("REDIS_URL is not a valid redis url: %v", err)
	}
	requireTCP(t, "REDIS_URL", opts.Addr)
	return raw
}

func requireTCP(t *testing.T, name, host string) {
	t.Helper()

	if host == "" {
		t.Skipf("%s not set; skipping emulator test", name)
	}

	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.DialContext(context.Background(), "tcp", host)
	if err != nil {
		t.Skipf("%s not reachable at %s: %v", name, host, err)
	}
	_ = conn.Close()
}
