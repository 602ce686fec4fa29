//go:build integration

package queue

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

var testClient *redis.Client

func TestMain(m *testing.M) {
	ctx := context.Background()

	// 1. Start the container
	cmd := exec.Command("docker", "run", "-d", "--rm",
		"--network", "host",
		"redis:7",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		log.Fatalf("could not start redis container: %v", err)
	}
	containerID := strings.TrimSpace(out.String())

	stop := func() {
		_ = exec.Command("docker", "stop", containerID).Run()
	}

	// 2. Wait for it to accept connections
	testClient = redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	var err error
	for i := 0; i < 30; i++ {
		if err = testClient.Ping(ctx).Err(); err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		stop()
		log.Fatalf("redis did not become ready: %v", err)
	}

	code := m.Run()

	stop()
	os.Exit(code)
}

// flushQueue clears every queue key between tests.
func flushQueue(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	keys, err := testClient.Keys(ctx, keyPrefix+":*").Result()
	if err != nil {
		t.Fatalf("could not list queue keys: %v", err)
	}
	if len(keys) > 0 {
		if err := testClient.Del(ctx, keys...).Err(); err != nil {
			t.Fatalf("could not flush queue keys: %v", err)
		}
	}
}
