//go:build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartShopper bounces the shopper container so the next requests hit a
// fresh process over the same storage volume.
func restartShopper(t *testing.T, ctx context.Context) {
	t.Helper()

	svc := getenv("E2E_COMPOSE_SERVICE", "shopper")
	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", svc)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart %s failed: %v\n%s", svc, err, string(out))
	}
}
