//go:build e2e

package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
)

type result struct {
	stdout string
	stderr string
	code   int
}

// run executes the binary in a clean environment: no home config, no
// telemetry endpoint.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = t.TempDir()
	cmd.Env = []string{
		"HOME=" + cmd.Dir,
		"PATH=" + os.Getenv("PATH"),
		"SMARTROUTE_TELEMETRY_DISABLED=true",
	}
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := result{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("Failed to run %v: %v", args, err)
		}
		res.code = exitErr.ExitCode()
	}
	res.stdout, res.stderr = stdout.String(), stderr.String()
	return res
}
