package integrationtests

import (
	"context"
	"os"
	"testing"

	"github.com/vk/dvctree/internal/app"
	"github.com/vk/dvctree/internal/cli"
	"github.com/vk/dvctree/internal/testutil"
)

// harnessResult holds the outcomes of an integration test run.
type harnessResult struct {
	Output    string
	LogOutput string
	Err       error
}

// runDvctree writes files into a fresh repository root and runs the command
// line against it. The root is appended as the final argument.
func runDvctree(t *testing.T, files map[string]string, args ...string) *harnessResult {
	t.Helper()

	root := testutil.WriteTree(t, files)
	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}

	cfg, shouldExit, err := cli.Parse(append(args, root), logBuffer)
	if err != nil || shouldExit {
		return &harnessResult{LogOutput: logBuffer.String(), Err: err}
	}
	cfg.LogLevel = "debug"

	runErr := app.NewApp(outBuffer, logBuffer, cfg).Run(context.Background())

	if os.Getenv("DVCTREE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &harnessResult{
		Output:    outBuffer.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
	}
}
