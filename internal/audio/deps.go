package audio

import (
	"context"
	"os/exec"
)

// commandRunner executes external commands and returns their combined output.
// Injected so tests can run the splitter without a real ffmpeg binary.
type commandRunner interface {
	CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error)
}

type osCommandRunner struct{}

func (osCommandRunner) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
