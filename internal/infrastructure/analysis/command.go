package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"skin_market/pkg/contextx"
	"skin_market/pkg/logx"
)

const stderrTailLen = 512

// CommandEngine runs the analysis as a subprocess. The process prints the JSON
// item array to stdout; anything on stderr is logged. The refresh run id is
// passed in RUN_ID.
type CommandEngine struct {
	name string
	args []string
	dir  string
	env  []string
}

func NewCommandEngine(command []string) (CommandEngine, error) {
	if len(command) == 0 || command[0] == "" {
		return CommandEngine{}, errors.New("empty analysis command")
	}

	return CommandEngine{
		name: command[0],
		args: command[1:],
	}, nil
}

// WithDir sets the working directory of the subprocess.
func (e CommandEngine) WithDir(dir string) CommandEngine {
	e.dir = dir
	return e
}

// WithEnv appends KEY=value pairs to the inherited environment.
func (e CommandEngine) WithEnv(env ...string) CommandEngine {
	e.env = append(e.env, env...)
	return e
}

func (e CommandEngine) RunAnalysis(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, e.name, e.args...)
	cmd.Dir = e.dir
	cmd.Env = append(cmd.Environ(), e.env...)

	if runID, err := contextx.RunIDFromContext(ctx); err == nil {
		cmd.Env = append(cmd.Env, "RUN_ID="+runID.String())
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()

	err := cmd.Run()

	logger(ctx).Debug(
		"analysis command finished",
		slog.String("command", e.name),
		slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		slog.Int(logx.FieldBytes, stdout.Len()),
	)

	if err != nil {
		if tail := stderrTail(stderr.String()); tail != "" {
			return "", fmt.Errorf("cmd.Run: %w: %s", err, tail)
		}

		return "", fmt.Errorf("cmd.Run: %w", err)
	}

	if stderr.Len() > 0 {
		logger(ctx).Warn("analysis command wrote to stderr", slog.String("stderr", stderrTail(stderr.String())))
	}

	return stdout.String(), nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTailLen {
		s = s[len(s)-stderrTailLen:]
	}

	return s
}
