package procexec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const DefaultShell = "sh"

// Command is a shell command line run in Dir. When LogPath is set the
// combined output is also written to that file.
type Command struct {
	Line    string
	Dir     string
	LogPath string
}

type Runner struct {
	Live  io.Writer
	Shell string
	Now   func() time.Time
}

func NewRunner() *Runner {
	return &Runner{
		Live:  os.Stdout,
		Shell: DefaultShell,
		Now:   time.Now,
	}
}

// Run blocks until the command exits and returns its exit code. A non-zero
// exit is not an error; err is set only when the command could not be started,
// the log could not be written, or output could not be copied.
func (r *Runner) Run(c Command) (int, error) {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	live := r.Live
	if live == nil {
		live = io.Discard
	}

	out := &teeWriter{live: live}
	if c.LogPath != "" {
		log, err := os.Create(c.LogPath)
		if err != nil {
			return -1, fmt.Errorf("create log %s: %w", c.LogPath, err)
		}
		defer log.Close()

		if _, err := fmt.Fprintf(log, "Running %s at %s\n", c.Line, now().Format(time.RFC3339Nano)); err != nil {
			return -1, fmt.Errorf("write log header: %w", err)
		}
		out.log = log
	}

	cmd := exec.Command(shell, "-c", c.Line)
	cmd.Dir = c.Dir
	// One writer for both streams keeps them in arrival order and lets
	// exec copy them from a single pipe.
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start %q: %w", c.Line, err)
	}
	code, err := exitCode(cmd.Wait())
	if err != nil {
		return code, err
	}
	if out.err != nil {
		return code, fmt.Errorf("capture output of %q: %w", c.Line, out.err)
	}
	return code, nil
}

// teeWriter never fails a write, so the pipe from the child keeps draining
// even after the log or the live stream broke. The first failure is kept.
type teeWriter struct {
	log  io.Writer
	live io.Writer
	err  error
}

func (w *teeWriter) Write(p []byte) (int, error) {
	if w.log != nil {
		if _, err := w.log.Write(p); err != nil {
			w.keep(err)
			w.log = nil
		}
	}
	if w.live != nil {
		if _, err := w.live.Write(p); err != nil {
			w.keep(err)
			w.live = nil
		}
	}
	return len(p), nil
}

func (w *teeWriter) keep(err error) {
	if w.err == nil {
		w.err = err
	}
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("wait: %w", err)
}
