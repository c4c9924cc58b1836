package bitfunnel

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Step is one thread count of a repl sweep.
type Step struct {
	Threads int
	Dir     string
}

// Script is the repl control script for one query run: load the manifest,
// print status and compiler info, then run the query log once per step.
type Script struct {
	LoadThreads int
	Manifest    string
	QueryLog    string
	Steps       []Step
}

func (s Script) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "threads %d\n", s.LoadThreads)
	fmt.Fprintf(&b, "load manifest %s\n", s.Manifest)
	b.WriteString("status\n")
	b.WriteString("compiler\n")
	for _, step := range s.Steps {
		fmt.Fprintf(&b, "threads %d\n", step.Threads)
		fmt.Fprintf(&b, "cd %s\n", step.Dir)
		fmt.Fprintf(&b, "query log %s\n", s.QueryLog)
	}
	b.WriteString("quit\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (s Script) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

func (s Script) Save(path string) error {
	if err := os.WriteFile(path, []byte(s.String()), 0o644); err != nil {
		return fmt.Errorf("write repl script: %w", err)
	}
	return nil
}
