package gitctx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes git with the given arguments and returns its stdout.
type Runner interface {
	Git(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
}

func (r ExecRunner) Git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return string(out), nil
}

// DiffOptions controls how the staged diff is gathered.
type DiffOptions struct {
	ContextLines int
	MaxChars     int
	Include      []string
	Exclude      []string
	// Redact, when set, rewrites each file's diff before it is joined.
	Redact func(path, diff string) string
	// OnFileError is called when a single file's diff cannot be read.
	OnFileError func(path string, err error)
}

// StagedDiff holds the collected diff and the files it covers.
type StagedDiff struct {
	Files     []string
	Diff      string
	Truncated bool
}

// Collector gathers staged changes through a Runner.
type Collector struct {
	runner Runner
}

// NewCollector returns a Collector; a nil runner uses ExecRunner.
func NewCollector(r Runner) *Collector {
	if r == nil {
		r = ExecRunner{}
	}
	return &Collector{runner: r}
}

// StagedFiles lists staged file names, skipping minified files.
func (c *Collector) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.runner.Git(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached --name-only: %w", err)
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, ".min.") {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// FileDiff returns the staged diff of a single file.
func (c *Collector) FileDiff(ctx context.Context, path string, contextLines int) (string, error) {
	args := []string{"diff", "--cached"}
	if contextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", contextLines))
	}
	args = append(args, "--", path)
	out, err := c.runner.Git(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("git diff --cached -- %s: %w", path, err)
	}
	return out, nil
}

// Collect lists the staged files, filters them, fetches each file's diff,
// joins the diffs with newlines and truncates the result to opts.MaxChars
// characters. Only a listing failure is returned as an error; per-file
// failures are reported through opts.OnFileError and skipped.
func (c *Collector) Collect(ctx context.Context, opts DiffOptions) (StagedDiff, error) {
	listed, err := c.StagedFiles(ctx)
	if err != nil {
		return StagedDiff{}, err
	}
	files := filterFiles(listed, opts.Include, opts.Exclude)

	diffs := make([]string, 0, len(files))
	for _, f := range files {
		d, err := c.FileDiff(ctx, f, opts.ContextLines)
		if err != nil {
			if opts.OnFileError != nil {
				opts.OnFileError(f, err)
			}
			continue
		}
		if opts.Redact != nil {
			d = opts.Redact(f, d)
		}
		diffs = append(diffs, d)
	}

	joined := strings.Join(diffs, "\n")
	truncated := Truncate(joined, opts.MaxChars)
	return StagedDiff{
		Files:     files,
		Diff:      truncated,
		Truncated: len(truncated) < len(joined),
	}, nil
}

// Truncate returns the first n characters of s. n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func filterFiles(files, include, exclude []string) []string {
	var result []string
	for _, f := range files {
		if len(include) > 0 && !MatchesAny(f, include) {
			continue
		}
		if len(exclude) > 0 && MatchesAny(f, exclude) {
			continue
		}
		result = append(result, f)
	}
	return result
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "**/*" || pattern == "**" {
			return true
		}
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if path == dir || strings.HasPrefix(path, dir+"/") {
				return true
			}
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}
