// Package grep shells out to ripgrep for pattern search over files.
package grep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single ripgrep run.
const DefaultTimeout = 30 * time.Second

// Output modes.
const (
	ModeFiles   = "files_with_matches"
	ModeContent = "content"
	ModeCount   = "count"
)

// Params mirrors the ripgrep options exposed on the CLI.
type Params struct {
	Pattern     string
	Path        string
	Mode        string // ModeFiles when empty
	Before      int
	After       int
	Context     int
	LineNumbers bool
	IgnoreCase  bool
	Glob        string
	FileType    string
	HeadLimit   int
	Multiline   bool
	Timeout     time.Duration
}

// BuildArgs translates params into a ripgrep argv, binary name excluded.
// The pattern rides behind -e so a leading dash cannot be read as a flag.
func BuildArgs(p Params) []string {
	var args []string

	switch p.Mode {
	case ModeContent:
		if p.LineNumbers {
			args = append(args, "-n")
		}
		if p.Context > 0 {
			args = append(args, "-C", strconv.Itoa(p.Context))
		} else {
			if p.Before > 0 {
				args = append(args, "-B", strconv.Itoa(p.Before))
			}
			if p.After > 0 {
				args = append(args, "-A", strconv.Itoa(p.After))
			}
		}
	case ModeCount:
		args = append(args, "--count")
	default:
		args = append(args, "-l")
	}

	if p.IgnoreCase {
		args = append(args, "-i")
	}
	if p.Multiline {
		args = append(args, "-U", "--multiline-dotall")
	}
	if p.Glob != "" {
		args = append(args, "--glob", p.Glob)
	}
	if p.FileType != "" {
		args = append(args, "--type", p.FileType)
	}

	args = append(args, "-e", p.Pattern)
	if p.Path != "" {
		args = append(args, p.Path)
	}
	return args
}

// Run executes ripgrep. Exit 1 means no matches and yields empty output
// without an error; any other failure surfaces stderr.
func Run(ctx context.Context, p Params) (string, error) {
	if strings.TrimSpace(p.Pattern) == "" {
		return "", errors.New("empty pattern")
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "rg", BuildArgs(p)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("ripgrep timed out after %s", timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("ripgrep: %s", msg)
	}

	out := stdout.String()
	if p.HeadLimit > 0 {
		out = headLimit(out, p.HeadLimit)
	}
	return out, nil
}

func headLimit(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n"
}
