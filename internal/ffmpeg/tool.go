package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Tool wraps ffmpeg and ffprobe invocations
type Tool struct {
	ffmpegPath  string
	ffprobePath string
}

// New creates a new Tool with explicit binary paths
func New(ffmpegPath, ffprobePath string) *Tool {
	return &Tool{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// Locate resolves ffmpeg and ffprobe from the configured paths, falling back
// to PATH and then to the directory of the running executable (portable
// layout where the binaries sit next to the application).
func Locate(ffmpegPath, ffprobePath string) (*Tool, error) {
	mp := resolveBinary(ffmpegPath, "ffmpeg")
	pp := resolveBinary(ffprobePath, "ffprobe")

	if mp == "" || pp == "" {
		return nil, fmt.Errorf("ffmpeg/ffprobe not found in PATH or application directory")
	}

	return New(mp, pp), nil
}

func resolveBinary(explicit, name string) string {
	if explicit != "" && explicit != name {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path
	}

	// Portable layout: binary next to the running executable
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name+exeSuffix())
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// Version returns the first line of "ffmpeg -version" output
func (t *Tool) Version(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, "-version")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg -version failed: %w", err)
	}

	line, _, _ := strings.Cut(stdout.String(), "\n")
	return strings.TrimSpace(line), nil
}

// FFmpegPath returns the resolved ffmpeg binary path
func (t *Tool) FFmpegPath() string {
	return t.ffmpegPath
}

// FFprobePath returns the resolved ffprobe binary path
func (t *Tool) FFprobePath() string {
	return t.ffprobePath
}

// runFFmpeg executes ffmpeg with the given arguments, capturing stderr for
// error reporting.
func (t *Tool) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, tail(stderr.String(), 2048))
	}

	return nil
}

// tail returns at most n trailing bytes of s. ffmpeg writes its banner and
// progress to stderr, the useful diagnostics come last.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
