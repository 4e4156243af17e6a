package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrProbeUnavailable means no usable ffprobe/ffmpeg binary is present.
// Callers treat it as "cannot check", not as a bad file.
var ErrProbeUnavailable = errors.New("media probing unavailable")

// Prober extracts container metadata with ffprobe.
type Prober struct{}

func NewProber() *Prober {
	return &Prober{}
}

// Duration returns the container duration in seconds.
// The context bounds the ffprobe run so a malformed or huge file
// cannot stall the calling request.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, ErrProbeUnavailable
	}

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe timed out: %w", ctx.Err())
		}
		return 0, fmt.Errorf("ffprobe failed: %w (stderr: %s)", err, stderr.String())
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparsable duration %q: %w", stdout.String(), err)
	}
	return duration, nil
}

// CheckFFmpegAvailable reports whether ffmpeg can be executed.
func CheckFFmpegAvailable() error {
	cmd := exec.Command("ffmpeg", "-version")
	return cmd.Run()
}
