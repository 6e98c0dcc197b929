package audio

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Prober reads the duration of an audio file by parsing ffmpeg's stderr.
// ffprobe is deliberately not required; ffmpeg alone is enough.
type Prober struct {
	ffmpegPath string
	cmd        commandRunner
}

type ProberOption func(*Prober)

// WithProberCommandRunner sets the command runner (for tests).
func WithProberCommandRunner(r commandRunner) ProberOption {
	return func(p *Prober) { p.cmd = r }
}

func NewProber(ffmpegPath string, opts ...ProberOption) *Prober {
	p := &Prober{
		ffmpegPath: ffmpegPath,
		cmd:        osCommandRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe returns the duration of the audio file. Read-only: no output is
// written. Returns an error wrapping ErrProbe when the format is unreadable.
func (p *Prober) Probe(ctx context.Context, path string) (time.Duration, error) {
	args := []string{"-i", path, "-f", "null", "-"}

	output, err := p.cmd.CombinedOutput(ctx, p.ffmpegPath, args)
	if err != nil && len(output) == 0 {
		return 0, fmt.Errorf("%w: %v", ErrProbe, err)
	}

	// ffmpeg exits non-zero for -f null but still prints the stream info,
	// so the output is parsed regardless of the exit code.
	d, err := parseFFmpegDuration(string(output))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbe, err)
	}
	return d, nil
}

var durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)

// parseFFmpegDuration extracts "Duration: HH:MM:SS.cc" from ffmpeg stderr.
func parseFFmpegDuration(output string) (time.Duration, error) {
	matches := durationRe.FindStringSubmatch(output)
	if matches == nil {
		return 0, fmt.Errorf("no duration in ffmpeg output")
	}

	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	s, _ := strconv.Atoi(matches[3])

	frac, _ := strconv.Atoi(matches[4])
	ms := frac
	switch n := len(matches[4]); {
	case n == 1:
		ms = frac * 100
	case n == 2:
		ms = frac * 10
	case n > 3:
		for i := n; i > 3; i-- {
			ms /= 10
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
