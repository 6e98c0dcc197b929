package audio

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeRunner records ffmpeg invocations instead of executing them.
type fakeRunner struct {
	calls  [][]string
	output []byte
	err    error
	failAt int // fail on the Nth call (1-based); 0 means never
}

func (f *fakeRunner) CombinedOutput(ctx context.Context, name string, args []string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return nil, errors.New("ffmpeg exploded")
	}
	return f.output, f.err
}

func TestSplitBelowThresholdReturnsOriginalFile(t *testing.T) {
	for _, d := range []time.Duration{0, time.Second, 5 * time.Minute, 20 * time.Minute} {
		t.Run(d.String(), func(t *testing.T) {
			runner := &fakeRunner{}
			s, err := NewSplitter("ffmpeg", 20*time.Minute, WithSplitterCommandRunner(runner))
			require.NoError(t, err)

			chunks, err := s.Split(context.Background(), "/rec/voice.m4a", t.TempDir(), d)
			require.NoError(t, err)

			require.Len(t, chunks, 1)
			require.Equal(t, "/rec/voice.m4a", chunks[0].Path)
			require.Equal(t, 0, chunks[0].Index)
			require.Equal(t, time.Duration(0), chunks[0].Start)
			require.Equal(t, d, chunks[0].Duration)
			require.Empty(t, runner.calls, "short recordings must never be physically split")
		})
	}
}

func TestSplitAboveThresholdCoversDurationWithoutOverlap(t *testing.T) {
	runner := &fakeRunner{}
	s, err := NewSplitter("ffmpeg", 20*time.Minute, WithSplitterCommandRunner(runner))
	require.NoError(t, err)

	total := 45 * time.Minute
	chunks, err := s.Split(context.Background(), "/rec/long.m4a", t.TempDir(), total)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	require.Len(t, runner.calls, 3)

	var sum time.Duration
	prevStart := -time.Second
	for i, c := range chunks {
		require.Equal(t, i, c.Index)
		require.Greater(t, c.Start, prevStart, "start times must be strictly increasing")
		require.Equal(t, sum, c.Start, "chunks must be contiguous")
		sum += c.Duration
		prevStart = c.Start
	}
	require.Equal(t, total, sum, "chunk durations must sum to the source duration")

	// Partial last chunk kept, not padded.
	require.Equal(t, 5*time.Minute, chunks[2].Duration)
}

func TestSplitEmitsProgress(t *testing.T) {
	var msgs []string
	runner := &fakeRunner{}
	s, err := NewSplitter("ffmpeg", 10*time.Minute,
		WithSplitterCommandRunner(runner),
		WithProgress(func(msg string) { msgs = append(msgs, msg) }))
	require.NoError(t, err)

	_, err = s.Split(context.Background(), "/rec/long.m4a", t.TempDir(), 25*time.Minute)
	require.NoError(t, err)
	require.Equal(t, []string{"chunk 1/3 written", "chunk 2/3 written", "chunk 3/3 written"}, msgs)
}

func TestSplitFailurePartway(t *testing.T) {
	runner := &fakeRunner{failAt: 2}
	s, err := NewSplitter("ffmpeg", 10*time.Minute, WithSplitterCommandRunner(runner))
	require.NoError(t, err)

	_, err = s.Split(context.Background(), "/rec/long.m4a", t.TempDir(), 30*time.Minute)
	require.ErrorIs(t, err, ErrSplit)
	// The first extraction ran before the failure; its file stays on disk
	// for the caller to clean up.
	require.Len(t, runner.calls, 2)
}

func TestNewSplitterValidation(t *testing.T) {
	_, err := NewSplitter("", 20*time.Minute)
	require.Error(t, err)

	_, err = NewSplitter("ffmpeg", 0)
	require.Error(t, err)
}

func TestFormatFFmpegTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{30 * time.Second, "00:00:30.000"},
		{20 * time.Minute, "00:20:00.000"},
		{time.Hour + 5*time.Minute + 250*time.Millisecond, "01:05:00.250"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, formatFFmpegTime(tt.d), fmt.Sprintf("duration %v", tt.d))
	}
}

func TestProbeParsesDuration(t *testing.T) {
	runner := &fakeRunner{output: []byte("Input #0, mov,mp4\n  Duration: 00:05:23.45, start: 0.000000, bitrate: 64 kb/s\n")}
	p := NewProber("ffmpeg", WithProberCommandRunner(runner))

	d, err := p.Probe(context.Background(), "/rec/voice.m4a")
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute+23*time.Second+450*time.Millisecond, d)
}

func TestProbeUnreadableFormat(t *testing.T) {
	runner := &fakeRunner{output: []byte("Invalid data found when processing input")}
	p := NewProber("ffmpeg", WithProberCommandRunner(runner))

	_, err := p.Probe(context.Background(), "/rec/garbage.bin")
	require.ErrorIs(t, err, ErrProbe)
}

func TestProbeNoOutput(t *testing.T) {
	runner := &fakeRunner{err: errors.New("no such binary")}
	p := NewProber("ffmpeg", WithProberCommandRunner(runner))

	_, err := p.Probe(context.Background(), "/rec/voice.m4a")
	require.ErrorIs(t, err, ErrProbe)
}
