package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAudioRelPathLayout(t *testing.T) {
	s := NewStorage("/data/uploads")
	capturedAt := time.Date(2026, 8, 30, 14, 15, 0, 0, time.UTC)

	rel := s.AudioRelPath(capturedAt, "9f3c2a1b", ".m4a")
	require.Equal(t,
		filepath.Join("audio", "2020s", "2026", "08", "30", "20260830T141500_9f3c2a1b.m4a"),
		rel)
}

func TestAudioRelPathDecadeBoundary(t *testing.T) {
	s := NewStorage("/data/uploads")

	rel := s.AudioRelPath(time.Date(2019, 12, 31, 23, 59, 59, 0, time.UTC), "id", "mp3")
	require.True(t, strings.HasPrefix(rel, filepath.Join("audio", "2010s", "2019")))
	require.True(t, strings.HasSuffix(rel, ".mp3"), "extension without dot must be normalized")

	rel = s.AudioRelPath(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), "id", "")
	require.True(t, strings.HasPrefix(rel, filepath.Join("audio", "2030s", "2030")))
	require.True(t, strings.HasSuffix(rel, ".bin"))
}

func TestSaveAndRemove(t *testing.T) {
	s := NewStorage(t.TempDir())
	rel := s.AudioRelPath(time.Now(), "abc", ".m4a")

	n, err := s.Save(rel, strings.NewReader("fake audio bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(16), n)

	data, err := os.ReadFile(s.Abs(rel))
	require.NoError(t, err)
	require.Equal(t, "fake audio bytes", string(data))

	require.NoError(t, s.Remove(rel))
	_, err = os.Stat(s.Abs(rel))
	require.True(t, os.IsNotExist(err))

	// Removing twice is fine.
	require.NoError(t, s.Remove(rel))
}
