package player

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses unix commands")
	}
}

func TestCommandPlayer_WaitsForCompletion(t *testing.T) {
	skipOnWindows(t)

	audio := filepath.Join(t.TempDir(), "voice.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3"), 0644))

	p, err := NewCommandPlayer("cat")
	require.NoError(t, err)

	pb, err := p.Start(context.Background(), audio)
	require.NoError(t, err)
	assert.NoError(t, pb.Wait())

	select {
	case <-pb.Done():
	default:
		t.Fatal("Done should be closed after Wait returns")
	}
}

func TestCommandPlayer_ExitError(t *testing.T) {
	skipOnWindows(t)

	p, err := NewCommandPlayer("false")
	require.NoError(t, err)

	err = Play(context.Background(), p, "ignored.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player exited")
}

func TestCommandPlayer_ContextCancelStopsPlayback(t *testing.T) {
	skipOnWindows(t)

	p, err := NewCommandPlayer("sleep")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	pb, err := p.Start(ctx, "30")
	require.NoError(t, err)

	cancel()
	select {
	case <-pb.Done():
		assert.Error(t, pb.Wait())
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not stop after cancel")
	}
}

func TestNewCommandPlayer_Missing(t *testing.T) {
	_, err := NewCommandPlayer("definitely-not-an-audio-player-xyz -q")
	assert.True(t, errors.Is(err, ErrNoPlayer))

	_, err = NewCommandPlayer("   ")
	assert.True(t, errors.Is(err, ErrNoPlayer))
}

func TestFinished(t *testing.T) {
	pb := Finished(errors.New("boom"))
	assert.EqualError(t, pb.Wait(), "boom")
	assert.NoError(t, Finished(nil).Wait())
}
