// Package player plays audio files through an external command line player.
package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoPlayer is returned when no usable audio player is available.
var ErrNoPlayer = errors.New("no audio player found")

// Player starts playback of an audio file.
type Player interface {
	Start(ctx context.Context, path string) (*Playback, error)
}

// Playback is a handle to audio that is playing. Wait blocks until playback
// has finished.
type Playback struct {
	done chan struct{}
	err  error
}

func newPlayback() *Playback {
	return &Playback{done: make(chan struct{})}
}

// Finished returns a Playback that has already completed with err.
func Finished(err error) *Playback {
	p := newPlayback()
	p.finish(err)
	return p
}

func (p *Playback) finish(err error) {
	p.err = err
	close(p.done)
}

// Done is closed when playback ends.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until playback ends and returns the player's error, if any.
func (p *Playback) Wait() error {
	<-p.done
	return p.err
}

// Play starts playback and waits for it to finish.
func Play(ctx context.Context, p Player, path string) error {
	pb, err := p.Start(ctx, path)
	if err != nil {
		return err
	}
	return pb.Wait()
}

// CommandPlayer runs an external program with the audio path as its last
// argument, e.g. "mpg123 -q".
type CommandPlayer struct {
	name string
	args []string
}

// NewCommandPlayer parses command into a program and its arguments. The
// program must be found in PATH.
func NewCommandPlayer(command string) (*CommandPlayer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrNoPlayer
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPlayer, fields[0])
	}
	return &CommandPlayer{name: path, args: fields[1:]}, nil
}

// candidates lists players in order of preference for the current platform.
func candidates() []string {
	common := []string{
		"ffplay -nodisp -autoexit -loglevel quiet",
		"mpg123 -q",
		"mpv --no-video --really-quiet",
	}
	if runtime.GOOS == "darwin" {
		return append([]string{"afplay"}, common...)
	}
	return common
}

// Detect returns the first known player installed on this machine.
func Detect() (*CommandPlayer, error) {
	for _, c := range candidates() {
		if p, err := NewCommandPlayer(c); err == nil {
			log.Debug().Str("player", c).Msg("detected audio player")
			return p, nil
		}
	}
	return nil, ErrNoPlayer
}

// Start implements Player. Canceling ctx stops playback.
func (c *CommandPlayer) Start(ctx context.Context, path string) (*Playback, error) {
	cmd := exec.CommandContext(ctx, c.name, append(slices.Clone(c.args), path)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start player: %w", err)
	}

	pb := newPlayback()
	go func() {
		err := cmd.Wait()
		if err != nil {
			err = fmt.Errorf("player exited: %w", err)
		}
		pb.finish(err)
	}()
	return pb, nil
}
