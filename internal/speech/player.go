package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Player plays one encoded audio clip to completion.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// playerCandidates in preference order. All of them accept an MP3 file path.
var playerCandidates = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-autoexit", "-nodisp", "-loglevel", "quiet"},
	{"afplay"},
}

// ExecPlayer shells out to the first available command-line audio player.
type ExecPlayer struct {
	argv []string
}

// NewExecPlayer probes PATH for a known player. It returns nil when none is
// installed, which callers treat as "no playback".
func NewExecPlayer() *ExecPlayer {
	for _, candidate := range playerCandidates {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return &ExecPlayer{argv: candidate}
		}
	}
	return nil
}

// Play writes the clip to a temp file and blocks until the player exits.
func (p *ExecPlayer) Play(ctx context.Context, audio []byte) error {
	f, err := os.CreateTemp("", "topbot-*.mp3")
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp audio file: %w", err)
	}

	args := append(append([]string(nil), p.argv[1:]...), f.Name())
	cmd := exec.CommandContext(ctx, p.argv[0], args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", p.argv[0], err)
	}
	return nil
}
