package bell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrNoAudioBackend is returned when no PCM player is installed
var ErrNoAudioBackend = errors.New("bell: no audio backend found")

// player is a system tool that plays raw PCM from stdin
type player struct {
	Name string
	Args []string
}

// players in priority order: pacat > pw-cat > aplay > play (sox) > ffplay
var players = []player{
	{"pacat", []string{"--raw", "--format=s16le", "--rate=44100", "--channels=2", "--latency-msec=50", "--playback"}},
	{"pw-cat", []string{"--playback", "--format=s16", "--rate=44100", "--channels=2", "--latency=50ms", "-"}},
	{"aplay", []string{"-t", "raw", "-f", "S16_LE", "-r", "44100", "-c", "2", "-q"}},
	{"play", []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", "44100", "-", "-d", "-q"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", "44100", "-i", "pipe:0", "-loglevel", "quiet"}},
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// sink is a running player process fed through stdin
type sink struct {
	name  string
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// startPlayer launches the first available player
// The process is killed if ctx ends before Close
func startPlayer(ctx context.Context) (*sink, error) {
	for _, p := range players {
		path, err := lookPath(p.Name)
		if err != nil {
			continue
		}

		cmd := exec.CommandContext(ctx, path, p.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("bell: %s stdin: %w", p.Name, err)
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			return nil, fmt.Errorf("bell: start %s: %w", p.Name, err)
		}
		return &sink{name: p.Name, cmd: cmd, stdin: stdin}, nil
	}
	return nil, ErrNoAudioBackend
}

func (s *sink) Write(p []byte) (int, error) {
	return s.stdin.Write(p)
}

// Close ends the player; closing stdin lets it drain and exit
func (s *sink) Close() error {
	s.stdin.Close()
	return s.cmd.Wait()
}
