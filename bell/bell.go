// Package bell rings the session bell through the terminal, a synthesized tone, or not at all.
package bell

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Mode selects how Ring is delivered
type Mode string

const (
	ModeTerminal Mode = "terminal"
	ModeAudio    Mode = "audio"
	ModeOff      Mode = "off"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeTerminal, ModeAudio, ModeOff:
		return m, nil
	case "":
		return ModeTerminal, nil
	default:
		return "", fmt.Errorf("bell: unknown mode %q", s)
	}
}

// Bell delivers ring requests; audio playback happens on a worker goroutine
type Bell struct {
	mode     Mode
	terminal func()
	log      logrus.FieldLogger

	pcm    []byte
	out    io.WriteCloser
	queue  chan struct{}
	failed atomic.Bool
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a bell; terminal writes the terminal bell byte
// Audio playback begins at Start, until then audio rings use the terminal bell
func New(mode Mode, terminal func(), log logrus.FieldLogger) *Bell {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bell{mode: mode, terminal: terminal, log: log}
}

// Name implements service.Service
func (b *Bell) Name() string {
	return "bell"
}

// Dependencies implements service.Service
func (b *Bell) Dependencies() []string {
	return nil
}

// Start launches the audio player in audio mode
// Without a usable player the bell falls back to the terminal bell
func (b *Bell) Start(ctx context.Context) error {
	if b.mode != ModeAudio || b.queue != nil {
		return nil
	}
	s, err := startPlayer(ctx)
	if err != nil {
		b.log.WithError(err).Info("bell: audio unavailable, using terminal bell")
		b.mode = ModeTerminal
		return nil
	}
	b.log.WithField("player", s.name).Debug("bell: audio player started")
	b.attach(s, DefaultTone)
	return nil
}

// Stop implements service.Service
func (b *Bell) Stop() error {
	b.Close()
	return nil
}

// attach starts the playback worker over out
func (b *Bell) attach(out io.WriteCloser, tone Tone) {
	b.pcm = Render(tone.Streamer())
	b.out = out
	b.queue = make(chan struct{}, 4)

	b.wg.Add(1)
	go b.play()
}

func (b *Bell) play() {
	defer b.wg.Done()
	for range b.queue {
		if b.failed.Load() {
			continue
		}
		if _, err := b.out.Write(b.pcm); err != nil {
			b.log.WithError(err).Warn("bell: audio write failed, using terminal bell")
			b.failed.Store(true)
		}
	}
}

// Mode returns the effective mode
func (b *Bell) Mode() Mode {
	return b.mode
}

// Ring rings once; audio rings beyond the queue depth are dropped
func (b *Bell) Ring() {
	switch b.mode {
	case ModeOff:
		return
	case ModeAudio:
		b.mu.Lock()
		queued := b.queue != nil && !b.closed && !b.failed.Load()
		if queued {
			select {
			case b.queue <- struct{}{}:
			default:
			}
		}
		b.mu.Unlock()
		if queued {
			return
		}
	}
	if b.terminal != nil {
		b.terminal()
	}
}

// Close stops audio playback. Safe to call multiple times
func (b *Bell) Close() {
	b.mu.Lock()
	if b.closed || b.queue == nil {
		b.closed = true
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	b.wg.Wait()
	if err := b.out.Close(); err != nil {
		b.log.WithError(err).Debug("bell: player exit")
	}
}
