package bell

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate of rendered PCM, matching the player arguments
const SampleRate = beep.SampleRate(44100)

// Tone describes the synthesized bell: a sine fundamental with an octave overtone
type Tone struct {
	Freq            float64
	Duration        time.Duration
	Attack          time.Duration
	Release         time.Duration
	OvertoneRelease time.Duration
	Volume          float64
}

// DefaultTone is a short A5 ding
var DefaultTone = Tone{
	Freq:            880.0,
	Duration:        220 * time.Millisecond,
	Attack:          5 * time.Millisecond,
	Release:         200 * time.Millisecond,
	OvertoneRelease: 90 * time.Millisecond,
	Volume:          0.6,
}

// sine generates a sine wave for a fixed number of samples
type sine struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

func newSine(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sine{freq: freq, duration: rate.N(duration), rate: rate}
}

func (o *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// envelope applies linear attack and release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	sustain  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer: s,
		attack:   att,
		release:  rel,
		sustain:  max(total-att-rel, 0),
		total:    total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.attack+e.sustain && e.release > 0 {
			vol = max(float64(e.total-e.position)/float64(e.release), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; log2(0) is -Inf so zero is mapped to silence
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Streamer builds the bell sound as a beep streamer
func (t Tone) Streamer() beep.Streamer {
	fund := newEnvelope(newSine(t.Freq, t.Duration, SampleRate), t.Duration, t.Attack, t.Release, SampleRate)
	over := newEnvelope(newSine(t.Freq*2, t.Duration, SampleRate), t.Duration, t.Attack, t.OvertoneRelease, SampleRate)

	mixed := beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	return beep.Take(SampleRate.N(t.Duration), newVolume(mixed, t.Volume))
}

// Render drains s into interleaved stereo signed 16-bit little-endian PCM
func Render(s beep.Streamer) []byte {
	buf := make([][2]float64, 512)
	var out []byte
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(buf[i][0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(buf[i][1])))
		}
		if !ok || n == 0 {
			return out
		}
	}
}

// toInt16 converts with hard clipping
func toInt16(v float64) int16 {
	v = max(min(v, 1), -1)
	return int16(v * 32767)
}
