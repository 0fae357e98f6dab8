// Package audio plays short feedback cues for editor actions.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/events"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when a cue is played before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Cue names a feedback sound.
type Cue uint8

// Cues.
const (
	CueTile Cue = iota
	CueElevation
	CueRoad
	CueBuilding
	CueNoOp
	cueCount
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueTile:
		return "tile"
	case CueElevation:
		return "elevation"
	case CueRoad:
		return "road"
	case CueBuilding:
		return "building"
	case CueNoOp:
		return "no-op"
	default:
		return fmt.Sprintf("cue(%d)", uint8(c))
	}
}

// ParseCue parses a cue name.
func ParseCue(s string) (Cue, error) {
	for c := CueTile; c < cueCount; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown cue %q", s)
}

// CueFor returns the cue of a committed edit.
func CueFor(k events.CommitKind) Cue {
	switch k {
	case events.CommitElevation:
		return CueElevation
	case events.CommitRoad:
		return CueRoad
	case events.CommitBuilding:
		return CueBuilding
	default:
		return CueTile
	}
}

// tone is a synthesized cue.
type tone struct {
	freq     float64
	duration time.Duration
	square   bool
}

var tones = [cueCount]tone{
	CueTile:      {freq: 660, duration: 60 * time.Millisecond},
	CueElevation: {freq: 440, duration: 50 * time.Millisecond},
	CueRoad:      {freq: 520, duration: 80 * time.Millisecond},
	CueBuilding:  {freq: 330, duration: 120 * time.Millisecond},
	CueNoOp:      {freq: 150, duration: 90 * time.Millisecond, square: true},
}

// Sink receives cue streamers. *beep.Mixer is a Sink.
type Sink interface {
	Add(s ...beep.Streamer)
}

// Player plays cues through a mixer.
type Player struct {
	mu sync.RWMutex

	log         *zap.Logger
	sampleRate  beep.SampleRate
	sink        Sink
	initialized bool
	speaker     bool

	masterVolume float64
	sfxVolume    float64
	muted        bool

	// Decoded WAV overrides, buffered at sampleRate.
	overrides map[Cue]*beep.Buffer
	played    [cueCount]int
}

// New creates a player. Call Init before playing cues.
func New(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		log:          log,
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolume:    1.0,
		overrides:    make(map[Cue]*beep.Buffer),
	}
}

// Init opens the speaker and starts the cue mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	mixer := &beep.Mixer{}
	speaker.Play(mixer)

	p.sink = mixer
	p.speaker = true
	p.initialized = true
	p.log.Info("audio initialized", zap.Int("sample_rate", int(p.sampleRate)))
	return nil
}

// InitSink plays cues into sink instead of the speaker.
func (p *Player) InitSink(sink Sink, sr beep.SampleRate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = sink
	p.sampleRate = sr
	p.initialized = true
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.speaker {
		speaker.Clear()
		speaker.Close()
		p.speaker = false
	}
	p.sink = nil
	p.initialized = false
}

// IsInitialized returns whether the player can play cues.
func (p *Player) IsInitialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (p *Player) SetMasterVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the cue volume (0.0 to 1.0).
func (p *Player) SetSFXVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sfxVolume = clamp(vol, 0, 1)
}

// SetMuted mutes or unmutes all cues.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// IsMuted reports whether cues are muted.
func (p *Player) IsMuted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.muted
}

// GetMasterVolume returns the master volume.
func (p *Player) GetMasterVolume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.masterVolume
}

// GetSFXVolume returns the cue volume.
func (p *Player) GetSFXVolume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sfxVolume
}

// Played returns how many times c was queued.
func (p *Player) Played(c Cue) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c >= cueCount {
		return 0
	}
	return p.played[c]
}

// volumeToDb converts a 0-1 volume to decibels for a base 10 effects.Volume.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Override replaces the synthesized tone of c with WAV data.
func (p *Player) Override(c Cue, data []byte) error {
	if c >= cueCount {
		return fmt.Errorf("unknown cue %d", c)
	}
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}
	format.SampleRate = p.sampleRate
	buf := beep.NewBuffer(format)
	buf.Append(s)
	p.overrides[c] = buf
	return nil
}

// OverrideFile loads a WAV override from disk.
func (p *Player) OverrideFile(c Cue, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.Override(c, data)
}

// Play queues cue c.
func (p *Player) Play(c Cue) error {
	if c >= cueCount {
		return fmt.Errorf("unknown cue %d", c)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	vol := p.masterVolume * p.sfxVolume
	if p.muted || vol <= 0 {
		return nil
	}

	src, err := p.streamer(c)
	if err != nil {
		return err
	}
	p.sink.Add(&effects.Volume{
		Streamer: src,
		Base:     10,
		Volume:   volumeToDb(vol) / 20,
	})
	p.played[c]++
	return nil
}

func (p *Player) streamer(c Cue) (beep.Streamer, error) {
	if buf, ok := p.overrides[c]; ok {
		return buf.Streamer(0, buf.Len()), nil
	}
	t := tones[c]
	var (
		s   beep.Streamer
		err error
	)
	if t.square {
		s, err = generators.SquareTone(p.sampleRate, t.freq)
	} else {
		s, err = generators.SineTone(p.sampleRate, t.freq)
	}
	if err != nil {
		return nil, fmt.Errorf("cue %s: %w", c, err)
	}
	// Quiet the raw generator; full scale is harsh for a click.
	quiet := &effects.Gain{Streamer: s, Gain: -0.75}
	return beep.Take(p.sampleRate.N(t.duration), quiet), nil
}

// Attach plays cues for committed and rejected edits on bus. The returned
// function detaches the player.
func (p *Player) Attach(bus *events.Bus) (detach func()) {
	play := func(c Cue) {
		if err := p.Play(c); err != nil && !errors.Is(err, ErrNotInitialized) {
			p.log.Warn("cue failed", zap.Stringer("cue", c), zap.Error(err))
		}
	}
	offCommit := bus.Committed.Subscribe(func(e events.Committed) {
		play(CueFor(e.Kind))
	})
	offNoOp := bus.NoOp.Subscribe(func(events.NoOp) {
		play(CueNoOp)
	})
	return func() {
		offCommit()
		offNoOp()
	}
}
