package terminal

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/wricardo/robots-game/logger"
)

const sampleRate = beep.SampleRate(44100)

// Sounder plays short cues for game events
type Sounder interface {
	Crash()
	LevelCleared()
	Caught()
	Close()
}

type silent struct{}

func (silent) Crash()        {}
func (silent) LevelCleared() {}
func (silent) Caught()       {}
func (silent) Close()        {}

// Silent returns a Sounder that plays nothing
func Silent() Sounder { return silent{} }

// Beeper plays sine tones through the system speaker
type Beeper struct {
	mu     sync.Mutex
	closed bool
}

// NewBeeper initializes the speaker. When no audio device is available it
// logs the failure and returns a silent Sounder so the game still runs.
func NewBeeper() Sounder {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		logger.Log.WithError(err).Warn("Audio initialization failed, playing without sound")
		return Silent()
	}
	return &Beeper{}
}

func (b *Beeper) tone(freq float64, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		logger.Log.WithError(err).Debug("Tone generation failed")
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// Crash is played when pursuers turn into wreckage
func (b *Beeper) Crash() { b.tone(220, 60*time.Millisecond) }

// LevelCleared is played when the last pursuer is gone
func (b *Beeper) LevelCleared() { b.tone(880, 200*time.Millisecond) }

// Caught is played when the player is caught
func (b *Beeper) Caught() { b.tone(110, 400*time.Millisecond) }

// Close stops playback and releases the speaker
func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	speaker.Clear()
	speaker.Close()
}
