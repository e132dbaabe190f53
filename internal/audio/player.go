package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"
)

// OutputRate is the rate the speaker runs at; sources at other rates are
// resampled.
const OutputRate = beep.SampleRate(44100)

// Player is the output device. Lock and Unlock guard state that the
// playback goroutine reads, such as beep.Ctrl.Paused.
type Player interface {
	Init() error
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// speakerPlayer plays through the system speaker. The speaker is
// initialised once; re-initialising it while the playback goroutine runs
// can deadlock on the speaker lock.
type speakerPlayer struct {
	mu       sync.Mutex
	initDone bool
}

func NewSpeakerPlayer() Player {
	return &speakerPlayer{}
}

// Init opens the speaker on first use. A failed attempt can be retried.
func (p *speakerPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initDone {
		return nil
	}
	bufferSize := OutputRate.N(time.Second / 20)
	if err := speaker.Init(OutputRate, bufferSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFailed, err)
	}
	p.initDone = true

	logrus.WithFields(logrus.Fields{
		"function":    "speakerPlayer.Init",
		"sample_rate": int(OutputRate),
		"buffer_size": bufferSize,
	}).Debug("Speaker initialised")
	return nil
}

func (p *speakerPlayer) SampleRate() beep.SampleRate { return OutputRate }

func (p *speakerPlayer) Play(s beep.Streamer) { speaker.Play(s) }

// Clear takes the speaker lock itself.
func (p *speakerPlayer) Clear() { speaker.Clear() }

func (p *speakerPlayer) Lock() { speaker.Lock() }

func (p *speakerPlayer) Unlock() { speaker.Unlock() }
