package audio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/spectrum"
)

const resampleQuality = 4

// handle is a tracked resource such as an open file or HTTP body. Close is
// idempotent.
type handle struct {
	io.ReadCloser
	once    sync.Once
	err     error
	release func()
}

func (h *handle) Close() error {
	h.once.Do(func() {
		h.err = h.ReadCloser.Close()
		h.release()
	})
	return h.err
}

// reader is what decoders see. Files keep their io.Seeker so decoded
// streams can report a length and rewind.
func (h *handle) reader() io.ReadCloser {
	if _, ok := h.ReadCloser.(io.Seeker); ok {
		return seekHandle{h}
	}
	return h
}

type seekHandle struct {
	*handle
}

func (h seekHandle) Seek(offset int64, whence int) (int64, error) {
	return h.ReadCloser.(io.Seeker).Seek(offset, whence)
}

// seekTo moves s to frame n. Some decoders panic when the underlying
// reader cannot seek; that is reported as an error.
func seekTo(s beep.StreamSeeker, n int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNotSeekable, r)
		}
	}()
	return s.Seek(n)
}

// source is the single live audio source of a session.
type source struct {
	title    string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *visualTap
	handle   *handle
	ended    atomic.Bool
	paused   atomic.Bool
	failed   atomic.Bool
}

// Session owns the audio state that the render loop samples: the player,
// the one attached source and the analyser reading from it.
type Session struct {
	mu       sync.RWMutex
	player   Player
	current  *source
	analyser *spectrum.Analyser
	live     atomic.Int32

	// onEnd runs on the playback goroutine when the current source ends.
	onEnd func(title string)
}

func NewSession(p Player) *Session {
	s := &Session{player: p}
	s.analyser = spectrum.NewAnalyser(s, config.FFTSize, config.SmoothingTimeConstant)
	return s
}

// Analyser is the frequency source for the spectrum extractor.
func (s *Session) Analyser() *spectrum.Analyser {
	return s.analyser
}

// ActiveHandles counts tracked handles that have not been closed.
func (s *Session) ActiveHandles() int {
	return int(s.live.Load())
}

func (s *Session) track(rc io.ReadCloser) *handle {
	s.live.Add(1)
	return &handle{ReadCloser: rc, release: func() { s.live.Add(-1) }}
}

// Samples implements spectrum.SampleSource over the attached source. A
// paused or ended source is silent, so the analyser decays to zero.
func (s *Session) Samples(n int) []float64 {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil || cur.paused.Load() || cur.ended.Load() {
		return nil
	}
	return cur.tap.Samples(n)
}

// Title is the name of the attached source, or "".
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.title
}

// attach revokes the previous source and starts playing src. On error src
// is left for the caller to close and the previous source keeps playing.
func (s *Session) attach(src *source) error {
	if err := s.player.Init(); err != nil {
		return err
	}

	var stream beep.Streamer = src.streamer
	if rate := s.player.SampleRate(); src.format.SampleRate != rate {
		stream = beep.Resample(resampleQuality, src.format.SampleRate, rate, stream)
	}
	src.tap = newVisualTap(stream, config.VisualRingSize)
	src.ctrl = &beep.Ctrl{Streamer: src.tap, Paused: false}

	s.mu.Lock()
	prev := s.current
	s.current = src
	s.mu.Unlock()
	s.release(prev)

	s.play(src)

	logrus.WithFields(logrus.Fields{
		"function":       "Session.attach",
		"title":          src.title,
		"sample_rate":    int(src.format.SampleRate),
		"active_handles": s.ActiveHandles(),
	}).Info("Audio source attached")
	return nil
}

func (s *Session) play(src *source) {
	src.ended.Store(false)
	s.player.Play(beep.Seq(src.ctrl, beep.Callback(func() {
		src.ended.Store(true)
		s.mu.RLock()
		current := s.current == src
		s.mu.RUnlock()
		if current && s.onEnd != nil {
			s.onEnd(src.title)
		}
	})))
}

// release stops src and closes everything it holds.
func (s *Session) release(src *source) {
	if src == nil {
		return
	}
	s.player.Clear()
	if err := src.streamer.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Session.release",
			"title":    src.title,
			"error":    err.Error(),
		}).Debug("Closing streamer failed")
	}
	_ = src.handle.Close()
}

// Toggle pauses or resumes playback. An ended source restarts from the
// beginning when it can seek.
func (s *Session) Toggle() (paused bool, title string, err error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil {
		return false, "", ErrNoSource
	}

	if cur.ended.Load() {
		if err := s.restart(cur, 0); err != nil {
			return false, cur.title, err
		}
		return false, cur.title, nil
	}

	s.player.Lock()
	cur.ctrl.Paused = !cur.ctrl.Paused
	paused = cur.ctrl.Paused
	s.player.Unlock()
	cur.paused.Store(paused)
	return paused, cur.title, nil
}

// restart rewinds an ended source to frame n and queues it again.
func (s *Session) restart(cur *source, n int) error {
	s.player.Lock()
	err := ErrNotSeekable
	if cur.streamer.Len() > 0 {
		err = seekTo(cur.streamer, n)
	}
	s.player.Unlock()
	if err != nil {
		return fmt.Errorf("restart %s: %w", cur.title, err)
	}

	s.player.Lock()
	cur.ctrl.Paused = false
	s.player.Unlock()
	cur.paused.Store(false)
	s.play(cur)
	return nil
}

// Seek moves playback to fraction f of the track, clamped to [0,1]. An
// ended source starts playing again from there, and restarted says so.
func (s *Session) Seek(f float64) (restarted bool, err error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil {
		return false, ErrNoSource
	}

	s.player.Lock()
	length := cur.streamer.Len()
	s.player.Unlock()
	if length <= 0 {
		return false, fmt.Errorf("%w: %s has no known length", ErrNotSeekable, cur.title)
	}

	n := int(max(0, min(f, 1)) * float64(length))
	n = min(n, length-1)

	if cur.ended.Load() {
		if err := s.restart(cur, n); err != nil {
			return false, err
		}
		return true, nil
	}

	s.player.Lock()
	err = seekTo(cur.streamer, n)
	s.player.Unlock()
	if err != nil {
		return false, fmt.Errorf("seek %s: %w", cur.title, err)
	}
	return false, nil
}

// Progress reports the playback position and, when known, the length.
func (s *Session) Progress() (pos, total time.Duration, ok bool) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil {
		return 0, 0, false
	}

	s.player.Lock()
	p, n := cur.streamer.Position(), cur.streamer.Len()
	s.player.Unlock()

	sr := cur.format.SampleRate
	pos = sr.D(p)
	if n > 0 {
		total = sr.D(n)
	}
	return pos, total, true
}

// takeErr returns the current source's playback error the first time it is
// seen.
func (s *Session) takeErr() (string, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur == nil || cur.failed.Load() {
		return "", nil
	}

	s.player.Lock()
	err := cur.ctrl.Err()
	s.player.Unlock()
	if err == nil || !cur.failed.CompareAndSwap(false, true) {
		return "", nil
	}
	return cur.title, err
}

// Close detaches and releases the current source.
func (s *Session) Close() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()
	s.release(prev)
}
