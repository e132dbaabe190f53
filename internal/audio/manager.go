// Package audio supplies the analyser's input from a local MP3 file or a
// remote stream, keeping at most one source live at a time.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/audio-particles/internal/status"
	"github.com/iburimskiy/audio-particles/internal/stream"
)

// Opener fetches a resolved stream URL.
type Opener func(ctx context.Context, url string) (io.ReadCloser, error)

// Manager loads sources into a Session and reports progress on the status
// channel. Load errors never reach the render loop.
type Manager struct {
	session  *Session
	status   *status.Channel
	resolver stream.Resolver

	Open   Opener
	Decode Decoder

	busy atomic.Bool
}

func NewManager(session *Session, st *status.Channel, resolver stream.Resolver) *Manager {
	m := &Manager{
		session:  session,
		status:   st,
		resolver: resolver,
		Decode:   decode,
	}
	client := &http.Client{}
	m.Open = func(ctx context.Context, url string) (io.ReadCloser, error) {
		return stream.Open(ctx, client, url)
	}
	session.onEnd = func(string) {
		st.Set(status.Ended, "Playback ended. Open another MP3 or press Space to listen again.")
	}
	return m
}

func (m *Manager) Session() *Session {
	return m.session
}

// Busy reports whether a remote load is in flight. The trigger stays
// disabled until it finishes.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// LoadFile validates, decodes and plays a local MP3.
func (m *Manager) LoadFile(path string) error {
	logrus.WithFields(logrus.Fields{
		"function": "LoadFile",
		"path":     path,
	}).Info("Loading local audio file")

	if err := ValidateFile(path); err != nil {
		return m.fail(err, false)
	}

	f, err := os.Open(path)
	if err != nil {
		return m.fail(fmt.Errorf("%w: %v", ErrNoFile, err), false)
	}

	name := filepath.Base(path)
	m.status.Set(status.Loading, "Loading audio…")
	if err := m.start(name, ContainerMP3, f); err != nil {
		return m.fail(err, false)
	}
	m.status.Set(status.Playing, "Playing: "+name)
	return nil
}

// LoadStream resolves identifier to a stream and plays it. It blocks until
// the stream is attached or the load fails.
func (m *Manager) LoadStream(ctx context.Context, identifier string) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	m.status.Set(status.Loading, "Fetching audio from YouTube...")
	res, err := m.resolver.ResolveStreamURL(ctx, identifier)
	if err != nil {
		return m.fail(err, true)
	}

	container, err := ContainerFor(res.Ext, res.Codec)
	if err != nil {
		return m.fail(err, true)
	}

	m.status.Set(status.Loading, "Loading audio from YouTube...")
	body, err := m.Open(ctx, res.URL)
	if err != nil {
		return m.fail(err, true)
	}
	if err := m.start(res.Title, container, body); err != nil {
		return m.fail(err, true)
	}
	m.status.Set(status.Playing, "Playing: "+res.Title)
	return nil
}

// LoadStreamAsync runs LoadStream in the background. It returns false when
// a load is already running.
func (m *Manager) LoadStreamAsync(ctx context.Context, identifier string) bool {
	if m.Busy() {
		return false
	}
	go func() {
		if err := m.LoadStream(ctx, identifier); err != nil && !errors.Is(err, ErrBusy) {
			logrus.WithFields(logrus.Fields{
				"function": "LoadStreamAsync",
				"error":    err.Error(),
			}).Debug("Stream load finished with error")
		}
	}()
	return true
}

// start decodes rc and attaches it, closing everything on failure.
func (m *Manager) start(title string, c Container, rc io.ReadCloser) error {
	h := m.session.track(rc)
	streamer, format, err := m.Decode(c, h.reader())
	if err != nil {
		_ = h.Close()
		return err
	}

	src := &source{title: title, streamer: streamer, format: format, handle: h}
	if err := m.session.attach(src); err != nil {
		_ = streamer.Close()
		_ = h.Close()
		return err
	}
	return nil
}

// TogglePause pauses or resumes the current source.
func (m *Manager) TogglePause() {
	paused, title, err := m.session.Toggle()
	switch {
	case errors.Is(err, ErrNoSource):
		return
	case err != nil:
		m.status.Set(status.Error, UserMessage(err, false))
	case paused:
		m.status.Set(status.Paused, fmt.Sprintf("Audio paused: %s. Adjust the controls or resume playback.", title))
	default:
		m.status.Set(status.Playing, "Playing: "+title)
	}
}

// Seek scrubs the current source to fraction f of its length.
func (m *Manager) Seek(f float64) {
	restarted, err := m.session.Seek(f)
	switch {
	case errors.Is(err, ErrNoSource):
		return
	case err != nil:
		m.status.Set(status.Error, UserMessage(err, false))
	case restarted:
		m.status.Set(status.Playing, "Playing: "+m.session.Title())
	}
}

// Poll surfaces a playback error of the current source, once. It is cheap
// enough to call every frame.
func (m *Manager) Poll() {
	title, err := m.session.takeErr()
	if err == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function": "Poll",
		"title":    title,
		"error":    err.Error(),
	}).Warn("Playback failed")
	m.status.Set(status.Error, UserMessage(fmt.Errorf("%w: %v", ErrDecodeFailed, err), false))
}

func (m *Manager) Close() {
	m.session.Close()
}

func (m *Manager) fail(err error, remote bool) error {
	logrus.WithFields(logrus.Fields{
		"function": "Manager.fail",
		"remote":   remote,
		"error":    err.Error(),
	}).Warn("Audio load failed")
	m.status.Set(status.Error, UserMessage(err, remote))
	return err
}
