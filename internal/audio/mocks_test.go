package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/audio-particles/internal/status"
	"github.com/iburimskiy/audio-particles/internal/stream"
)

// fakePlayer stands in for the speaker. drain plays everything queued the
// way the speaker goroutine would.
type fakePlayer struct {
	mu      sync.Mutex
	dev     sync.Mutex
	initErr error
	inits   int
	clears  int
	playing []beep.Streamer
}

func (p *fakePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits++
	return p.initErr
}

func (p *fakePlayer) SampleRate() beep.SampleRate { return 44100 }

func (p *fakePlayer) Play(s beep.Streamer) {
	p.mu.Lock()
	p.playing = append(p.playing, s)
	p.mu.Unlock()
}

func (p *fakePlayer) Clear() {
	p.mu.Lock()
	p.playing = nil
	p.clears++
	p.mu.Unlock()
}

func (p *fakePlayer) Lock()   { p.dev.Lock() }
func (p *fakePlayer) Unlock() { p.dev.Unlock() }

func (p *fakePlayer) queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.playing)
}

// stream pulls n frames from the first queued streamer. A finished
// streamer is dropped, as the speaker's mixer does.
func (p *fakePlayer) stream(n int) bool {
	p.mu.Lock()
	if len(p.playing) == 0 {
		p.mu.Unlock()
		return false
	}
	s := p.playing[0]
	p.mu.Unlock()

	p.dev.Lock()
	_, ok := s.Stream(make([][2]float64, n))
	p.dev.Unlock()

	if !ok {
		p.mu.Lock()
		if len(p.playing) > 0 {
			p.playing = p.playing[1:]
		}
		p.mu.Unlock()
	}
	return ok
}

func (p *fakePlayer) drain() {
	for p.stream(512) {
	}
}

// wavBytes builds a 16-bit stereo PCM WAV file holding a 440 Hz tone.
func wavBytes(rate, frames int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	dataLen := frames * 4

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, le, uint32(16))
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(2))
	_ = binary.Write(&buf, le, uint32(rate))
	_ = binary.Write(&buf, le, uint32(rate*4))
	_ = binary.Write(&buf, le, uint16(4))
	_ = binary.Write(&buf, le, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, le, uint32(dataLen))
	for i := 0; i < frames; i++ {
		v := int16(12000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		_ = binary.Write(&buf, le, v)
		_ = binary.Write(&buf, le, v)
	}
	return buf.Bytes()
}

// wavDecoder decodes everything as WAV so test fixtures can carry an .mp3
// name.
func wavDecoder(_ Container, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return decode(ContainerWAV, rc)
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// stubResolver answers without a network; a non-nil block holds the call
// until it is closed.
type stubResolver struct {
	res   stream.Resolved
	err   error
	block chan struct{}
}

func (r *stubResolver) ResolveStreamURL(ctx context.Context, _ string) (stream.Resolved, error) {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return stream.Resolved{}, ctx.Err()
		}
	}
	return r.res, r.err
}

func newTestManager(t *testing.T, resolver stream.Resolver) (*Manager, *fakePlayer, *status.Channel) {
	t.Helper()
	player := &fakePlayer{}
	st := status.New()
	m := NewManager(NewSession(player), st, resolver)
	m.Decode = wavDecoder
	t.Cleanup(m.Close)
	return m, player, st
}

// failingStreamer reports a playback error as soon as it is streamed.
type failingStreamer struct {
	err error
}

func (f *failingStreamer) Stream([][2]float64) (int, bool) { return 0, false }
func (f *failingStreamer) Err() error                      { return f.err }
func (f *failingStreamer) Len() int                        { return 0 }
func (f *failingStreamer) Position() int                   { return 0 }
func (f *failingStreamer) Seek(int) error                  { return errors.New("not seekable") }
func (f *failingStreamer) Close() error                    { return nil }
