package audio

import (
	"fmt"
	"io"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Container names a decodable audio container.
type Container string

const (
	ContainerMP3  Container = "mp3"
	ContainerWAV  Container = "wav"
	ContainerFLAC Container = "flac"
	ContainerOgg  Container = "ogg"
)

// Decoder opens a beep stream over rc. The stream takes ownership of rc.
type Decoder func(c Container, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// ContainerFor picks a decoder for a remote format from its extension,
// falling back to the audio codec name.
func ContainerFor(ext, codec string) (Container, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp3", "mpeg":
		return ContainerMP3, nil
	case "wav", "wave":
		return ContainerWAV, nil
	case "flac":
		return ContainerFLAC, nil
	case "ogg", "oga":
		return ContainerOgg, nil
	}

	switch strings.ToLower(codec) {
	case "mp3":
		return ContainerMP3, nil
	case "flac":
		return ContainerFLAC, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedContainer, ext, codec)
}

// decode is the production Decoder.
func decode(c Container, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch c {
	case ContainerMP3:
		streamer, format, err = mp3.Decode(rc)
	case ContainerWAV:
		streamer, format, err = wav.Decode(rc)
	case ContainerFLAC:
		streamer, format, err = flac.Decode(rc)
	case ContainerOgg:
		streamer, format, err = vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedContainer, c)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return streamer, format, nil
}
