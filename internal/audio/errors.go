package audio

import (
	"errors"

	"github.com/iburimskiy/audio-particles/internal/stream"
)

var (
	ErrNoFile               = errors.New("no file selected")
	ErrUnsupportedType      = errors.New("unsupported file type")
	ErrNotMP3               = errors.New("not an mp3 file")
	ErrInitFailed           = errors.New("audio initialisation failed")
	ErrDecodeFailed         = errors.New("unable to decode audio")
	ErrUnsupportedContainer = errors.New("unsupported stream container")
	ErrBusy                 = errors.New("a stream is already loading")
	ErrNoSource             = errors.New("no audio source attached")
	ErrNotSeekable          = errors.New("audio source cannot seek")
)

// UserMessage turns a load error into the text shown on the status line.
// remote selects the wording used for stream loads.
func UserMessage(err error, remote bool) string {
	switch {
	case errors.Is(err, ErrNoFile):
		return "No file selected."
	case errors.Is(err, ErrUnsupportedType):
		return "Unsupported file type. Please upload an MP3 audio file."
	case errors.Is(err, ErrNotMP3):
		return "This demo currently supports MP3 files."
	case errors.Is(err, ErrInitFailed):
		return "Unable to initialise audio. Check the output device and try again."
	case errors.Is(err, stream.ErrEmptyURL):
		return "Please enter a YouTube URL."
	case errors.Is(err, stream.ErrInvalidURL):
		return "Invalid YouTube URL. Please check and try again."
	case errors.Is(err, ErrNotSeekable):
		return "This source cannot rewind. Load it again to listen from the start."
	case !remote && errors.Is(err, ErrDecodeFailed):
		return "Unable to play the selected file. Please choose another MP3."
	}
	return "Error: " + err.Error()
}
