package game

import (
	"github.com/ncruces/zenity"
)

// Dialogs asks the user for a source. Both calls block and return
// zenity.ErrCanceled when dismissed.
type Dialogs interface {
	SelectFile() (string, error)
	EnterURL() (string, error)
}

type zenityDialogs struct{}

func NewDialogs() Dialogs {
	return zenityDialogs{}
}

func (zenityDialogs) SelectFile() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open MP3 File"),
		zenity.FileFilters{{
			Name:     "MP3 audio",
			Patterns: []string{"*.mp3"},
		}},
	)
}

func (zenityDialogs) EnterURL() (string, error) {
	return zenity.Entry(
		"Paste a YouTube link:",
		zenity.Title("Load YouTube URL"),
		zenity.OKLabel("Load"),
	)
}
