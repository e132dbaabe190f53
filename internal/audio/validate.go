package audio

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	audioTypes = map[string]string{
		".mp3":  "audio/mpeg",
		".mpga": "audio/mpeg",
		".wav":  "audio/wav",
		".flac": "audio/flac",
		".ogg":  "audio/ogg",
		".oga":  "audio/ogg",
		".m4a":  "audio/mp4",
		".aac":  "audio/aac",
		".opus": "audio/opus",
	}

	mp3Type = regexp.MustCompile(`(?i)mp3|mpeg`)
)

// mimeType guesses a file's type from its extension, then from its first
// bytes.
func mimeType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// ValidateFile accepts only existing MP3-family audio files.
func ValidateFile(path string) error {
	if path == "" {
		return ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNoFile, path)
	}

	typ, err := mimeType(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	if !strings.HasPrefix(typ, "audio/") {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}
	if !mp3Type.MatchString(typ) && !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return fmt.Errorf("%w: %s", ErrNotMP3, typ)
	}
	return nil
}
