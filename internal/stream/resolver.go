package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyURL      = errors.New("empty url")
	ErrInvalidURL    = errors.New("invalid youtube url")
	ErrFetchFailed   = errors.New("failed to fetch video information")
	ErrNoAudioStream = errors.New("no audio stream found for this video")
)

const (
	defaultTimeout = 30 * time.Second
	fallbackTitle  = "YouTube Audio"
	codecNone      = "none"
)

// Format is one entry of the service's format list.
type Format struct {
	URL    string `json:"url"`
	Ext    string `json:"ext"`
	ACodec string `json:"acodec"`
	VCodec string `json:"vcodec"`
}

func (f Format) hasAudio() bool {
	return f.ACodec != "" && f.ACodec != codecNone
}

func (f Format) hasVideo() bool {
	return f.VCodec != "" && f.VCodec != codecNone
}

// Info is the subset of the metadata document the visualizer reads.
type Info struct {
	Title   string   `json:"title"`
	Formats []Format `json:"formats"`
}

// Resolved is a playable stream.
type Resolved struct {
	URL   string
	Title string
	Ext   string
	Codec string
}

// Resolver turns a user supplied identifier into a direct stream URL.
type Resolver interface {
	ResolveStreamURL(ctx context.Context, identifier string) (Resolved, error)
}

// SelectAudioFormat picks the first audio-only format, falling back to the
// first format that carries any audio. Ties follow the service's list order.
func SelectAudioFormat(formats []Format) (Format, bool) {
	for _, f := range formats {
		if f.hasAudio() && !f.hasVideo() && f.URL != "" {
			return f, true
		}
	}
	for _, f := range formats {
		if f.hasAudio() && f.URL != "" {
			return f, true
		}
	}
	return Format{}, false
}

// HTTPResolver queries a yt-dlp info endpoint over HTTP.
type HTTPResolver struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPResolver(endpoint string) *HTTPResolver {
	return &HTTPResolver{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Client:   &http.Client{Timeout: defaultTimeout},
	}
}

// ResolveStreamURL accepts a watch, short or embed URL.
func (r *HTTPResolver) ResolveStreamURL(ctx context.Context, identifier string) (Resolved, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Resolved{}, ErrEmptyURL
	}
	id, ok := ExtractVideoID(identifier)
	if !ok {
		return Resolved{}, ErrInvalidURL
	}

	info, err := r.fetchInfo(ctx, id)
	if err != nil {
		return Resolved{}, err
	}

	f, ok := SelectAudioFormat(info.Formats)
	if !ok {
		return Resolved{}, ErrNoAudioStream
	}

	title := info.Title
	if title == "" {
		title = fallbackTitle
	}

	logrus.WithFields(logrus.Fields{
		"function": "ResolveStreamURL",
		"video_id": id,
		"ext":      f.Ext,
		"acodec":   f.ACodec,
		"formats":  len(info.Formats),
	}).Info("Resolved audio stream")

	return Resolved{URL: f.URL, Title: title, Ext: f.Ext, Codec: f.ACodec}, nil
}

func (r *HTTPResolver) fetchInfo(ctx context.Context, id string) (*Info, error) {
	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+id)
	apiURL := r.Endpoint + "/api/info?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "fetchInfo",
		"video_id": id,
	}).Debug("Requesting video information")

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrFetchFailed, err)
	}
	return &info, nil
}

func (r *HTTPResolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// Open starts a GET for a resolved stream and returns its body. The client
// must not carry an overall timeout since the body is read for the length of
// the track; cancel ctx to abort.
func Open(ctx context.Context, client *http.Client, streamURL string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("open stream: %s", resp.Status)
	}
	return resp.Body, nil
}
