// Package videometa provides a client for video-platform metadata:
// title, description, thumbnail and caption tracks by video id.
package videometa

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Video holds the metadata for one hosted video.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	ChannelTitle string `json:"channel_title"`
}

// CaptionTrack identifies one available caption track.
type CaptionTrack struct {
	Language string `json:"language"`
	Name     string `json:"name"`
}

// Client defines the video metadata operations the extraction engine
// needs. Caption lookups are best-effort for callers: a failure should
// be treated as "no captions".
type Client interface {
	// Video fetches title, description and thumbnail for a video id.
	Video(ctx context.Context, id string) (*Video, error)
	// CaptionTracks lists the available caption tracks for a video id.
	CaptionTracks(ctx context.Context, id string) ([]CaptionTrack, error)
	// Captions fetches the caption text for a video id and language.
	Captions(ctx context.Context, id, language string) (string, error)
}

// Option configures the HTTP client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithTimedTextURL sets a custom caption endpoint base URL (for testing).
func WithTimedTextURL(u string) Option {
	return func(c *httpClient) { c.timedTextURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.hc = hc }
}

type httpClient struct {
	key          string
	baseURL      string
	timedTextURL string
	hc           *http.Client
}

// New creates a Client backed by the YouTube Data API for metadata and
// the public timedtext endpoint for captions.
func New(apiKey string, opts ...Option) Client {
	c := &httpClient{
		key:          apiKey,
		baseURL:      "https://www.googleapis.com/youtube/v3",
		timedTextURL: "https://video.google.com/timedtext",
		hc:           &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *httpClient) Video(ctx context.Context, id string) (*Video, error) {
	endpoint := fmt.Sprintf("%s/videos?part=snippet&id=%s&key=%s",
		c.baseURL, url.QueryEscape(id), url.QueryEscape(c.key))

	var resp videoListResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, eris.Wrap(err, "videometa: fetch video")
	}
	if len(resp.Items) == 0 {
		return nil, eris.Errorf("videometa: video not found: %s", id)
	}

	item := resp.Items[0]
	v := &Video{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
	}
	for _, size := range []string{"maxres", "high", "medium", "default"} {
		if t, ok := item.Snippet.Thumbnails[size]; ok && t.URL != "" {
			v.ThumbnailURL = t.URL
			break
		}
	}
	return v, nil
}

type timedTextTrackList struct {
	Tracks []struct {
		LangCode string `xml:"lang_code,attr"`
		Name     string `xml:"name,attr"`
	} `xml:"track"`
}

func (c *httpClient) CaptionTracks(ctx context.Context, id string) ([]CaptionTrack, error) {
	endpoint := fmt.Sprintf("%s?type=list&v=%s", c.timedTextURL, url.QueryEscape(id))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, eris.Wrap(err, "videometa: list caption tracks")
	}
	var list timedTextTrackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, eris.Wrap(err, "videometa: decode track list")
	}
	tracks := make([]CaptionTrack, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		tracks = append(tracks, CaptionTrack{Language: t.LangCode, Name: t.Name})
	}
	return tracks, nil
}

type timedTextTranscript struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (c *httpClient) Captions(ctx context.Context, id, language string) (string, error) {
	endpoint := fmt.Sprintf("%s?v=%s&lang=%s", c.timedTextURL, url.QueryEscape(id), url.QueryEscape(language))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", eris.Wrap(err, "videometa: fetch captions")
	}
	var transcript timedTextTranscript
	if err := xml.Unmarshal(body, &transcript); err != nil {
		return "", eris.Wrap(err, "videometa: decode captions")
	}
	var sb strings.Builder
	for _, t := range transcript.Texts {
		line := strings.TrimSpace(t.Value)
		if line == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(line)
	}
	return sb.String(), nil
}

func (c *httpClient) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	return eris.Wrap(json.Unmarshal(body, out), "decode response")
}

func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "build request")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(snippet))
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
