// Package transcript fetches spoken-content text for a video from the
// public timedtext caption endpoint. Transcript availability is best-effort:
// many videos have no captions, and a failed fetch degrades to "no
// transcript" upstream rather than failing the video.
package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://video.google.com/timedtext"

// ErrNotAvailable means the video has no caption track in the requested
// language.
var ErrNotAvailable = errors.New("transcript not available")

type Client struct {
	httpClient *http.Client
	baseURL    string
	lang       string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		baseURL:    defaultBaseURL,
		lang:       "en",
	}
}

// NewClientWithBase is used by tests to point at a local server.
func NewClientWithBase(httpClient *http.Client, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, lang: "en"}
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch returns the full caption text for a video joined into one string.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, error) {
	u := fmt.Sprintf("%s?lang=%s&v=%s", c.baseURL, url.QueryEscape(c.lang), url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("timedtext fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext fetch: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("timedtext read: %w", err)
	}
	if len(body) == 0 {
		// The endpoint answers 200 with an empty body when no track exists.
		return "", ErrNotAvailable
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("timedtext parse: %w", err)
	}
	if len(doc.Texts) == 0 {
		return "", ErrNotAvailable
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		if line := strings.TrimSpace(html.UnescapeString(t.Body)); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		return "", ErrNotAvailable
	}
	return strings.Join(parts, " "), nil
}
