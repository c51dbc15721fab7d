// Package youtube wraps the YouTube Data API v3 for the analysis pipeline:
// resolving free-text queries to channel IDs, listing a channel's recent
// uploads, batch-fetching video statistics, and pulling top comments.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// QueryType classifies the shape of a raw search query. Also recorded in
// analytics.
type QueryType string

const (
	QueryTypeHandle     QueryType = "handle"
	QueryTypeVideoURL   QueryType = "video_url"
	QueryTypeChannelURL QueryType = "channel_url"
	QueryTypeSearchTerm QueryType = "search_term"
)

var (
	handleRe      = regexp.MustCompile(`^@[\w.-]+$`)
	channelPathRe = regexp.MustCompile(`/channel/(UC[\w-]+)`)

	videoURLRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
	}
)

// ClassifyQuery determines which lookup strategy applies to a raw query.
func ClassifyQuery(q string) QueryType {
	query := strings.TrimSpace(q)
	lower := strings.ToLower(query)

	switch {
	case handleRe.MatchString(query):
		return QueryTypeHandle
	case strings.Contains(lower, "youtube.com/watch") || strings.Contains(lower, "youtu.be/"):
		return QueryTypeVideoURL
	case strings.Contains(lower, "youtube.com/"):
		return QueryTypeChannelURL
	default:
		return QueryTypeSearchTerm
	}
}

// ExtractVideoID pulls the video ID out of a watch/short/embed URL.
// Returns "" if the URL does not match any known pattern.
func ExtractVideoID(raw string) string {
	for _, re := range videoURLRes {
		if m := re.FindStringSubmatch(raw); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// Client is an API-key-authenticated YouTube Data API client. Constructed
// once per process and injected into the pipeline.
type Client struct {
	svc *yt.Service
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ResolveChannelID maps a free-form query to a canonical channel ID.
// Returns "" when no channel can be resolved; single call chain per branch,
// no retries.
func (c *Client) ResolveChannelID(ctx context.Context, q string) (string, error) {
	query := strings.TrimSpace(q)

	switch ClassifyQuery(query) {
	case QueryTypeVideoURL:
		videoID := ExtractVideoID(query)
		if videoID == "" {
			return c.searchChannel(ctx, query)
		}
		resp, err := c.svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("video lookup: %w", err)
		}
		if len(resp.Items) == 0 {
			return "", nil
		}
		return resp.Items[0].Snippet.ChannelId, nil

	case QueryTypeChannelURL:
		if m := channelPathRe.FindStringSubmatch(query); len(m) > 1 {
			return m[1], nil
		}
		return c.searchChannel(ctx, query)

	default:
		// Handles and free text both go through channel search.
		return c.searchChannel(ctx, query)
	}
}

func (c *Client) searchChannel(ctx context.Context, q string) (string, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Type("channel").
		Q(q).
		MaxResults(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("channel search: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", nil
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

// ChannelInfo fetches the channel's display metadata.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*model.Channel, error) {
	resp, err := c.svc.Channels.List([]string{"snippet"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("channel info: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}

	ch := resp.Items[0]
	info := &model.Channel{
		ID:    ch.Id,
		Title: ch.Snippet.Title,
	}
	if custom := ch.Snippet.CustomUrl; custom != "" {
		if !strings.HasPrefix(custom, "@") {
			custom = "@" + custom
		}
		info.Handle = custom
	}
	if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
		info.Thumbnail = ch.Snippet.Thumbnails.Default.Url
	}
	return info, nil
}

// RecentVideoIDs lists the channel's most recent video IDs, newest first.
func (c *Client) RecentVideoIDs(ctx context.Context, channelID string, max int64) ([]string, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(max).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("recent videos: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

// VideoDetails fetches snippet and statistics for the whole ID batch in a
// single call, preserving the input order.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoRecord, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "statistics"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	byID := make(map[string]*yt.Video, len(resp.Items))
	for _, item := range resp.Items {
		byID[item.Id] = item
	}

	records := make([]model.VideoRecord, 0, len(videoIDs))
	for _, id := range videoIDs {
		item, ok := byID[id]
		if !ok {
			continue
		}
		rec := model.VideoRecord{
			VideoID:     item.Id,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			rec.PublishedAt = ts
		}
		if item.Statistics != nil {
			rec.ViewCount = int64(item.Statistics.ViewCount)
			rec.LikeCount = int64(item.Statistics.LikeCount)
			rec.CommentCount = int64(item.Statistics.CommentCount)
		}
		records = append(records, rec)
	}
	return records, nil
}

// TopComments fetches up to max top-level comments ordered by relevance.
// Disabled or restricted comments are not an error; the video simply has
// no comment evidence.
func (c *Client) TopComments(ctx context.Context, videoID string, max int64) ([]model.Comment, error) {
	resp, err := c.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		Order("relevance").
		MaxResults(max).
		Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == 403 || gerr.Code == 404) {
			return nil, nil
		}
		return nil, fmt.Errorf("comment threads: %w", err)
	}

	comments := make([]model.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, model.Comment{
			Text:      s.TextDisplay,
			Author:    s.AuthorDisplayName,
			LikeCount: s.LikeCount,
		})
	}
	return comments, nil
}
