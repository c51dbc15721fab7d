package model

import "time"

// VideoRecord holds the metadata and statistics fetched for one recent video.
// Immutable once fetched.
type VideoRecord struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"publishedAt"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
}

// AgeInDays returns the video age at the given instant, floored at 1 to keep
// views/day well defined for same-day uploads.
func (v VideoRecord) AgeInDays(now time.Time) float64 {
	days := now.Sub(v.PublishedAt).Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}

// Comment is a single top-level comment fetched for a video.
type Comment struct {
	Text      string `json:"text"`
	Author    string `json:"author"`
	LikeCount int64  `json:"likeCount"`
}

// AudienceEngagement buckets for a video's engagement pattern.
const (
	EngagementLow        = "low"
	EngagementNormal     = "normal"
	EngagementHigh       = "high"
	EngagementSuspicious = "suspicious"
)

// EngagementMetrics are derived purely from a video's numeric statistics.
type EngagementMetrics struct {
	LikeToViewRatio    float64 `json:"likeToViewRatio"`
	CommentToViewRatio float64 `json:"commentToViewRatio"`
	EngagementVelocity float64 `json:"engagementVelocity"`
	ControversyScore   float64 `json:"controversyScore"`
	AudienceEngagement string  `json:"audienceEngagement"`
}

// CommentAnalysis summarizes the fetched top comments for a video.
type CommentAnalysis struct {
	TotalComments  int      `json:"totalComments"`
	AvgSentiment   float64  `json:"avgSentiment"`
	CommunityFlags []string `json:"communityFlags"`
}

// Classification is the per-video output of the classifier, from either the
// model path or the keyword fallback, never both.
type Classification struct {
	Scores        CategoryVector `json:"categoryScores"`
	RiskNotes     []string       `json:"riskNotes"`
	IsEducational bool           `json:"isEducational"`
}

// PerVideoScore is the full evidence record for one analyzed video.
type PerVideoScore struct {
	VideoID       string             `json:"videoId"`
	URL           string             `json:"url"`
	Title         string             `json:"title"`
	PublishedAt   time.Time          `json:"publishedAt"`
	ViewCount     int64              `json:"viewCount"`
	Scores        CategoryVector     `json:"categoryScores"`
	RiskNotes     []string           `json:"riskNotes"`
	IsEducational bool               `json:"isEducational"`
	Engagement    *EngagementMetrics `json:"engagementMetrics,omitempty"`
	Comments      *CommentAnalysis   `json:"commentAnalysis,omitempty"`
}
