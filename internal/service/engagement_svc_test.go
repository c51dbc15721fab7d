package service

import (
	"math"
	"testing"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

func TestComputeEngagement_Ratios(t *testing.T) {
	m := ComputeEngagement(1000, 50, 10, 10, nil)

	if m.LikeToViewRatio != 0.05 {
		t.Errorf("likeToViewRatio = %v, want 0.05", m.LikeToViewRatio)
	}
	if m.CommentToViewRatio != 0.01 {
		t.Errorf("commentToViewRatio = %v, want 0.01", m.CommentToViewRatio)
	}
	if m.EngagementVelocity != 100 {
		t.Errorf("engagementVelocity = %v, want 100", m.EngagementVelocity)
	}
}

func TestComputeEngagement_ZeroViews(t *testing.T) {
	m := ComputeEngagement(0, 0, 0, 5, nil)
	if m.LikeToViewRatio != 0 || m.CommentToViewRatio != 0 {
		t.Errorf("zero views should yield zero ratios, got %v/%v", m.LikeToViewRatio, m.CommentToViewRatio)
	}
}

func TestComputeEngagement_SameDayUploadFloorsAge(t *testing.T) {
	m := ComputeEngagement(5000, 0, 0, 0.3, nil)
	if m.EngagementVelocity != 5000 {
		t.Errorf("velocity = %v, want 5000 (age floored at 1 day)", m.EngagementVelocity)
	}
}

func TestComputeEngagement_RatiosRounded(t *testing.T) {
	// 1/3 must come back as 0.3333
	m := ComputeEngagement(3, 1, 1, 10, nil)
	if m.LikeToViewRatio != 0.3333 {
		t.Errorf("likeToViewRatio = %v, want 0.3333", m.LikeToViewRatio)
	}
}

func TestControversyScore(t *testing.T) {
	tests := []struct {
		name         string
		likeRatio    float64
		commentRatio float64
		views        int64
		ca           *model.CommentAnalysis
		want         float64
	}{
		{"quiet video", 0.05, 0.001, 500, nil, 0},
		{"elevated comments", 0.05, 0.015, 10000, nil, 0.3},
		{"very high comments stacks", 0.05, 0.025, 10000, nil, 0.5},
		{"low likes on popular video", 0.001, 0.001, 10000, nil, 0.2},
		{"negative sentiment", 0.05, 0.001, 500, &model.CommentAnalysis{AvgSentiment: -0.5}, 0.3},
		{"flags weighted", 0.05, 0.001, 500, &model.CommentAnalysis{CommunityFlags: []string{"fake", "scam"}}, 0.2},
		{"flag weight capped", 0.05, 0.001, 500, &model.CommentAnalysis{
			CommunityFlags: []string{"clickbait", "fake", "scam", "misleading", "inappropriate", "stolen content"},
		}, 0.4},
		{"total capped at 1", 0.001, 0.025, 10000, &model.CommentAnalysis{
			AvgSentiment:   -0.8,
			CommunityFlags: []string{"clickbait", "fake", "scam", "misleading"},
		}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := controversyScore(tt.likeRatio, tt.commentRatio, tt.views, tt.ca)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAudienceEngagement(t *testing.T) {
	tests := []struct {
		name         string
		likeRatio    float64
		commentRatio float64
		controversy  float64
		views        int64
		want         string
	}{
		{"suspicious by comment flood", 0.05, 0.04, 0, 10000, model.EngagementSuspicious},
		{"suspicious by controversy", 0.05, 0.001, 0.9, 10000, model.EngagementSuspicious},
		{"high by likes", 0.06, 0.001, 0, 10000, model.EngagementHigh},
		{"high by comments", 0.01, 0.02, 0, 10000, model.EngagementHigh},
		{"low on popular video", 0.001, 0.0005, 0, 10000, model.EngagementLow},
		{"small video never low", 0.001, 0.0005, 0, 500, model.EngagementNormal},
		{"normal", 0.01, 0.005, 0, 10000, model.EngagementNormal},
		// suspicious wins even when the like ratio also qualifies as high
		{"suspicious beats high", 0.08, 0.04, 0, 10000, model.EngagementSuspicious},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := audienceEngagement(tt.likeRatio, tt.commentRatio, tt.controversy, tt.views)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
