package service

import (
	"math"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// Engagement heuristics. Pure functions of the numeric statistics; no
// external calls.
const (
	controversyCommentRatio     = 0.01
	controversyCommentRatioHigh = 0.02
	controversyLowLikeRatio     = 0.005
	controversyMinViews         = 1000

	suspiciousCommentRatio = 0.03
	suspiciousControversy  = 0.8
	highLikeRatio          = 0.05
	highCommentRatio       = 0.015
	lowLikeRatio           = 0.002
	lowCommentRatio        = 0.001

	flagWeight    = 0.1
	maxFlagWeight = 0.4
)

// ComputeEngagement derives popularity/controversy signals for one video.
// commentAnalysis may be nil when no comments were fetched.
func ComputeEngagement(views, likes, comments int64, ageInDays float64, commentAnalysis *model.CommentAnalysis) model.EngagementMetrics {
	m := model.EngagementMetrics{}

	if views > 0 {
		m.LikeToViewRatio = round4(float64(likes) / float64(views))
		m.CommentToViewRatio = round4(float64(comments) / float64(views))
	}

	if ageInDays < 1 {
		ageInDays = 1
	}
	m.EngagementVelocity = float64(views) / ageInDays

	m.ControversyScore = controversyScore(m.LikeToViewRatio, m.CommentToViewRatio, views, commentAnalysis)
	m.AudienceEngagement = audienceEngagement(m.LikeToViewRatio, m.CommentToViewRatio, m.ControversyScore, views)

	return m
}

// controversyScore is built additively from independent signals and capped
// at 1.
func controversyScore(likeRatio, commentRatio float64, views int64, ca *model.CommentAnalysis) float64 {
	score := 0.0

	if commentRatio > controversyCommentRatio {
		score += 0.3
	}
	if commentRatio > controversyCommentRatioHigh {
		score += 0.2
	}
	if likeRatio < controversyLowLikeRatio && views > controversyMinViews {
		score += 0.2
	}
	if ca != nil {
		if ca.AvgSentiment < 0 {
			score += 0.3
		}
		score += math.Min(float64(len(ca.CommunityFlags))*flagWeight, maxFlagWeight)
	}

	return math.Min(score, 1.0)
}

// audienceEngagement buckets the engagement pattern. Ordered checks: the
// first true branch wins, so suspicious takes priority over high and low.
func audienceEngagement(likeRatio, commentRatio, controversy float64, views int64) string {
	switch {
	case commentRatio > suspiciousCommentRatio || controversy > suspiciousControversy:
		return model.EngagementSuspicious
	case likeRatio > highLikeRatio || commentRatio > highCommentRatio:
		return model.EngagementHigh
	case likeRatio < lowLikeRatio && commentRatio < lowCommentRatio && views > controversyMinViews:
		return model.EngagementLow
	default:
		return model.EngagementNormal
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
