package service

import (
	"strings"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// Bundle limits. Per-section character caps bound the classification cost
// per video.
const (
	TranscriptCoverageMin = 0.4 // minimum share of videos with transcripts before transcript text is trusted
	MinCommentsForBundle  = 3
	MaxBundleComments     = 10

	descriptionCharCap = 2000
	transcriptCharCap  = 6000
	commentCharCap     = 200
	bundleCharCap      = 12000
)

// BuildBundle assembles the per-video evidence text. Title and description
// are always present; transcript text only when the channel-wide coverage
// gate passed; comments only when at least MinCommentsForBundle are
// available.
func BuildBundle(video model.VideoRecord, transcriptText string, includeTranscript bool, comments []model.Comment) string {
	var b strings.Builder

	b.WriteString(video.Title)
	b.WriteString("\n")
	b.WriteString(truncate(video.Description, descriptionCharCap))

	if includeTranscript && transcriptText != "" {
		b.WriteString("\n\nTranscript excerpt:\n")
		b.WriteString(truncate(transcriptText, transcriptCharCap))
	}

	if len(comments) >= MinCommentsForBundle {
		b.WriteString("\n\nTop comments:\n")
		n := len(comments)
		if n > MaxBundleComments {
			n = MaxBundleComments
		}
		for _, c := range comments[:n] {
			b.WriteString("- ")
			b.WriteString(truncate(c.Text, commentCharCap))
			b.WriteString("\n")
		}
	}

	return truncate(strings.TrimSpace(b.String()), bundleCharCap)
}

// Sentiment lexicon for the deterministic comment analysis. Coarse on
// purpose: the signal feeds the controversy heuristic, not the rating
// itself.
var (
	positiveWords = []string{
		"love", "great", "awesome", "amazing", "best", "funny", "helpful", "thank",
	}
	negativeWords = []string{
		"hate", "awful", "terrible", "worst", "disgusting", "trash", "boring", "cringe",
	}
	communityFlagPhrases = []string{
		"clickbait", "fake", "scam", "misleading", "not for kids", "inappropriate", "stolen content",
	}
)

// AnalyzeComments derives sentiment and community-flag signals from the
// fetched top comments. Returns nil when there are no comments.
func AnalyzeComments(comments []model.Comment) *model.CommentAnalysis {
	if len(comments) == 0 {
		return nil
	}

	sentimentSum := 0.0
	flagged := make(map[string]bool)

	for _, c := range comments {
		text := strings.ToLower(c.Text)
		sentimentSum += commentSentiment(text)
		for _, phrase := range communityFlagPhrases {
			if strings.Contains(text, phrase) {
				flagged[phrase] = true
			}
		}
	}

	flags := make([]string, 0, len(flagged))
	for _, phrase := range communityFlagPhrases {
		if flagged[phrase] {
			flags = append(flags, phrase)
		}
	}

	return &model.CommentAnalysis{
		TotalComments:  len(comments),
		AvgSentiment:   round4(sentimentSum / float64(len(comments))),
		CommunityFlags: flags,
	}
}

// commentSentiment scores one comment in [-1, 1] from lexicon hits.
func commentSentiment(lowered string) float64 {
	score := 0.0
	for _, w := range positiveWords {
		if strings.Contains(lowered, w) {
			score++
			break
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lowered, w) {
			score--
			break
		}
	}
	return score
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
