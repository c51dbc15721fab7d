package service

import (
	"strings"
	"testing"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

func makeComments(texts ...string) []model.Comment {
	out := make([]model.Comment, len(texts))
	for i, txt := range texts {
		out[i] = model.Comment{Text: txt, Author: "someone"}
	}
	return out
}

func TestBuildBundle_TitleAndDescriptionAlwaysPresent(t *testing.T) {
	video := model.VideoRecord{Title: "My Video", Description: "About things"}
	bundle := BuildBundle(video, "", false, nil)

	if !strings.Contains(bundle, "My Video") || !strings.Contains(bundle, "About things") {
		t.Errorf("bundle missing title or description: %q", bundle)
	}
}

func TestBuildBundle_TranscriptGate(t *testing.T) {
	video := model.VideoRecord{Title: "T", Description: "D"}

	withGate := BuildBundle(video, "spoken words here", true, nil)
	if !strings.Contains(withGate, "Transcript excerpt:") || !strings.Contains(withGate, "spoken words here") {
		t.Errorf("transcript should be included when gate passes: %q", withGate)
	}

	withoutGate := BuildBundle(video, "spoken words here", false, nil)
	if strings.Contains(withoutGate, "spoken words") {
		t.Errorf("transcript must be excluded when gate fails: %q", withoutGate)
	}
}

func TestBuildBundle_CommentThreshold(t *testing.T) {
	video := model.VideoRecord{Title: "T", Description: "D"}

	tooFew := BuildBundle(video, "", false, makeComments("one", "two"))
	if strings.Contains(tooFew, "Top comments:") {
		t.Errorf("fewer than %d comments should be omitted: %q", MinCommentsForBundle, tooFew)
	}

	enough := BuildBundle(video, "", false, makeComments("one", "two", "three"))
	if !strings.Contains(enough, "Top comments:") || !strings.Contains(enough, "- three") {
		t.Errorf("comments missing from bundle: %q", enough)
	}
}

func TestBuildBundle_CommentCap(t *testing.T) {
	texts := make([]string, 15)
	for i := range texts {
		texts[i] = "comment"
	}
	bundle := BuildBundle(model.VideoRecord{Title: "T"}, "", false, makeComments(texts...))

	if got := strings.Count(bundle, "- comment"); got != MaxBundleComments {
		t.Errorf("bundle has %d comments, want %d", got, MaxBundleComments)
	}
}

func TestBuildBundle_SectionCaps(t *testing.T) {
	video := model.VideoRecord{
		Title:       "T",
		Description: strings.Repeat("d", descriptionCharCap+500),
	}
	bundle := BuildBundle(video, strings.Repeat("t", transcriptCharCap+500), true, nil)

	if strings.Count(bundle, "d") > descriptionCharCap {
		t.Error("description not truncated")
	}
	if strings.Count(bundle, "t") > transcriptCharCap+10 {
		t.Error("transcript not truncated")
	}
	if len(bundle) > bundleCharCap {
		t.Errorf("bundle length %d exceeds cap %d", len(bundle), bundleCharCap)
	}
}

func TestAnalyzeComments_NilForEmpty(t *testing.T) {
	if got := AnalyzeComments(nil); got != nil {
		t.Errorf("want nil for no comments, got %v", got)
	}
}

func TestAnalyzeComments_Sentiment(t *testing.T) {
	comments := makeComments(
		"love this channel",
		"absolute trash",
		"great and awesome",
	)
	got := AnalyzeComments(comments)

	if got.TotalComments != 3 {
		t.Errorf("totalComments = %d, want 3", got.TotalComments)
	}
	// +1, -1, +1 averaged over 3, rounded to 4 decimals
	if got.AvgSentiment != 0.3333 {
		t.Errorf("avgSentiment = %v, want 0.3333", got.AvgSentiment)
	}
}

func TestAnalyzeComments_MixedCommentIsNeutral(t *testing.T) {
	got := AnalyzeComments(makeComments("love the idea but the execution is terrible"))
	if got.AvgSentiment != 0 {
		t.Errorf("avgSentiment = %v, want 0", got.AvgSentiment)
	}
}

func TestAnalyzeComments_CommunityFlags(t *testing.T) {
	comments := makeComments(
		"this is such clickbait",
		"total scam, do not trust",
		"SCAM SCAM SCAM",
		"this is not for kids at all",
	)
	got := AnalyzeComments(comments)

	// Deduplicated, in the fixed phrase order
	want := []string{"clickbait", "scam", "not for kids"}
	if len(got.CommunityFlags) != len(want) {
		t.Fatalf("flags = %v, want %v", got.CommunityFlags, want)
	}
	for i := range want {
		if got.CommunityFlags[i] != want[i] {
			t.Errorf("flag %d = %q, want %q", i, got.CommunityFlags[i], want[i])
		}
	}
}
