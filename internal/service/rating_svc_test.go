package service

import (
	"math"
	"strings"
	"testing"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

func vector(pairs map[model.CategoryKey]float64) model.CategoryVector {
	v := model.NewCategoryVector()
	for k, s := range pairs {
		v[k] = s
	}
	return v
}

func TestRecencyWeight(t *testing.T) {
	tests := []struct {
		index int
		want  float64
	}{
		{0, 1.0},
		{1, 0.96},
		{4, 0.84},
	}
	for _, tt := range tests {
		if got := RecencyWeight(tt.index); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RecencyWeight(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestViewWeight(t *testing.T) {
	// 0 views: log10(10)/10 = 0.1
	if got := ViewWeight(0); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("ViewWeight(0) = %v, want 0.1", got)
	}
	// Monotonic in views
	if ViewWeight(1000) >= ViewWeight(1000000) {
		t.Error("ViewWeight should grow with views")
	}
}

func TestRiskMultiplier(t *testing.T) {
	tests := []struct {
		name string
		m    *model.EngagementMetrics
		want float64
	}{
		{"nil metrics", nil, 1.0},
		{"normal", &model.EngagementMetrics{AudienceEngagement: model.EngagementNormal}, 1.0},
		{"suspicious", &model.EngagementMetrics{AudienceEngagement: model.EngagementSuspicious}, 1.3},
		{"high controversy", &model.EngagementMetrics{AudienceEngagement: model.EngagementNormal, ControversyScore: 0.8}, 1.2},
		{"viral", &model.EngagementMetrics{AudienceEngagement: model.EngagementNormal, EngagementVelocity: 60000}, 1.1},
		{"all boosts stack", &model.EngagementMetrics{
			AudienceEngagement: model.EngagementSuspicious,
			ControversyScore:   0.9,
			EngagementVelocity: 100000,
		}, 1.6},
		{"controversy at threshold not boosted", &model.EngagementMetrics{AudienceEngagement: model.EngagementNormal, ControversyScore: 0.7}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RiskMultiplier(tt.m); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAgeFromScores(t *testing.T) {
	tests := []struct {
		name   string
		scores model.CategoryVector
		want   model.AgeBand
	}{
		{"all zero", model.NewCategoryVector(), model.AgeBandE},
		{"exactly 1.0 still E", vector(map[model.CategoryKey]float64{model.CategoryViolence: 1.0}), model.AgeBandE},
		{"just over 1", vector(map[model.CategoryKey]float64{model.CategoryViolence: 1.1}), model.AgeBandE10},
		{"exactly 2.0 still E10+", vector(map[model.CategoryKey]float64{model.CategoryLanguage: 2.0}), model.AgeBandE10},
		{"exactly 3.0 still T", vector(map[model.CategoryKey]float64{model.CategoryLanguage: 3.0}), model.AgeBandT},
		{"above 3", vector(map[model.CategoryKey]float64{model.CategoryViolence: 3.5}), model.AgeBand16Plus},
		{"max category decides", vector(map[model.CategoryKey]float64{
			model.CategoryViolence: 0.5,
			model.CategoryLanguage: 2.5,
		}), model.AgeBandT},
		{"gambling just over 1 forces 16+", vector(map[model.CategoryKey]float64{model.CategoryGambling: 1.1}), model.AgeBand16Plus},
		{"gambling exactly 1 does not force", vector(map[model.CategoryKey]float64{model.CategoryGambling: 1.0}), model.AgeBandE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeFromScores(tt.scores); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAgeFromScores_Monotonic(t *testing.T) {
	// Raising any single category score must never lower the band.
	order := map[model.AgeBand]int{
		model.AgeBandE:      0,
		model.AgeBandE10:    1,
		model.AgeBandT:      2,
		model.AgeBand16Plus: 3,
	}

	for _, k := range model.Categories {
		prev := -1
		for s := 0.0; s <= 4.0; s += 0.5 {
			band := AgeFromScores(vector(map[model.CategoryKey]float64{k: s}))
			if order[band] < prev {
				t.Fatalf("band regressed for %s at score %v: %s", k, s, band)
			}
			prev = order[band]
		}
	}
}

func TestMakeVerdict(t *testing.T) {
	t.Run("gambling override replaces sentence", func(t *testing.T) {
		scores := vector(map[model.CategoryKey]float64{model.CategoryGambling: 2.0})
		got := MakeVerdict(model.AgeBand16Plus, scores)
		want := "Suitable for 16+ only due to gambling content. Legal gambling is restricted to 18+ in most jurisdictions."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("names highest category", func(t *testing.T) {
		scores := vector(map[model.CategoryKey]float64{
			model.CategoryViolence: 0.5,
			model.CategoryLanguage: 2.5,
		})
		got := MakeVerdict(model.AgeBandT, scores)
		if got != "Better for 11–15, due to language." {
			t.Errorf("unexpected verdict: %q", got)
		}
	})

	t.Run("all zero ties to first category", func(t *testing.T) {
		got := MakeVerdict(model.AgeBandE, model.NewCategoryVector())
		if !strings.HasPrefix(got, "Suitable for ages 6 and under") {
			t.Errorf("unexpected verdict: %q", got)
		}
		if !strings.Contains(got, "due to action/violence") {
			t.Errorf("tie should resolve to violence, got %q", got)
		}
	})
}

func TestDeriveBullets(t *testing.T) {
	t.Run("all zero", func(t *testing.T) {
		got := DeriveBullets(model.NewCategoryVector())
		want := []string{"little to no violence", "little to no language", "little to no sexual content"}
		if len(got) != 3 {
			t.Fatalf("want 3 bullets, got %d", len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("bullet %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("top three by score", func(t *testing.T) {
		scores := vector(map[model.CategoryKey]float64{
			model.CategoryGambling:        3.5,
			model.CategoryLanguage:        2.0,
			model.CategoryViolence:        0.8,
			model.CategorySensitiveTopics: 0.2,
		})
		got := DeriveBullets(scores)
		want := []string{"strong gambling", "moderate language", "mild violence"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("bullet %d = %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestSeverityPhrase(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "little to no language"},
		{0.5, "little to no language"},
		{1, "mild language"},
		{2, "moderate language"},
		{3, "frequent language"},
		{3.1, "strong language"},
		{4, "strong language"},
	}
	for _, tt := range tests {
		if got := severityPhrase(tt.score, "language"); got != tt.want {
			t.Errorf("severityPhrase(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAggregateScores_IdenticalVideosPreserveScores(t *testing.T) {
	// When every video carries the same vector, weighting must not change
	// the channel-level result.
	scores := vector(map[model.CategoryKey]float64{
		model.CategoryViolence: 1.5,
		model.CategoryLanguage: 0.5,
	})

	videos := []model.PerVideoScore{
		{VideoID: "a", ViewCount: 100, Scores: scores.Clone()},
		{VideoID: "b", ViewCount: 1000000, Scores: scores.Clone(), Engagement: &model.EngagementMetrics{
			AudienceEngagement: model.EngagementSuspicious,
			ControversyScore:   0.9,
		}},
		{VideoID: "c", ViewCount: 50, Scores: scores.Clone()},
	}

	agg := AggregateScores(videos)
	for _, k := range model.Categories {
		if agg.Scores[k] != scores[k] {
			t.Errorf("category %s: got %v, want %v", k, agg.Scores[k], scores[k])
		}
	}
	if agg.AgeBand != model.AgeBandE10 {
		t.Errorf("age band = %s, want E10+", agg.AgeBand)
	}
}

func TestAggregateScores_RiskierVideosPullScoresUp(t *testing.T) {
	clean := model.NewCategoryVector()
	risky := vector(map[model.CategoryKey]float64{model.CategoryViolence: 4})

	unweighted := []model.PerVideoScore{
		{VideoID: "a", ViewCount: 1000, Scores: clean.Clone()},
		{VideoID: "b", ViewCount: 1000, Scores: risky.Clone()},
	}
	boosted := []model.PerVideoScore{
		{VideoID: "a", ViewCount: 1000, Scores: clean.Clone()},
		{VideoID: "b", ViewCount: 1000, Scores: risky.Clone(), Engagement: &model.EngagementMetrics{
			AudienceEngagement: model.EngagementSuspicious,
		}},
	}

	a := AggregateScores(unweighted)
	b := AggregateScores(boosted)
	if b.Scores[model.CategoryViolence] <= a.Scores[model.CategoryViolence] {
		t.Errorf("risk multiplier should raise the weighted violence score: %v vs %v",
			b.Scores[model.CategoryViolence], a.Scores[model.CategoryViolence])
	}
}

func TestAggregateScores_RoundedToOneDecimal(t *testing.T) {
	videos := []model.PerVideoScore{
		{VideoID: "a", ViewCount: 10, Scores: vector(map[model.CategoryKey]float64{model.CategoryLanguage: 1})},
		{VideoID: "b", ViewCount: 99999, Scores: vector(map[model.CategoryKey]float64{model.CategoryLanguage: 2})},
	}
	agg := AggregateScores(videos)
	got := agg.Scores[model.CategoryLanguage]
	if got != math.Round(got*10)/10 {
		t.Errorf("score %v not rounded to one decimal", got)
	}
}
