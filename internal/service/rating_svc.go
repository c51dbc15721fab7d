package service

import (
	"math"
	"sort"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// Aggregation weights. Kept as named constants and small pure functions so
// the formula is unit-testable without running the pipeline.
const (
	recencyDecayPerIndex = 0.04

	riskBoostSuspicious  = 0.3
	riskBoostControversy = 0.2
	riskBoostVelocity    = 0.1

	controversyBoostThreshold = 0.7
	velocityBoostThreshold    = 50000

	gamblingOverrideThreshold = 1.0
)

// RecencyWeight decays linearly with position in the recent-videos list;
// index 0 is the newest video.
func RecencyWeight(index int) float64 {
	return 1 - recencyDecayPerIndex*float64(index)
}

// ViewWeight grows logarithmically with the view count.
func ViewWeight(views int64) float64 {
	return math.Log10(float64(views)+10) / 10
}

// RiskMultiplier boosts a video's weight when its engagement pattern looks
// risky. Boosts are additive and independent.
func RiskMultiplier(m *model.EngagementMetrics) float64 {
	mult := 1.0
	if m == nil {
		return mult
	}
	if m.AudienceEngagement == model.EngagementSuspicious {
		mult += riskBoostSuspicious
	}
	if m.ControversyScore > controversyBoostThreshold {
		mult += riskBoostControversy
	}
	if m.EngagementVelocity > velocityBoostThreshold {
		mult += riskBoostVelocity
	}
	return mult
}

// VideoWeight is the total aggregation weight for the video at the given
// recency index.
func VideoWeight(index int, views int64, m *model.EngagementMetrics) float64 {
	return (RecencyWeight(index) + ViewWeight(views)) * RiskMultiplier(m)
}

// categoryAccumulator folds per-video scores into running sums. Exists only
// during one aggregation pass.
type categoryAccumulator struct {
	sum    map[model.CategoryKey]float64
	weight map[model.CategoryKey]float64
}

func newCategoryAccumulator() *categoryAccumulator {
	return &categoryAccumulator{
		sum:    make(map[model.CategoryKey]float64, len(model.Categories)),
		weight: make(map[model.CategoryKey]float64, len(model.Categories)),
	}
}

func (a *categoryAccumulator) add(scores model.CategoryVector, weight float64) {
	for _, k := range model.Categories {
		a.sum[k] += scores[k] * weight
		a.weight[k] += weight
	}
}

func (a *categoryAccumulator) averages() model.CategoryVector {
	out := model.NewCategoryVector()
	for _, k := range model.Categories {
		if a.weight[k] > 0 {
			out[k] = math.Round(a.sum[k]/a.weight[k]*10) / 10
		}
	}
	return out
}

// AggregateScores combines all per-video category scores into channel-level
// scores using recency, popularity and controversy weighting, then derives
// the age band, verdict and bullets.
func AggregateScores(videos []model.PerVideoScore) model.Aggregate {
	acc := newCategoryAccumulator()
	for i, v := range videos {
		acc.add(v.Scores, VideoWeight(i, v.ViewCount, v.Engagement))
	}

	scores := acc.averages()
	band := AgeFromScores(scores)

	return model.Aggregate{
		Scores:  scores,
		AgeBand: band,
		Verdict: MakeVerdict(band, scores),
		Bullets: DeriveBullets(scores),
	}
}

// AgeFromScores derives the age band from the channel-level vector.
// Gambling above 1.0 forces 16+ regardless of every other category: legal
// gambling age policy. Thresholds are inclusive, so exactly 1.0 still
// qualifies for E.
func AgeFromScores(scores model.CategoryVector) model.AgeBand {
	if scores[model.CategoryGambling] > gamblingOverrideThreshold {
		return model.AgeBand16Plus
	}

	under := func(limit float64) bool {
		for _, k := range model.Categories {
			if scores[k] > limit {
				return false
			}
		}
		return true
	}

	switch {
	case under(1):
		return model.AgeBandE
	case under(2):
		return model.AgeBandE10
	case under(3):
		return model.AgeBandT
	default:
		return model.AgeBand16Plus
	}
}

var categoryLabels = map[model.CategoryKey]string{
	model.CategoryViolence:           "violence",
	model.CategoryLanguage:           "language",
	model.CategorySexualContent:      "sexual content",
	model.CategorySubstances:         "alcohol/drugs",
	model.CategoryGambling:           "gambling",
	model.CategorySensitiveTopics:    "sensitive topics",
	model.CategoryCommercialPressure: "sponsorship/ads",
}

var verdictCauses = map[model.CategoryKey]string{
	model.CategoryViolence:           "due to action/violence",
	model.CategoryLanguage:           "due to language",
	model.CategorySexualContent:      "due to suggestive themes",
	model.CategorySubstances:         "due to alcohol/drugs",
	model.CategoryGambling:           "due to gambling content",
	model.CategorySensitiveTopics:    "due to sensitive topics",
	model.CategoryCommercialPressure: "due to heavy sponsorship",
}

// MakeVerdict renders the one-sentence summary: a fixed lead phrase per age
// band plus a cause clause naming the highest-scoring category. The gambling
// override replaces the whole sentence.
func MakeVerdict(band model.AgeBand, scores model.CategoryVector) string {
	if scores[model.CategoryGambling] > gamblingOverrideThreshold {
		return "Suitable for 16+ only due to gambling content. Legal gambling is restricted to 18+ in most jurisdictions."
	}

	var head string
	switch band {
	case model.AgeBandE:
		head = "Suitable for ages 6 and under"
	case model.AgeBandE10:
		head = "Generally OK for 7–10"
	case model.AgeBandT:
		head = "Better for 11–15"
	default:
		head = "Suitable for 16+ only"
	}

	top, _ := scores.Max()
	return head + ", " + verdictCauses[top] + "."
}

// severityPhrase renders one score through the severity→phrase table.
func severityPhrase(score float64, label string) string {
	switch {
	case score <= 0.5:
		return "little to no " + label
	case score <= 1:
		return "mild " + label
	case score <= 2:
		return "moderate " + label
	case score <= 3:
		return "frequent " + label
	default:
		return "strong " + label
	}
}

// DeriveBullets returns the top three categories rendered as severity
// phrases. Ties keep declaration order.
func DeriveBullets(scores model.CategoryVector) []string {
	keys := make([]model.CategoryKey, len(model.Categories))
	copy(keys, model.Categories)
	sort.SliceStable(keys, func(i, j int) bool {
		return scores[keys[i]] > scores[keys[j]]
	})

	bullets := make([]string, 0, 3)
	for _, k := range keys[:3] {
		bullets = append(bullets, severityPhrase(scores[k], categoryLabels[k]))
	}
	return bullets
}
