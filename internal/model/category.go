package model

import "math"

// CategoryKey identifies one of the seven content-severity categories.
type CategoryKey string

const (
	CategoryViolence           CategoryKey = "violence"
	CategoryLanguage           CategoryKey = "language"
	CategorySexualContent      CategoryKey = "sexual_content"
	CategorySubstances         CategoryKey = "substances"
	CategoryGambling           CategoryKey = "gambling"
	CategorySensitiveTopics    CategoryKey = "sensitive_topics"
	CategoryCommercialPressure CategoryKey = "commercial_pressure"
)

// Categories lists every category key in declaration order. Tie breaking in
// verdicts and bullets depends on this order, so it must stay stable.
var Categories = []CategoryKey{
	CategoryViolence,
	CategoryLanguage,
	CategorySexualContent,
	CategorySubstances,
	CategoryGambling,
	CategorySensitiveTopics,
	CategoryCommercialPressure,
}

// CategoryVector maps every category to a severity score in [0, 4].
type CategoryVector map[CategoryKey]float64

// NewCategoryVector returns a vector with all seven categories set to zero.
func NewCategoryVector() CategoryVector {
	v := make(CategoryVector, len(Categories))
	for _, k := range Categories {
		v[k] = 0
	}
	return v
}

// Clone returns an independent copy of the vector.
func (v CategoryVector) Clone() CategoryVector {
	out := make(CategoryVector, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Clamp forces every score into [0, 4] in place and returns the vector.
func (v CategoryVector) Clamp() CategoryVector {
	for _, k := range Categories {
		v[k] = math.Max(0, math.Min(4, v[k]))
	}
	return v
}

// Max returns the highest-scoring category. Ties resolve to the category
// declared first in Categories.
func (v CategoryVector) Max() (CategoryKey, float64) {
	best := Categories[0]
	bestScore := v[best]
	for _, k := range Categories[1:] {
		if v[k] > bestScore {
			best, bestScore = k, v[k]
		}
	}
	return best, bestScore
}

// AllZero reports whether every category scores zero.
func (v CategoryVector) AllZero() bool {
	for _, k := range Categories {
		if v[k] != 0 {
			return false
		}
	}
	return true
}
