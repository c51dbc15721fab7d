package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// Deterministic keyword-rule classifier. Used when the model path fails
// twice; identical input text always produces identical output.
const (
	fallbackMatchScore   = 3 // direct keyword presence
	fallbackDefaultScore = 1 // no evidence still assumes mild/ambient content
	educationalDiscount  = 1
)

// keywordRule scores one category when any of its keywords appears in the
// lowercased title+description text. Substances is split into drug and
// alcohol sub-lists so alcohol-specific policy keeps its own keyword set.
type keywordRule struct {
	category model.CategoryKey
	keywords []string
}

var fallbackRules = []keywordRule{
	{model.CategoryGambling, []string{
		"slots", "jackpot", "casino", "betting", "poker", "roulette", "gamble",
	}},
	{model.CategoryLanguage, []string{
		"fuck", "shit", "bitch", "asshole", "wtf", "damn", "swearing", "cursing",
	}},
	{model.CategoryViolence, []string{
		"fight", "blood", "weapon", "gun", "kill", "shooting", "war", "brutal",
	}},
	{model.CategorySexualContent, []string{
		"sexy", "nsfw", "onlyfans", "stripper", "erotic", "lingerie",
	}},
	// substances: drugs
	{model.CategorySubstances, []string{
		"weed", "cocaine", "drugs", "getting high", "vape", "smoking",
	}},
	// substances: alcohol sub-list
	{model.CategorySubstances, []string{
		"beer", "vodka", "whiskey", "drunk", "wine tasting", "alcohol",
	}},
	{model.CategorySensitiveTopics, []string{
		"suicide", "self-harm", "depression", "abuse", "terrorism", "tragedy",
	}},
	{model.CategoryCommercialPressure, []string{
		"use code", "sponsored", "giveaway", "buy now", "merch drop", "limited offer",
	}},
}

// betPatternRe catches wager phrasing like "bet $500" that plain keyword
// lists miss.
var betPatternRe = regexp.MustCompile(`bet \$?\d`)

var educationalKeywords = []string{
	"tutorial", "lesson", "how to", "learn", "course", "explained",
	"documentary", "science", "history", "study",
}

// FallbackClassify scans title+description against the keyword rule table.
// Matched categories score 3, unmatched ones floor at 1.
func FallbackClassify(title, description string) model.Classification {
	text := strings.ToLower(title + " " + description)

	scores := model.NewCategoryVector()
	for _, k := range model.Categories {
		scores[k] = fallbackDefaultScore
	}

	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				scores[rule.category] = fallbackMatchScore
				break
			}
		}
	}
	if betPatternRe.MatchString(text) {
		scores[model.CategoryGambling] = fallbackMatchScore
	}

	result := model.Classification{Scores: scores}

	for _, kw := range educationalKeywords {
		if strings.Contains(text, kw) {
			result.IsEducational = true
			break
		}
	}
	if result.IsEducational {
		applyEducationalDiscount(result.Scores)
	}

	result.RiskNotes = deriveRiskNotes(result.Scores)
	return result
}

// applyEducationalDiscount subtracts one severity point from every category,
// floored at zero. Callers apply it exactly once per video, never stacked.
func applyEducationalDiscount(scores model.CategoryVector) {
	for _, k := range model.Categories {
		scores[k] -= educationalDiscount
		if scores[k] < 0 {
			scores[k] = 0
		}
	}
}

// deriveRiskNotes builds 1–2 short notes from the top-scoring categories
// using the category×severity label table. An all-zero vector yields the
// single "family friendly" note.
func deriveRiskNotes(scores model.CategoryVector) []string {
	if scores.AllZero() {
		return []string{"family friendly"}
	}

	keys := make([]model.CategoryKey, len(model.Categories))
	copy(keys, model.Categories)
	sort.SliceStable(keys, func(i, j int) bool {
		return scores[keys[i]] > scores[keys[j]]
	})

	notes := make([]string, 0, 2)
	for _, k := range keys[:2] {
		if scores[k] <= 0 {
			break
		}
		notes = append(notes, severityPhrase(scores[k], categoryLabels[k]))
	}
	return notes
}
