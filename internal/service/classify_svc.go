package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// TextCompleter is the language-model boundary: system instruction plus user
// text in, raw model text out. Satisfied by ai.Client; tests inject fakes.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const ratingPrompt = `You are an ESRB-style content rater for family suitability. Input is the title/description/transcript excerpt and top comments of a single YouTube video. Output strict JSON with per-category decimal scores from 0 (none) to 4 (extreme) for: violence, language, sexual_content, substances, gambling, sensitive_topics, commercial_pressure. Consider innuendo, hate slurs, graphic detail, drug instructions, gambling promotion, self-harm, and aggressive advertising reads. Prefer conservative ratings for ambiguity. Also include "riskNotes" (1-3 short strings, max 32 chars each) naming the dominant risks, and "isEducational" (true when the content is primarily educational: tutorials, lessons, documentaries). Output ONLY JSON.`

const strictRetrySuffix = "\n\nYour previous answer could not be parsed. Respond with ONLY a single JSON object containing the seven category scores, riskNotes, and isEducational. No prose, no code fences."

// classifyOutcome is the explicit state of the try-retry-fallback machine.
type classifyOutcome int

const (
	classifySuccess classifyOutcome = iota
	classifyRetryNeeded
	classifyFallback
)

// ClassifyService maps a content bundle to a classification, via the model
// with one strict retry, falling through to the keyword classifier. Either
// path produces a usable result; the request never fails on classification.
type ClassifyService struct {
	llm TextCompleter
	log zerolog.Logger
}

func NewClassifyService(llm TextCompleter, log zerolog.Logger) *ClassifyService {
	return &ClassifyService{llm: llm, log: log.With().Str("component", "classifier").Logger()}
}

// Classify returns the classification for one video and whether the keyword
// fallback produced it. The returned error is only ever a context error:
// per-video classification failure degrades, it does not abort.
func (s *ClassifyService) Classify(ctx context.Context, video model.VideoRecord, bundle string) (model.Classification, bool, error) {
	result, outcome := s.attempt(ctx, bundle)
	if outcome == classifyRetryNeeded {
		result, outcome = s.attempt(ctx, bundle+strictRetrySuffix)
		if outcome == classifyRetryNeeded {
			outcome = classifyFallback
		}
	}
	if err := ctx.Err(); err != nil {
		return model.Classification{}, false, err
	}

	if outcome == classifyFallback {
		s.log.Warn().Str("videoId", video.VideoID).Msg("model classification failed, using keyword fallback")
		return FallbackClassify(video.Title, video.Description), true, nil
	}

	// Discount applied exactly once, on the validated result.
	if result.IsEducational {
		applyEducationalDiscount(result.Scores)
	}
	if len(result.RiskNotes) == 0 {
		result.RiskNotes = deriveRiskNotes(result.Scores)
	}
	return result, false, nil
}

// attempt performs one model call and one parse/validation pass. A result is
// either fully valid or rejected; a partially valid payload is never
// accepted.
func (s *ClassifyService) attempt(ctx context.Context, input string) (model.Classification, classifyOutcome) {
	raw, err := s.llm.Complete(ctx, ratingPrompt, input)
	if err != nil {
		s.log.Debug().Err(err).Msg("model call failed")
		return model.Classification{}, classifyRetryNeeded
	}

	result, ok := parseClassification(raw)
	if !ok {
		return model.Classification{}, classifyRetryNeeded
	}
	return result, classifySuccess
}

type llmPayload struct {
	Violence           *float64 `json:"violence"`
	Language           *float64 `json:"language"`
	SexualContent      *float64 `json:"sexual_content"`
	Substances         *float64 `json:"substances"`
	Gambling           *float64 `json:"gambling"`
	SensitiveTopics    *float64 `json:"sensitive_topics"`
	CommercialPressure *float64 `json:"commercial_pressure"`
	RiskNotes          []string `json:"riskNotes"`
	IsEducational      bool     `json:"isEducational"`
}

// parseClassification extracts the JSON object from the raw model output and
// validates the schema: all seven categories present, each in [0, 4].
func parseClassification(raw string) (model.Classification, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return model.Classification{}, false
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return model.Classification{}, false
	}

	fields := map[model.CategoryKey]*float64{
		model.CategoryViolence:           payload.Violence,
		model.CategoryLanguage:           payload.Language,
		model.CategorySexualContent:      payload.SexualContent,
		model.CategorySubstances:         payload.Substances,
		model.CategoryGambling:           payload.Gambling,
		model.CategorySensitiveTopics:    payload.SensitiveTopics,
		model.CategoryCommercialPressure: payload.CommercialPressure,
	}

	scores := model.NewCategoryVector()
	for k, v := range fields {
		if v == nil || *v < 0 || *v > 4 {
			return model.Classification{}, false
		}
		scores[k] = *v
	}

	notes := payload.RiskNotes
	if len(notes) > 3 {
		notes = notes[:3]
	}
	for i, n := range notes {
		if len(n) > 32 {
			notes[i] = n[:32]
		}
	}

	return model.Classification{
		Scores:        scores,
		RiskNotes:     notes,
		IsEducational: payload.IsEducational,
	}, true
}
