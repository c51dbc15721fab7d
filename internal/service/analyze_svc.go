package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// MetadataAPI is the metadata-service boundary consumed by the pipeline.
// Satisfied by youtube.Client; tests inject fakes.
type MetadataAPI interface {
	ResolveChannelID(ctx context.Context, query string) (string, error)
	ChannelInfo(ctx context.Context, channelID string) (*model.Channel, error)
	RecentVideoIDs(ctx context.Context, channelID string, max int64) ([]string, error)
	VideoDetails(ctx context.Context, videoIDs []string) ([]model.VideoRecord, error)
	TopComments(ctx context.Context, videoID string, max int64) ([]model.Comment, error)
}

// TranscriptFetcher fetches caption text for a single video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Terminal pipeline failures. Everything else degrades per video.
var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNoVideosFound   = errors.New("no videos found")
)

// fetchBatchSize bounds peak external-call concurrency. Batches run
// sequentially; work inside a batch runs in parallel.
const fetchBatchSize = 3

const maxCommentsFetch = 20

// AnalyzeService runs the full classification-and-aggregation pipeline for
// one request. No state is shared across requests.
type AnalyzeService struct {
	meta        MetadataAPI
	transcripts TranscriptFetcher
	classifier  *ClassifyService
	maxVideos   int
	log         zerolog.Logger
	now         func() time.Time
}

func NewAnalyzeService(meta MetadataAPI, transcripts TranscriptFetcher, classifier *ClassifyService, maxVideos int, log zerolog.Logger) *AnalyzeService {
	return &AnalyzeService{
		meta:        meta,
		transcripts: transcripts,
		classifier:  classifier,
		maxVideos:   maxVideos,
		log:         log.With().Str("component", "analyzer").Logger(),
		now:         time.Now,
	}
}

// videoEvidence is the per-video raw material gathered in the first pass.
// Empty fields mean the sub-fetch failed; that is degradation, not an error.
type videoEvidence struct {
	transcript string
	comments   []model.Comment
}

// AnalysisResult pairs the API payload with pipeline bookkeeping the
// handler needs for metrics and analytics.
type AnalysisResult struct {
	Response      *model.AnalyzeResponse
	FallbackCount int
}

// Analyze resolves the query and produces the channel verdict. The caller's
// context deadline bounds the whole pipeline; on expiry in-flight work is
// abandoned and the context error is returned, never a partial payload.
func (s *AnalyzeService) Analyze(ctx context.Context, query string) (*AnalysisResult, error) {
	channelID, err := s.meta.ResolveChannelID(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve channel: %w", err)
	}
	if channelID == "" {
		return nil, ErrChannelNotFound
	}

	var (
		channel  *model.Channel
		videoIDs []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ch, err := s.meta.ChannelInfo(gctx, channelID)
		if err != nil {
			return fmt.Errorf("channel info: %w", err)
		}
		channel = ch
		return nil
	})
	g.Go(func() error {
		ids, err := s.meta.RecentVideoIDs(gctx, channelID, int64(s.maxVideos))
		if err != nil {
			return fmt.Errorf("recent video ids: %w", err)
		}
		videoIDs = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return nil, ErrNoVideosFound
	}

	records, err := s.meta.VideoDetails(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoVideosFound
	}

	// First pass: gather transcripts and comments for every video, then
	// decide transcript inclusion from the final coverage count. Deciding
	// mid-flight would make inclusion batch-order dependent.
	evidence := s.gatherEvidence(ctx, records)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	available := 0
	for _, ev := range evidence {
		if ev.transcript != "" {
			available++
		}
	}
	ratio := float64(available) / float64(len(records))
	coverage := model.TranscriptCoverage{
		Available:  available,
		Total:      len(records),
		Percentage: int(math.Round(ratio * 100)),
		Sufficient: ratio >= TranscriptCoverageMin,
	}

	videos, fallbackCount, err := s.classifyAll(ctx, records, evidence, coverage.Sufficient)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if fallbackCount > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Classification failed for %d of %d videos. Conservative keyword-based ratings were used for those videos.",
			fallbackCount, len(videos)))
	}
	if !coverage.Sufficient {
		missing := coverage.Total - coverage.Available
		warnings = append(warnings, fmt.Sprintf(
			"%d transcripts missing (out of %d videos analyzed). Only %d%% of videos had transcripts available, which may result in less accurate content analysis since spoken content couldn't be evaluated.",
			missing, coverage.Total, coverage.Percentage))
	}

	resp := &model.AnalyzeResponse{
		Query:              query,
		Channel:            channel,
		Videos:             videos,
		Aggregate:          AggregateScores(videos),
		Warnings:           warnings,
		TranscriptCoverage: coverage,
	}
	return &AnalysisResult{Response: resp, FallbackCount: fallbackCount}, nil
}

// gatherEvidence fetches transcript and top comments per video in fixed-size
// batches. The two fetches for a video run in parallel and either may fail
// without aborting the video; failures degrade to empty evidence.
func (s *AnalyzeService) gatherEvidence(ctx context.Context, records []model.VideoRecord) []videoEvidence {
	evidence := make([]videoEvidence, len(records))

	for start := 0; start < len(records); start += fetchBatchSize {
		end := min(start+fetchBatchSize, len(records))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				videoID := records[i].VideoID

				var inner sync.WaitGroup
				inner.Add(2)
				go func() {
					defer inner.Done()
					text, err := s.transcripts.Fetch(ctx, videoID)
					if err != nil {
						s.log.Debug().Str("videoId", videoID).Err(err).Msg("no transcript")
						return
					}
					evidence[i].transcript = text
				}()
				go func() {
					defer inner.Done()
					comments, err := s.meta.TopComments(ctx, videoID, maxCommentsFetch)
					if err != nil {
						s.log.Debug().Str("videoId", videoID).Err(err).Msg("no comments")
						return
					}
					evidence[i].comments = comments
				}()
				inner.Wait()
			}(i)
		}
		wg.Wait()

		if ctx.Err() != nil {
			return evidence
		}
	}
	return evidence
}

// classifyAll runs classification and engagement analysis per video in
// fixed-size batches. Each worker writes only its own slot; the classifier
// call is awaited per video before that video's record is built.
func (s *AnalyzeService) classifyAll(ctx context.Context, records []model.VideoRecord, evidence []videoEvidence, includeTranscripts bool) ([]model.PerVideoScore, int, error) {
	videos := make([]model.PerVideoScore, len(records))
	fellBack := make([]bool, len(records))
	errs := make([]error, len(records))
	now := s.now()

	for start := 0; start < len(records); start += fetchBatchSize {
		end := min(start+fetchBatchSize, len(records))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := records[i]
				ev := evidence[i]

				bundle := BuildBundle(rec, ev.transcript, includeTranscripts, ev.comments)
				classification, usedFallback, err := s.classifier.Classify(ctx, rec, bundle)
				if err != nil {
					errs[i] = err
					return
				}
				fellBack[i] = usedFallback

				commentAnalysis := AnalyzeComments(ev.comments)
				engagement := ComputeEngagement(rec.ViewCount, rec.LikeCount, rec.CommentCount, rec.AgeInDays(now), commentAnalysis)

				videos[i] = model.PerVideoScore{
					VideoID:       rec.VideoID,
					URL:           "https://www.youtube.com/watch?v=" + rec.VideoID,
					Title:         rec.Title,
					PublishedAt:   rec.PublishedAt,
					ViewCount:     rec.ViewCount,
					Scores:        classification.Scores,
					RiskNotes:     classification.RiskNotes,
					IsEducational: classification.IsEducational,
					Engagement:    &engagement,
					Comments:      commentAnalysis,
				}
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, 0, err
		}
	}

	fallbackCount := 0
	for _, fb := range fellBack {
		if fb {
			fallbackCount++
		}
	}
	return videos, fallbackCount, nil
}
