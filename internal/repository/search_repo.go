package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dev-jianomads/ytsafe/internal/model"
)

// SearchRepo persists per-request analytics rows and serves the aggregated
// stats queries. The pipeline itself never touches it: recording happens
// fire-and-forget after a request completes or fails.
type SearchRepo struct {
	pool *pgxpool.Pool
}

func NewSearchRepo(pool *pgxpool.Pool) *SearchRepo {
	return &SearchRepo{pool: pool}
}

// Insert records one analysis attempt.
func (r *SearchRepo) Insert(ctx context.Context, rec *model.SearchRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO search_analytics (
			query, query_type, channel_id, channel_name, age_band,
			video_count, transcript_coverage_percent, warnings_count,
			high_controversy_videos_count, suspicious_engagement_videos_count,
			avg_engagement_velocity, analysis_success, error_type,
			session_id, user_agent_hash, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		rec.Query, rec.QueryType, rec.ChannelID, rec.ChannelName, rec.AgeBand,
		rec.VideoCount, rec.TranscriptCoveragePct, rec.WarningsCount,
		rec.HighControversyCount, rec.SuspiciousEngagementCount,
		rec.AvgEngagementVelocity, rec.Success, rec.ErrorType,
		rec.SessionID, rec.UserAgentHash, rec.CreatedAt,
	)
	return err
}

// Summary aggregates successful searches since the given time.
func (r *SearchRepo) Summary(ctx context.Context, since time.Time) (*model.StatsSummary, error) {
	summary := &model.StatsSummary{
		RatingDistribution: map[string]int{"E": 0, "E10+": 0, "T": 0, "16+": 0},
	}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT channel_id)
		FROM search_analytics
		WHERE analysis_success AND created_at >= $1`, since).
		Scan(&summary.TotalSearches, &summary.TotalChannels)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT age_band, COUNT(*)
		FROM search_analytics
		WHERE analysis_success AND created_at >= $1 AND age_band <> ''
		GROUP BY age_band`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var band string
		var count int
		if err := rows.Scan(&band, &count); err != nil {
			return nil, err
		}
		summary.RatingDistribution[band] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topRows, err := r.pool.Query(ctx, `
		SELECT channel_name, COUNT(*) AS searches
		FROM search_analytics
		WHERE analysis_success AND created_at >= $1 AND channel_name <> ''
		GROUP BY channel_name
		ORDER BY searches DESC
		LIMIT 10`, since)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()

	for topRows.Next() {
		var qc model.QueryCount
		if err := topRows.Scan(&qc.ChannelName, &qc.Count); err != nil {
			return nil, err
		}
		summary.MostSearched = append(summary.MostSearched, qc)
	}
	if err := topRows.Err(); err != nil {
		return nil, err
	}

	// Searches where at least one video needed the keyword fallback show up
	// with a warnings count and degraded confidence.
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM search_analytics
		WHERE analysis_success AND created_at >= $1 AND warnings_count > 0`, since).
		Scan(&summary.FallbackSearches)
	if err != nil {
		return nil, err
	}

	return summary, nil
}
