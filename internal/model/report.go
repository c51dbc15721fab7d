package model

import "time"

// AgeBand is one of the four ordinal family-suitability tiers.
type AgeBand string

const (
	AgeBandE      AgeBand = "E"
	AgeBandE10    AgeBand = "E10+"
	AgeBandT      AgeBand = "T"
	AgeBand16Plus AgeBand = "16+"
)

// Aggregate is the channel-level verdict derived from all per-video scores.
// Recomputed fresh on every request.
type Aggregate struct {
	Scores  CategoryVector `json:"scores"`
	AgeBand AgeBand        `json:"ageBand"`
	Verdict string         `json:"verdict"`
	Bullets []string       `json:"bullets"`
}

// TranscriptCoverage reports how many of the analyzed videos had a usable
// transcript and whether that was enough to trust transcript evidence.
type TranscriptCoverage struct {
	Available  int  `json:"available"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Sufficient bool `json:"sufficient"`
}

// AnalyzeResponse is the full success payload for POST /api/analyse.
type AnalyzeResponse struct {
	Query              string             `json:"query"`
	Channel            *Channel           `json:"channel"`
	Videos             []PerVideoScore    `json:"videos"`
	Aggregate          Aggregate          `json:"aggregate"`
	Warnings           []string           `json:"warnings,omitempty"`
	TranscriptCoverage TranscriptCoverage `json:"transcriptCoverage"`
}

// SearchRecord is one analytics row persisted after each analysis attempt,
// successful or not. Persistence is fire-and-forget and never blocks or
// fails a request.
type SearchRecord struct {
	Query                     string
	QueryType                 string
	ChannelID                 string
	ChannelName               string
	AgeBand                   string
	VideoCount                int
	TranscriptCoveragePct     int
	WarningsCount             int
	HighControversyCount      int
	SuspiciousEngagementCount int
	AvgEngagementVelocity     float64
	Success                   bool
	ErrorType                 string
	SessionID                 string
	UserAgentHash             string
	CreatedAt                 time.Time
}

// StatsSummary is the aggregated analytics payload for GET /api/stats.
type StatsSummary struct {
	TotalSearches      int            `json:"totalSearches"`
	TotalChannels      int            `json:"totalChannels"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
	MostSearched       []QueryCount   `json:"mostSearched"`
	FallbackSearches   int            `json:"fallbackSearches"`
}

// QueryCount pairs a resolved channel name with how often it was analyzed.
type QueryCount struct {
	ChannelName string `json:"channelName"`
	Count       int    `json:"count"`
}
