package domain

import (
	"context"
	"time"
)

// UsageRow is one aggregated generation-usage record for a platform/period.
type UsageRow struct {
	Platform    string    `json:"platform"`
	Period      time.Time `json:"period"`
	Generations int       `json:"generations"`
	Approvals   int       `json:"approvals"`
}

// UsageQuery filters and bounds a usage read.
type UsageQuery struct {
	Platform string
	Limit    int
}

// FeedbackRow is one user-submitted feedback record.
type FeedbackRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preferences holds a user's content-generation preferences.
type Preferences struct {
	UserID      string   `json:"userId"`
	Platforms   []string `json:"platforms"`
	Tone        string   `json:"tone"`
	AutoPublish bool     `json:"autoPublish"`
}

// UsageSummary is the cached aggregate refreshed by the privileged
// cache-refresh operation.
type UsageSummary struct {
	GeneratedAt      time.Time      `json:"generatedAt"`
	TotalGenerations int            `json:"totalGenerations"`
	ByPlatform       map[string]int `json:"byPlatform"`
}

// AnalyticsRepository is the downstream data-access layer. It is only
// reached after the gate admits a request.
type AnalyticsRepository interface {
	ListUsage(ctx context.Context, q UsageQuery) ([]UsageRow, error)
	ListFeedback(ctx context.Context, limit int) ([]FeedbackRow, error)
	UpsertPreferences(ctx context.Context, p Preferences) error
	ComputeUsageSummary(ctx context.Context) (*UsageSummary, error)
}
