package model

import "time"

// KPIs are the headline counters on the dashboard.
type KPIs struct {
	ReviewsCollected   int64 `json:"reviews_collected"`
	CustomersRecovered int64 `json:"customers_recovered"`
	NeedsAttention     int64 `json:"needs_attention"`
}

// Activity item types.
const (
	ActivityCritical = "critical"
	ActivityWarning  = "warning"
	ActivitySuccess  = "success"
	ActivityInfo     = "info"
)

// ActivityItem is one entry in the activity feed.
type ActivityItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ClientName  string    `json:"client_name,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	RelativeAt  string    `json:"relative_time"`
}

// ActivityGroup holds the items of one calendar day, newest first.
type ActivityGroup struct {
	Label string         `json:"label"`
	Items []ActivityItem `json:"items"`
}

// OnboardingRequest creates a company and its owner membership.
type OnboardingRequest struct {
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
}

// CompanyContext describes the tenant a request runs in.
type CompanyContext struct {
	Company Company `json:"company"`
	Role    string  `json:"role"`
}
