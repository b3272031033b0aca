package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	e "github.com/repguardian/dashboard-api/internal/errors"
	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
)

// Priority labels derived from the sentiment score.
const (
	PriorityPromote = "Promote"
	PriorityMonitor = "Monitor"
	PriorityAtRisk  = "At risk"
	PriorityUrgent  = "Urgent"
	LabelUnknown    = "Unknown"
)

// Sentiment badges derived from the sentiment score.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// PriorityLabel buckets a 1-5 score into an action for staff.
func PriorityLabel(score *int) string {
	switch {
	case score == nil:
		return LabelUnknown
	case *score >= 5:
		return PriorityPromote
	case *score == 4:
		return PriorityMonitor
	case *score == 3:
		return PriorityAtRisk
	default:
		return PriorityUrgent
	}
}

// SentimentLabel buckets a 1-5 score into a badge.
func SentimentLabel(score *int) string {
	switch {
	case score == nil:
		return LabelUnknown
	case *score >= 5:
		return SentimentPositive
	case *score == 4:
		return SentimentNeutral
	default:
		return SentimentNegative
	}
}

// priorityKeys maps normalised filter keys to priority labels.
var priorityKeys = map[string]string{
	"promote": PriorityPromote,
	"monitor": PriorityMonitor,
	"at_risk": PriorityAtRisk,
	"urgent":  PriorityUrgent,
	"unknown": LabelUnknown,
}

// priorityFilter resolves filter values such as "at_risk", "At risk" or
// "URGENT" to labels.
func priorityFilter(values []string) ([]string, error) {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
		label, ok := priorityKeys[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown priority %q", e.ErrInvalidInput, v)
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// trendRanges maps the accepted range parameter to a number of days.
var trendRanges = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

const defaultTrendRange = "90d"

// FeedbackFilter narrows the feedback table. Zero value keeps everything.
// Priorities take the keys promote, monitor, at_risk, urgent and unknown,
// case-insensitively; the display labels are accepted too.
type FeedbackFilter struct {
	Priorities []string
	Tag        string
}

// FeedbackService serves the feedback table and charts.
type FeedbackService struct {
	repo *store.Repository
	now  func() time.Time
}

func NewFeedbackService(repo *store.Repository) *FeedbackService {
	return &FeedbackService{repo: repo, now: time.Now}
}

// List returns feedback newest first, each with its client's conflict status
// and derived labels.
func (s *FeedbackService) List(ctx context.Context, companyID uuid.UUID, filter FeedbackFilter) ([]model.FeedbackView, error) {
	priorities, err := priorityFilter(filter.Priorities)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListFeedback(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	clientIDs := make([]uuid.UUID, 0, len(rows))
	for _, f := range rows {
		if !seen[f.ClientID] {
			seen[f.ClientID] = true
			clientIDs = append(clientIDs, f.ClientID)
		}
	}

	conflicts, err := s.repo.ListConflictsForClients(ctx, companyID, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	states := conflictStates(conflicts)

	tag := strings.ToLower(strings.TrimSpace(filter.Tag))

	out := make([]model.FeedbackView, 0, len(rows))
	for _, f := range rows {
		view := model.FeedbackView{
			Feedback:       f,
			ConflictStatus: states[f.ClientID].feedbackStatus(),
			Sentiment:      SentimentLabel(f.SentimentScore),
			Priority:       PriorityLabel(f.SentimentScore),
		}
		if f.Client != nil {
			view.ClientName = f.Client.FullName()
		}
		if len(priorities) > 0 && !slices.Contains(priorities, view.Priority) {
			continue
		}
		if tag != "" && !hasTag(f.Tags, tag) {
			continue
		}
		out = append(out, view)
	}
	return out, nil
}

// Trend averages scores per UTC day over the range ("7d", "30d" or "90d";
// empty means 90d). Unscored feedback is skipped.
func (s *FeedbackService) Trend(ctx context.Context, companyID uuid.UUID, rng string) ([]model.TrendPoint, error) {
	if rng == "" {
		rng = defaultTrendRange
	}
	days, ok := trendRanges[rng]
	if !ok {
		return nil, fmt.Errorf("%w: unknown range %q", e.ErrInvalidInput, rng)
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	rows, err := s.repo.ListScoredFeedbackSince(ctx, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return dailyAverages(rows), nil
}

// Distribution counts positive (4-5) and negative (1-3) feedback.
func (s *FeedbackService) Distribution(ctx context.Context, companyID uuid.UUID) (*model.Distribution, error) {
	pos, err := s.repo.CountFeedbackByScore(ctx, companyID, 4, 5)
	if err != nil {
		return nil, fmt.Errorf("count positive: %w", err)
	}
	neg, err := s.repo.CountFeedbackByScore(ctx, companyID, 1, 3)
	if err != nil {
		return nil, fmt.Errorf("count negative: %w", err)
	}
	return &model.Distribution{Positive: int(pos), Negative: int(neg)}, nil
}

func dailyAverages(rows []model.Feedback) []model.TrendPoint {
	type acc struct {
		sum   int
		count int
	}
	byDay := make(map[string]*acc)
	for _, f := range rows {
		if f.SentimentScore == nil {
			continue
		}
		key := f.CreatedAt.UTC().Format(time.DateOnly)
		a := byDay[key]
		if a == nil {
			a = &acc{}
			byDay[key] = a
		}
		a.sum += *f.SentimentScore
		a.count++
	}

	out := make([]model.TrendPoint, 0, len(byDay))
	for date, a := range byDay {
		avg := float64(a.sum) / float64(a.count)
		out = append(out, model.TrendPoint{
			Date:    date,
			Average: math.Round(avg*10) / 10,
			Count:   a.count,
		})
	}
	slices.SortFunc(out, func(a, b model.TrendPoint) int { return strings.Compare(a.Date, b.Date) })
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.ToLower(strings.TrimSpace(t)) == want {
			return true
		}
	}
	return false
}
