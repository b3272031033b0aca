package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/repguardian/dashboard-api/internal/model"
	"github.com/repguardian/dashboard-api/internal/store"
)

// activityWindow is how far back the feed looks.
const activityWindow = 30 * day

const excerptLen = 140

// ActivityFilter narrows the activity feed. Empty Types keeps every type.
type ActivityFilter struct {
	Types  []string
	Search string
}

// ActivityService builds the activity feed from feedback, conflicts and clients.
type ActivityService struct {
	repo *store.Repository
	now  func() time.Time
}

func NewActivityService(repo *store.Repository) *ActivityService {
	return &ActivityService{repo: repo, now: time.Now}
}

// Feed returns recent activity grouped by calendar day, newest first.
func (s *ActivityService) Feed(ctx context.Context, companyID uuid.UUID, filter ActivityFilter) ([]model.ActivityGroup, error) {
	now := s.now()
	since := now.Add(-activityWindow)

	feedback, err := s.repo.ListFeedback(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	conflicts, err := s.repo.ListConflicts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	clients, err := s.repo.ListClients(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	var items []model.ActivityItem
	items = append(items, feedbackActivity(feedback)...)
	items = append(items, conflictActivity(conflicts)...)
	items = append(items, clientActivity(clients)...)

	query := strings.ToLower(strings.TrimSpace(filter.Search))
	kept := items[:0]
	for _, it := range items {
		if it.OccurredAt.Before(since) {
			continue
		}
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, it.Type) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(it.Title), query) &&
			!strings.Contains(strings.ToLower(it.Description), query) {
			continue
		}
		it.RelativeAt = RelativeTime(it.OccurredAt, now)
		kept = append(kept, it)
	}

	slices.SortStableFunc(kept, func(a, b model.ActivityItem) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	return groupByDay(kept, now), nil
}

func groupByDay(items []model.ActivityItem, now time.Time) []model.ActivityGroup {
	groups := []model.ActivityGroup{}
	for _, it := range items {
		label := DayLabel(it.OccurredAt, now)
		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Items = append(groups[n-1].Items, it)
			continue
		}
		groups = append(groups, model.ActivityGroup{Label: label, Items: []model.ActivityItem{it}})
	}
	return groups
}

func feedbackActivity(rows []model.Feedback) []model.ActivityItem {
	var out []model.ActivityItem
	for _, f := range rows {
		if f.SentimentScore == nil {
			continue
		}
		name := clientName(f.Client)
		score := *f.SentimentScore
		item := model.ActivityItem{
			ID:         "feedback-" + f.ID.String(),
			ClientName: name,
			OccurredAt: f.CreatedAt,
		}
		switch {
		case score <= 2:
			item.Type = model.ActivityCritical
			item.Title = "Negative Review Alert"
			item.Description = fmt.Sprintf("%s left a %d-star review: %s", name, score, excerpt(f.FeedbackMessage))
		case score == 3:
			item.Type = model.ActivityWarning
			item.Title = "At-Risk Feedback"
			item.Description = fmt.Sprintf("%s left a 3-star review: %s", name, excerpt(f.FeedbackMessage))
		case score >= 5:
			item.Type = model.ActivitySuccess
			item.Title = "Positive Review Received"
			item.Description = fmt.Sprintf("%s left a %d-star review", name, score)
		default:
			continue
		}
		out = append(out, item)
	}
	return out
}

func conflictActivity(rows []model.Conflict) []model.ActivityItem {
	var out []model.ActivityItem
	for _, c := range rows {
		name := clientName(c.Client)
		switch c.Status {
		case model.ConflictActive:
			out = append(out, model.ActivityItem{
				ID:          "conflict-" + c.ID.String(),
				Type:        model.ActivityCritical,
				Title:       "Complaint Filed",
				Description: fmt.Sprintf("%s: %s", name, excerpt(c.Description)),
				ClientName:  name,
				OccurredAt:  c.CreatedAt,
			})
		case model.ConflictClosed:
			desc := fmt.Sprintf("Conflict with %s was resolved", name)
			if c.Resolution != nil && strings.TrimSpace(*c.Resolution) != "" {
				desc += ": " + excerpt(*c.Resolution)
			}
			out = append(out, model.ActivityItem{
				ID:          "conflict-" + c.ID.String(),
				Type:        model.ActivitySuccess,
				Title:       "Issue Resolved",
				Description: desc,
				ClientName:  name,
				OccurredAt:  c.UpdatedAt,
			})
		}
	}
	return out
}

func clientActivity(rows []model.Client) []model.ActivityItem {
	var out []model.ActivityItem
	for _, c := range rows {
		name := clientName(&c)
		out = append(out, model.ActivityItem{
			ID:          "client-" + c.ID.String(),
			Type:        model.ActivityInfo,
			Title:       "New Client Added",
			Description: fmt.Sprintf("%s was added as a client", name),
			ClientName:  name,
			OccurredAt:  c.CreatedAt,
		})
		if c.ReviewRequestSent && !c.ReviewSubmitted {
			out = append(out, model.ActivityItem{
				ID:          "review-request-" + c.ID.String(),
				Type:        model.ActivityInfo,
				Title:       "Review Request Sent",
				Description: fmt.Sprintf("A review request was sent to %s", name),
				ClientName:  name,
				OccurredAt:  c.UpdatedAt,
			})
		}
		if c.Status != nil && *c.Status == model.ClientStatusNeedsHuman {
			out = append(out, model.ActivityItem{
				ID:          "needs-human-" + c.ID.String(),
				Type:        model.ActivityWarning,
				Title:       "Needs Human Attention",
				Description: fmt.Sprintf("The assistant handed %s over to staff", name),
				ClientName:  name,
				OccurredAt:  c.UpdatedAt,
			})
		}
	}
	return out
}

func clientName(c *model.Client) string {
	if c == nil || c.FullName() == "" {
		return "A client"
	}
	return c.FullName()
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > excerptLen {
		return string(r[:excerptLen-1]) + "…"
	}
	return s
}
