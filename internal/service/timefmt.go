package service

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// ConversationTimestamp formats the time shown next to a conversation:
// a clock time under a day old, "Yesterday" one day old, the short weekday
// within a week, otherwise month and day.
func ConversationTimestamp(t, now time.Time) string {
	t = t.In(now.Location())
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}
	switch days := int(elapsed / day); {
	case days == 0:
		return t.Format("3:04 PM")
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Format("Mon")
	default:
		return t.Format("Jan 2")
	}
}

// DayLabel names the calendar day t falls on relative to now.
func DayLabel(t, now time.Time) string {
	switch calendarDaysBetween(t, now) {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return t.In(now.Location()).Format("Jan 2, 2006")
	}
}

// RelativeTime renders t as "just now", "5 min ago", "2 hours ago",
// "Yesterday", "3 days ago" or a date.
func RelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "just now"
	}
	days := calendarDaysBetween(t, now)
	switch {
	case days == 0 && elapsed < time.Hour:
		return fmt.Sprintf("%d min ago", int(elapsed/time.Minute))
	case days == 0:
		if h := int(elapsed / time.Hour); h > 1 {
			return fmt.Sprintf("%d hours ago", h)
		}
		return "1 hour ago"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.In(now.Location()).Format("Jan 2, 2006")
	}
}

func calendarDaysBetween(t, now time.Time) int {
	loc := now.Location()
	ty, tm, td := t.In(loc).Date()
	ny, nm, nd := now.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / day)
}
