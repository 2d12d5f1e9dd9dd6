package crm

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/nimbusworks/sheetcrm/sheet"
)

// ActivityService is the best-effort activity feed over Activity_Logs.
// Logging must never take down the operation that triggered it: every
// failure path degrades to a sentinel record or an empty result.
type ActivityService struct {
	store *sheet.Store
}

// NewActivityService creates an activity service over the given store.
func NewActivityService(store *sheet.Store) *ActivityService {
	return &ActivityService{store: store}
}

// ActivityInput is the caller-supplied portion of a log entry.
type ActivityInput struct {
	Type        string
	Title       string
	Description string
	EntityID    string
	EntityType  string
	User        string
	Status      string
}

// Log appends an activity entry, fire-and-forget. On any failure it returns
// a sentinel record with log_id "ERROR" and status "error" instead of an
// error, so callers never need to branch on it.
func (s *ActivityService) Log(ctx context.Context, in ActivityInput) ActivityLog {
	user := in.User
	if user == "" {
		user = "Admin"
	}
	status := in.Status
	if status == "" {
		status = "unread"
	}

	entry := ActivityLog{
		LogID:       NewLogID(),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		EntityID:    in.EntityID,
		EntityType:  in.EntityType,
		User:        user,
		Timestamp:   time.Now().Format(time.RFC3339),
		Status:      status,
	}

	if err := s.store.Append(ctx, SheetActivityLogs, encodeActivityLog(entry)); err != nil {
		log.Printf("crm: activity log failed (swallowed): %v", err)
		return ActivityLog{
			LogID:       "ERROR",
			Type:        in.Type,
			Title:       in.Title,
			Description: in.Description,
			User:        user,
			Timestamp:   time.Now().Format(time.RFC3339),
			Status:      "error",
		}
	}
	return entry
}

// Recent returns up to limit entries, newest timestamp first. A scan
// failure yields an empty feed, not an error.
func (s *ActivityService) Recent(ctx context.Context, limit int) []ActivityLog {
	rows, err := s.store.Rows(ctx, SheetActivityLogs)
	if err != nil {
		log.Printf("crm: activity feed scan failed: %v", err)
		return []ActivityLog{}
	}

	entries := make([]ActivityLog, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, decodeActivityLog(row))
	}

	// ISO timestamps sort lexicographically.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// UnreadCount returns the number of unread entries; zero on scan failure.
func (s *ActivityService) UnreadCount(ctx context.Context) int {
	rows, err := s.store.Rows(ctx, SheetActivityLogs)
	if err != nil {
		log.Printf("crm: unread count scan failed: %v", err)
		return 0
	}

	count := 0
	for _, row := range rows {
		if row["status"] == "unread" {
			count++
		}
	}
	return count
}

// MarkAllRead acknowledges the feed. The rows themselves are not rewritten;
// the client clears its badge locally.
func (s *ActivityService) MarkAllRead(_ context.Context) bool {
	return true
}
