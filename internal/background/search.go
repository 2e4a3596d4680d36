package background

import (
	"context"
	"fmt"

	"github.com/runnerr0/historyremover/internal/history"
	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/storage"
)

// maxResults resolves the search limit: request parameter, then persisted
// settings, then DefaultMaxResults. Non-positive values count as unset.
func maxResults(param *int, s history.Settings) int {
	if param != nil && *param > 0 {
		return *param
	}
	if s.MaxResults > 0 {
		return s.MaxResults
	}
	return history.DefaultMaxResults
}

func (r *Router) searchHistory(ctx context.Context, req messaging.Request) messaging.Response {
	settings, err := r.loadSettings(ctx)
	if err != nil {
		return messaging.Fail(err)
	}

	var p messaging.SearchParams
	if req.Params != nil {
		p = *req.Params
	}

	q := storage.Query{
		Text:       p.Text,
		StartTime:  0,
		EndTime:    r.now().UnixMilli(),
		MaxResults: maxResults(p.MaxResults, settings),
	}
	if p.StartTime != nil {
		q.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		q.EndTime = *p.EndTime
	}

	visits, err := r.history.Search(ctx, q)
	if err != nil {
		return messaging.Fail(fmt.Errorf("search history: %w", err))
	}

	resp, err := messaging.OK(toRecords(visits))
	if err != nil {
		return messaging.Fail(err)
	}
	return resp
}

// toRecords projects store rows onto the public record shape.
func toRecords(visits []storage.Visit) []history.Record {
	records := make([]history.Record, len(visits))
	for i, v := range visits {
		records[i] = history.Record{
			ID:            v.ID,
			URL:           v.URL,
			Title:         v.Title,
			LastVisitTime: v.LastVisitTime,
			VisitCount:    v.VisitCount,
			TypedCount:    v.TypedCount,
		}
	}
	return records
}
