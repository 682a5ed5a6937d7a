package tracker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell/pkg/types"
)

func seedInstance(env *testEnv, documentID string, status types.InstanceStatus, mutate func(*types.DocumentInstance)) string {
	instance := types.DocumentInstance{
		ID:             fmt.Sprintf("inst_%d", len(env.instances.order)+1),
		AccessToken:    "token",
		DocumentID:     documentID,
		RecipientName:  "Tonya Williams",
		RecipientEmail: "tonya@example.com",
		Status:         status,
		ExpirationDate: time.Now().AddDate(0, 0, 30),
	}
	if mutate != nil {
		mutate(&instance)
	}
	env.instances.put(instance)
	return instance.ID
}

func TestStatusCountsZeroFilled(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")

	now := time.Now()
	seedInstance(env, "doc_1", types.InstanceStatusSigned, func(i *types.DocumentInstance) {
		i.SentAt = &now
		i.SignedAt = &now
	})
	seedInstance(env, "doc_1", types.InstanceStatusDeclined, func(i *types.DocumentInstance) {
		i.SentAt = &now
		i.DeclinedAt = &now
	})
	// A ready instance must not surface in the aggregation.
	seedInstance(env, "doc_1", types.InstanceStatusReady, nil)

	counts, err := env.svc.StatusCounts(context.Background(), "doc_1")
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}

	want := types.StatusCounts{
		types.InstanceStatusSent:     0,
		types.InstanceStatusViewed:   0,
		types.InstanceStatusSigned:   1,
		types.InstanceStatusDeclined: 1,
		types.InstanceStatusExpired:  0,
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d buckets, got %d: %v", len(want), len(counts), counts)
	}
	for status, n := range want {
		got, ok := counts[status]
		if !ok {
			t.Fatalf("expected bucket %q to be present", status)
		}
		if got != n {
			t.Fatalf("bucket %q: expected %d, got %d", status, n, got)
		}
	}
	if _, ok := counts[types.InstanceStatusReady]; ok {
		t.Fatalf("expected ready to be excluded, got %v", counts)
	}
}

func TestAnalyticsEmpty(t *testing.T) {
	env := newTestEnv()

	analytics, err := env.svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if analytics.TotalDocuments != 0 || analytics.TotalInstances != 0 {
		t.Fatalf("expected empty totals, got %+v", analytics)
	}
	if analytics.CompletionRate != 0 {
		t.Fatalf("expected zero completion rate on empty data, got %v", analytics.CompletionRate)
	}
	if len(analytics.StatusCounts) != 6 {
		t.Fatalf("expected all six status buckets, got %v", analytics.StatusCounts)
	}
	if len(analytics.MostViewed) != 0 || len(analytics.MostDeclined) != 0 {
		t.Fatalf("expected empty rankings")
	}
}

func TestAnalyticsPopulated(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")
	env.addDocument("doc_2", "Photo Release")

	now := time.Now()
	sent := now.Add(-10 * time.Hour)
	signedAt := now.Add(-2 * time.Hour) // 8h to sign

	seedInstance(env, "doc_1", types.InstanceStatusSigned, func(i *types.DocumentInstance) {
		i.SentAt = &sent
		i.ViewedAt = &sent
		i.SignedAt = &signedAt
	})
	seedInstance(env, "doc_1", types.InstanceStatusViewed, func(i *types.DocumentInstance) {
		i.SentAt = &sent
		i.ViewedAt = &now
	})
	seedInstance(env, "doc_2", types.InstanceStatusDeclined, func(i *types.DocumentInstance) {
		i.SentAt = &sent
		i.DeclinedAt = &now
	})
	seedInstance(env, "doc_2", types.InstanceStatusSent, func(i *types.DocumentInstance) {
		i.SentAt = &sent
	})

	analytics, err := env.svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if analytics.TotalDocuments != 2 {
		t.Fatalf("expected 2 documents, got %d", analytics.TotalDocuments)
	}
	if analytics.TotalInstances != 4 {
		t.Fatalf("expected 4 instances, got %d", analytics.TotalInstances)
	}
	if analytics.CompletionRate != 25 {
		t.Fatalf("expected 25%% completion, got %v", analytics.CompletionRate)
	}
	if analytics.AvgTimeToSignHours != 8 {
		t.Fatalf("expected 8h avg time to sign, got %v", analytics.AvgTimeToSignHours)
	}
	if analytics.SignedLast7Days != 1 {
		t.Fatalf("expected 1 signature in last 7 days, got %d", analytics.SignedLast7Days)
	}

	if len(analytics.MostViewed) != 1 || analytics.MostViewed[0].DocumentID != "doc_1" || analytics.MostViewed[0].Count != 2 {
		t.Fatalf("unexpected most-viewed ranking: %v", analytics.MostViewed)
	}
	if analytics.MostViewed[0].Title != "Waiver" {
		t.Fatalf("expected ranking joined with document title, got %v", analytics.MostViewed)
	}
	if len(analytics.MostDeclined) != 1 || analytics.MostDeclined[0].DocumentID != "doc_2" {
		t.Fatalf("unexpected most-declined ranking: %v", analytics.MostDeclined)
	}
}

func TestAnalyticsRankingLimit(t *testing.T) {
	env := newTestEnv()

	now := time.Now()
	for n := 1; n <= 7; n++ {
		docID := fmt.Sprintf("doc_%d", n)
		env.addDocument(docID, fmt.Sprintf("Document %d", n))
		for range n {
			seedInstance(env, docID, types.InstanceStatusViewed, func(i *types.DocumentInstance) {
				i.SentAt = &now
				i.ViewedAt = &now
			})
		}
	}

	analytics, err := env.svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if len(analytics.MostViewed) != 5 {
		t.Fatalf("expected top-5 ranking, got %d entries", len(analytics.MostViewed))
	}
	if analytics.MostViewed[0].DocumentID != "doc_7" || analytics.MostViewed[0].Count != 7 {
		t.Fatalf("expected doc_7 first, got %v", analytics.MostViewed[0])
	}
	if analytics.MostViewed[4].DocumentID != "doc_3" {
		t.Fatalf("expected doc_3 last, got %v", analytics.MostViewed[4])
	}
}

func TestStatusReport(t *testing.T) {
	env := newTestEnv()

	roboticsID := "prog_robotics"
	env.docs.add(types.Document{ID: "doc_1", Title: "Waiver", DocumentType: "waiver", OwnerID: "instr_1", ProgramID: &roboticsID})
	env.addDocument("doc_2", "Photo Release")

	now := time.Now()
	recent := now.AddDate(0, 0, -3)
	signedAt := recent.Add(90 * time.Minute)
	stale := now.AddDate(0, 0, -45)

	inWindow := seedInstance(env, "doc_1", types.InstanceStatusSigned, func(i *types.DocumentInstance) {
		i.SentAt = &recent
		i.ViewedAt = &recent
		i.SignedAt = &signedAt
	})
	seedInstance(env, "doc_1", types.InstanceStatusSent, func(i *types.DocumentInstance) {
		i.SentAt = &stale
	})
	seedInstance(env, "doc_2", types.InstanceStatusSent, func(i *types.DocumentInstance) {
		i.SentAt = &recent
	})
	// Never sent: excluded from the windowed report entirely.
	seedInstance(env, "doc_1", types.InstanceStatusReady, nil)

	rows, err := env.svc.StatusReport(context.Background(), "", 30)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows inside the window, got %d", len(rows))
	}

	var signedRow *types.StatusReportRow
	for i := range rows {
		if rows[i].Instance.ID == inWindow {
			signedRow = &rows[i]
		}
	}
	if signedRow == nil {
		t.Fatalf("expected signed instance in report")
	}
	if signedRow.Document.Title != "Waiver" {
		t.Fatalf("expected document joined, got %+v", signedRow.Document)
	}
	if signedRow.TimeToSignHours == nil || *signedRow.TimeToSignHours != 1.5 {
		t.Fatalf("expected 1.5h time to sign, got %v", signedRow.TimeToSignHours)
	}
	if signedRow.TimeToViewHours == nil || *signedRow.TimeToViewHours != 0 {
		t.Fatalf("expected 0h time to view, got %v", signedRow.TimeToViewHours)
	}

	// Program filter restricts to that program's documents.
	filtered, err := env.svc.StatusReport(context.Background(), roboticsID, 30)
	if err != nil {
		t.Fatalf("filtered report: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Instance.ID != inWindow {
		t.Fatalf("expected only the robotics instance, got %d rows", len(filtered))
	}
}

func TestSearchByRecipient(t *testing.T) {
	env := newTestEnv()
	env.addDocument("doc_1", "Waiver")

	now := time.Now()
	seedInstance(env, "doc_1", types.InstanceStatusViewed, func(i *types.DocumentInstance) {
		i.RecipientName = "Tonya Williams"
		i.RecipientEmail = "tonya.williams@example.com"
		i.SentAt = &now
		i.ViewedAt = &now
	})
	seedInstance(env, "doc_1", types.InstanceStatusSent, func(i *types.DocumentInstance) {
		i.RecipientName = "Marcus Johnson"
		i.RecipientEmail = "marcus@example.com"
		i.SentAt = &now
	})

	matches, err := env.svc.SearchByRecipient(context.Background(), "WILLIAMS")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}

	match := matches[0]
	if match.Instance.RecipientName != "Tonya Williams" {
		t.Fatalf("unexpected match: %+v", match.Instance)
	}
	if match.Document.Title != "Waiver" {
		t.Fatalf("expected document joined, got %+v", match.Document)
	}
	if match.SentDate == "" || match.ViewedDate == "" {
		t.Fatalf("expected display dates populated, got %+v", match)
	}
	if match.SignedDate != "" || match.DeclinedDate != "" {
		t.Fatalf("expected empty dates for absent timestamps, got %+v", match)
	}
}
