package tracker

import (
	"context"
	"sort"
	"time"

	"inkwell/internal/utils"
	"inkwell/pkg/types"
)

// StatusCounts aggregates instance counts by status for one document. Every
// reported bucket is present, zero-filled; ready instances are excluded from
// this aggregation.
func (s *Service) StatusCounts(ctx context.Context, documentID string) (types.StatusCounts, error) {
	raw, err := s.instances.CountByStatus(ctx, documentID)
	if err != nil {
		return nil, err
	}

	counts := make(types.StatusCounts, len(types.ReportedStatuses))
	for _, status := range types.ReportedStatuses {
		counts[status] = raw[status]
	}

	return counts, nil
}

// Analytics computes the system-wide aggregate over all documents and
// instances. Ranking ties break in whatever order the aggregation produced.
func (s *Service) Analytics(ctx context.Context) (*types.Analytics, error) {
	docCount, err := s.documents.Count(ctx)
	if err != nil {
		return nil, err
	}

	instances, err := s.instances.All(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts := map[types.InstanceStatus]int{
		types.InstanceStatusReady:    0,
		types.InstanceStatusSent:     0,
		types.InstanceStatusViewed:   0,
		types.InstanceStatusSigned:   0,
		types.InstanceStatusDeclined: 0,
		types.InstanceStatusExpired:  0,
	}

	viewsByDoc := make(map[string]int)
	declinesByDoc := make(map[string]int)

	var (
		signed        int
		signedRecent  int
		signHours     float64
		signHoursSeen int
	)
	weekAgo := time.Now().AddDate(0, 0, -7)

	for i := range instances {
		instance := &instances[i]
		statusCounts[instance.Status]++

		if instance.ViewedAt != nil {
			viewsByDoc[instance.DocumentID]++
		}
		if instance.DeclinedAt != nil {
			declinesByDoc[instance.DocumentID]++
		}

		if instance.Status == types.InstanceStatusSigned {
			signed++
			if instance.SignedAt != nil && instance.SignedAt.After(weekAgo) {
				signedRecent++
			}
			if instance.SignedAt != nil && instance.SentAt != nil {
				signHours += instance.SignedAt.Sub(*instance.SentAt).Hours()
				signHoursSeen++
			}
		}
	}

	analytics := &types.Analytics{
		TotalDocuments:  docCount,
		TotalInstances:  len(instances),
		StatusCounts:    statusCounts,
		SignedLast7Days: signedRecent,
	}

	if len(instances) > 0 {
		analytics.CompletionRate = utils.RoundFloat64(float64(signed)/float64(len(instances))*100, 2)
	}
	if signHoursSeen > 0 {
		analytics.AvgTimeToSignHours = utils.RoundFloat64(signHours/float64(signHoursSeen), 2)
	}

	analytics.MostViewed, err = s.rankDocuments(ctx, viewsByDoc)
	if err != nil {
		return nil, err
	}
	analytics.MostDeclined, err = s.rankDocuments(ctx, declinesByDoc)
	if err != nil {
		return nil, err
	}

	return analytics, nil
}

const rankingLimit = 5

func (s *Service) rankDocuments(ctx context.Context, countsByDoc map[string]int) ([]types.DocumentCount, error) {
	ranked := make([]types.DocumentCount, 0, len(countsByDoc))
	ids := make([]string, 0, len(countsByDoc))
	for id, count := range countsByDoc {
		ranked = append(ranked, types.DocumentCount{DocumentID: id, Count: count})
		ids = append(ids, id)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > rankingLimit {
		ranked = ranked[:rankingLimit]
	}

	docs, err := s.documents.DocumentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.ID] = doc.Title
	}
	for i := range ranked {
		ranked[i].Title = titles[ranked[i].DocumentID]
	}

	return ranked, nil
}

// StatusReport returns instance/document pairs sent inside the window, with
// derived time-to-sign and time-to-view hours. A program id restricts results
// to that program's documents via an id allow-list, not a join.
func (s *Service) StatusReport(ctx context.Context, programID string, days int) ([]types.StatusReportRow, error) {
	if days <= 0 {
		days = 30
	}

	instances, err := s.instances.SentSince(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	if programID != "" {
		allowed, err := s.documents.DocumentIDsByProgram(ctx, programID)
		if err != nil {
			return nil, err
		}
		allowSet := make(map[string]struct{}, len(allowed))
		for _, id := range allowed {
			allowSet[id] = struct{}{}
		}

		filtered := instances[:0]
		for _, instance := range instances {
			if _, ok := allowSet[instance.DocumentID]; ok {
				filtered = append(filtered, instance)
			}
		}
		instances = filtered
	}

	docs, err := s.joinDocuments(ctx, instances)
	if err != nil {
		return nil, err
	}

	rows := make([]types.StatusReportRow, 0, len(instances))
	for _, instance := range instances {
		row := types.StatusReportRow{
			Instance: instance,
			Document: docs[instance.DocumentID],
		}
		if instance.SentAt != nil && instance.SignedAt != nil {
			row.TimeToSignHours = utils.Float64Ptr(utils.RoundFloat64(instance.SignedAt.Sub(*instance.SentAt).Hours(), 2))
		}
		if instance.SentAt != nil && instance.ViewedAt != nil {
			row.TimeToViewHours = utils.Float64Ptr(utils.RoundFloat64(instance.ViewedAt.Sub(*instance.SentAt).Hours(), 2))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// SearchByRecipient finds instances by case-insensitive substring of the
// recipient name or email, joined with their parent documents.
func (s *Service) SearchByRecipient(ctx context.Context, term string) ([]types.RecipientMatch, error) {
	instances, err := s.instances.SearchByRecipient(ctx, term)
	if err != nil {
		return nil, err
	}

	docs, err := s.joinDocuments(ctx, instances)
	if err != nil {
		return nil, err
	}

	matches := make([]types.RecipientMatch, 0, len(instances))
	for _, instance := range instances {
		matches = append(matches, types.RecipientMatch{
			Instance:     instance,
			Document:     docs[instance.DocumentID],
			SentDate:     types.DisplayDate(instance.SentAt),
			ViewedDate:   types.DisplayDate(instance.ViewedAt),
			SignedDate:   types.DisplayDate(instance.SignedAt),
			DeclinedDate: types.DisplayDate(instance.DeclinedAt),
		})
	}

	return matches, nil
}

func (s *Service) joinDocuments(ctx context.Context, instances []types.DocumentInstance) (map[string]types.Document, error) {
	idSet := make(map[string]struct{}, len(instances))
	ids := make([]string, 0, len(instances))
	for _, instance := range instances {
		if _, seen := idSet[instance.DocumentID]; seen {
			continue
		}
		idSet[instance.DocumentID] = struct{}{}
		ids = append(ids, instance.DocumentID)
	}

	docs, err := s.documents.DocumentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]types.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}

	return byID, nil
}
