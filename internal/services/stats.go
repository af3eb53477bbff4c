package services

import (
	"math"
	"sort"

	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/dto"
)

const topBucketLimit = 10

// BuildAdminStats computes the admin dashboard read-model from a snapshot
// of applications. Pure: no storage access, deterministic for a given
// input order.
func BuildAdminStats(apps []domain.EndorsementApplication, totalUsers int) dto.AdminStats {
	stats := dto.AdminStats{
		TotalApplications: len(apps),
		TotalUsers:        totalUsers,
	}

	var scoreSum, scored int
	states := make([]string, 0, len(apps))
	sectors := make([]string, 0, len(apps))

	for _, app := range apps {
		switch app.Status {
		case domain.ApplicationStatusPending:
			stats.PendingApplications++
		case domain.ApplicationStatusApproved:
			stats.ApprovedApplications++
		case domain.ApplicationStatusRejected:
			stats.RejectedApplications++
		}

		if app.NNYPAScore != nil {
			scoreSum += *app.NNYPAScore
			scored++
		}

		states = append(states, app.BusinessState)
		sectors = append(sectors, app.BusinessSector)
	}

	if scored > 0 {
		stats.AverageScore = int(math.Round(float64(scoreSum) / float64(scored)))
	}

	stats.StateBreakdown = topBuckets(states, topBucketLimit)
	stats.SectorBreakdown = topBuckets(sectors, topBucketLimit)
	return stats
}

// topBuckets counts occurrences and returns the n most frequent labels,
// descending by count. Ties keep first-encounter order.
func topBuckets(values []string, n int) []dto.BucketCount {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	buckets := make([]dto.BucketCount, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, dto.BucketCount{Label: label, Count: counts[label]})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}
