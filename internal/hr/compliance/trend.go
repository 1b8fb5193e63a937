package compliance

import (
	"math"
	"time"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/internal/hr/domain"
)

// MonthBucket holds completed-training activity for one calendar month
type MonthBucket struct {
	Month      string  `json:"month"` // YYYY-MM
	Count      int     `json:"count"`
	CostCents  int64   `json:"cost_cents"`
	Hours      float64 `json:"hours"`
	AvgScore   float64 `json:"avg_score"`
	scoreSum   float64
	scoreCount int
}

// MonthlyTrend buckets completed trainings by completion month over the last
// `months` calendar months ending at now's month. Buckets run oldest to
// newest and months with no activity are zero-filled. A certificate's
// completion month falls back to its issue month when no completion date was
// recorded. Draft, revoked and cancelled records are excluded.
func MonthlyTrend(certs []*domain.Certificate, months int, now time.Time) []MonthBucket {
	if months <= 0 {
		return nil
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0).Format("2006-01")
		buckets[i].Month = month
		index[month] = i
	}

	for _, c := range certs {
		// Drafts never happened and revoked/cancelled records were
		// invalidated; neither is a completed training. Expired and renewed
		// certificates still count for the month they were completed in.
		switch c.Status {
		case domain.StatusDraft, domain.StatusRevoked, domain.StatusCancelled:
			continue
		}

		completed := c.IssueDate
		if c.CompletionDate != nil {
			completed = *c.CompletionDate
		}

		i, ok := index[completed.Format("2006-01")]
		if !ok {
			continue
		}

		b := &buckets[i]
		b.Count++
		if c.CostCents != nil {
			b.CostCents += *c.CostCents
		}
		if c.TrainingHours != nil {
			b.Hours += *c.TrainingHours
		}
		if c.Score != nil {
			b.scoreSum += *c.Score
			b.scoreCount++
		}
	}

	for i := range buckets {
		if buckets[i].scoreCount > 0 {
			buckets[i].AvgScore = math.Round(buckets[i].scoreSum/float64(buckets[i].scoreCount)*10) / 10
		}
	}

	return buckets
}

// ExpiryForecast counts certificates expiring in each of the next `months`
// calendar months, oldest first, zero-filled.
func ExpiryForecast(certs []*domain.Certificate, months int, now time.Time) []MonthBucket {
	if months <= 0 {
		return nil
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]MonthBucket, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0).Format("2006-01")
		buckets[i].Month = month
		index[month] = i
	}

	for _, c := range certs {
		if c.ExpiryDate == nil || c.Status.IsTerminal() {
			continue
		}
		if i, ok := index[c.ExpiryDate.Format("2006-01")]; ok {
			buckets[i].Count++
		}
	}

	return buckets
}
