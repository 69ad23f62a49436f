package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/dustin/go-humanize"
)

const (
	baseScore = 50
	maxScore  = 100

	// neverVisitedDays is the sentinel used for retailers without any recorded
	// visit; it always lands in the top recency bracket
	neverVisitedDays = 999

	// LookbackDays is the order/visit window consumed by the scorer
	LookbackDays = 90

	reasonHighPriority = "High priority retailer"
	reasonDefault      = "Regular visit schedule"
)

// ScoreRetailer computes the visit priority of a retailer from its last 90 days of
// orders and visits. Orders and visits of other retailers are ignored, so callers
// may pass the whole feed of a beat or a user.
func ScoreRetailer(r domain.Retailer, orders []domain.Order, visits []domain.Visit, now time.Time) domain.RetailerScore {
	score := baseScore
	reasons := make([]string, 0, 5)

	// 1. Recency
	days := daysSinceLastVisit(r, visits, now)
	switch {
	case days > 30:
		score += 30
		reasons = append(reasons, fmt.Sprintf("Not visited in %d days", days))
	case days > 14:
		score += 20
		reasons = append(reasons, fmt.Sprintf("Last visited %d days ago", days))
	case days > 7:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Due for a visit (%d days)", days))
	}

	// 2. Receivables
	pending := math.Max(0, r.PendingAmount)
	switch {
	case pending > 10000:
		score += 25
		reasons = append(reasons, "High pending payment: ₹"+formatAmount(pending))
	case pending > 5000:
		score += 15
		reasons = append(reasons, "Pending payment: ₹"+formatAmount(pending))
	case pending > 0:
		score += 5
		reasons = append(reasons, "Small pending payment: ₹"+formatAmount(pending))
	}

	// 3. Potential tier
	switch r.Potential {
	case domain.PotentialHigh:
		score += 20
		reasons = append(reasons, reasonHighPriority)
	case domain.PotentialMedium:
		score += 10
		reasons = append(reasons, "Medium potential retailer")
	}

	// 4. Order value
	avgOrder := averageOrderValue(r, orders, now)
	switch {
	case avgOrder > 10000:
		score += 15
		reasons = append(reasons, "High order value: ₹"+formatAmount(avgOrder))
	case avgOrder > 5000:
		score += 10
		reasons = append(reasons, "Good order value: ₹"+formatAmount(avgOrder))
	case avgOrder > 1000:
		score += 5
		reasons = append(reasons, "Regular buyer: ₹"+formatAmount(avgOrder))
	}

	// 5. Explicit priority flag; the reason is shared with the high potential tier
	if r.Priority == domain.PriorityHigh {
		score += 10
		if !containsReason(reasons, reasonHighPriority) {
			reasons = append(reasons, reasonHighPriority)
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reasonDefault)
	}

	return domain.RetailerScore{
		RetailerID:         r.ID,
		RetailerName:       r.Name,
		BeatID:             r.BeatID,
		Score:              min(score, maxScore),
		Reasons:            reasons,
		DaysSinceLastVisit: days,
		PendingAmount:      pending,
		Potential:          r.Potential,
		AvgOrderValue:      avgOrder,
	}
}

// ScoreRetailers scores every retailer, preserving input order.
func ScoreRetailers(retailers []domain.Retailer, orders []domain.Order, visits []domain.Visit, now time.Time) []domain.RetailerScore {
	ordersByRetailer := make(map[string][]domain.Order)
	for _, o := range orders {
		ordersByRetailer[o.RetailerID] = append(ordersByRetailer[o.RetailerID], o)
	}
	visitsByRetailer := make(map[string][]domain.Visit)
	for _, v := range visits {
		visitsByRetailer[v.RetailerID] = append(visitsByRetailer[v.RetailerID], v)
	}

	scores := make([]domain.RetailerScore, 0, len(retailers))
	for _, r := range retailers {
		scores = append(scores, ScoreRetailer(r, ordersByRetailer[r.ID], visitsByRetailer[r.ID], now))
	}
	return scores
}

// daysSinceLastVisit uses the later of the stored last visit and the latest
// completed visit in the feed.
func daysSinceLastVisit(r domain.Retailer, visits []domain.Visit, now time.Time) int {
	var last time.Time
	if r.LastVisitAt != nil {
		last = *r.LastVisitAt
	}
	for _, v := range visits {
		if v.RetailerID != r.ID || v.Status != domain.VisitStatusCompleted {
			continue
		}
		if v.VisitDate.After(now) {
			continue
		}
		if v.VisitDate.After(last) {
			last = v.VisitDate
		}
	}
	if last.IsZero() {
		return neverVisitedDays
	}

	days := int(now.Sub(last).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// averageOrderValue averages confirmed order totals of the lookback window,
// falling back to the stored average when there are none.
func averageOrderValue(r domain.Retailer, orders []domain.Order, now time.Time) float64 {
	since := now.AddDate(0, 0, -LookbackDays)

	var (
		total float64
		count int
	)
	for _, o := range orders {
		if o.RetailerID != r.ID || !o.IsConfirmed() {
			continue
		}
		if o.CreatedAt.Before(since) || o.CreatedAt.After(now) {
			continue
		}
		total += o.TotalAmount
		count++
	}
	if count == 0 {
		return math.Max(0, r.AvgOrderValue)
	}
	return total / float64(count)
}

func containsReason(reasons []string, reason string) bool {
	for _, r := range reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func formatAmount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}
