package rfqs

import (
	"context"
	"fmt"
	"time"

	"jengahub-backend/internal/matching"
	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/shared/metrics"
	"jengahub-backend/internal/shared/telemetry"
	"jengahub-backend/internal/vendors"
)

// AutoMatcher scores eligible vendors against a wizard RFQ and records the
// winners as assignments. Zero candidates escalates the RFQ for admin
// review instead of leaving it stuck in pending.
type AutoMatcher struct {
	Repo     Repo
	Vendors  *vendors.Service
	Notifier *notifications.Service

	MinScore   int
	MaxResults int
}

// Process runs auto-matching for one RFQ. It is idempotent: re-running on
// an already matched RFQ re-derives the same assignment set and inserts
// nothing new.
func (m *AutoMatcher) Process(ctx context.Context, rfqID string) error {
	started := time.Now()

	rfq, err := m.Repo.GetByID(ctx, rfqID)
	if err != nil {
		metrics.IncMatchFailed()
		return fmt.Errorf("load rfq: %w", err)
	}

	pool, err := m.Vendors.Matchable(ctx, rfq.CategorySlug)
	if err != nil {
		metrics.IncMatchFailed()
		return fmt.Errorf("load vendors: %w", err)
	}

	candidates := matching.Match(toMatchingVendors(pool), matching.Criteria{
		CategorySlug: rfq.CategorySlug,
		County:       stringField(rfq.SharedFields, "county"),
		Town:         stringField(rfq.SharedFields, "town"),
		BudgetMax:    floatField(rfq.SharedFields, "budgetMax"),
	}, matching.Options{
		MinScore:   m.MinScore,
		MaxResults: m.MaxResults,
	})

	if len(candidates) == 0 {
		if err := m.Repo.UpdateStatus(ctx, rfq.ID, StatusNeedsAdminReview); err != nil {
			metrics.IncMatchFailed()
			return fmt.Errorf("escalate rfq: %w", err)
		}
		metrics.IncMatchNeedsReview()
		if m.Notifier != nil {
			m.Notifier.NotifyAdmins(ctx, "RFQ needs manual matching",
				fmt.Sprintf("No vendors matched category %s", rfq.CategorySlug), rfq.ID)
		}
		telemetry.Info("automatch.needs_review", map[string]any{
			"rfqId":    rfq.ID,
			"category": rfq.CategorySlug,
		})
		metrics.ObserveMatchDurationMs(float64(time.Since(started).Milliseconds()))
		return nil
	}

	now := time.Now().UTC()
	assignments := make([]Assignment, 0, len(candidates))
	vendorIDs := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		assignments = append(assignments, Assignment{
			RFQID:       rfq.ID,
			VendorID:    cand.ID,
			MatchScore:  cand.MatchScore,
			MatchReason: matching.MatchReason(cand),
			AssignedAt:  now,
		})
		vendorIDs = append(vendorIDs, cand.ID)
	}

	if err := m.Repo.AddAssignments(ctx, assignments); err != nil {
		metrics.IncMatchFailed()
		return fmt.Errorf("store assignments: %w", err)
	}
	if err := m.Repo.UpdateStatus(ctx, rfq.ID, StatusMatched); err != nil {
		metrics.IncMatchFailed()
		return fmt.Errorf("update status: %w", err)
	}

	m.notifyMatchedVendors(ctx, rfq.ID, vendorIDs)
	metrics.IncMatchCompleted()
	metrics.ObserveMatchDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("automatch.completed", map[string]any{
		"rfqId":   rfq.ID,
		"matched": len(vendorIDs),
	})
	return nil
}

func (m *AutoMatcher) notifyMatchedVendors(ctx context.Context, rfqID string, vendorIDs []string) {
	if m.Notifier == nil {
		return
	}
	for _, vendorID := range vendorIDs {
		vendor, err := m.Vendors.Get(ctx, vendorID)
		if err != nil {
			continue
		}
		m.Notifier.Notify(ctx, vendor.UserID, notifications.TypeRFQMatched,
			"New RFQ for you", "You were matched to a buyer's request", rfqID)
	}
}

func toMatchingVendors(list []vendors.Vendor) []matching.Vendor {
	out := make([]matching.Vendor, 0, len(list))
	for _, v := range list {
		out = append(out, toMatchingVendor(v))
	}
	return out
}

func stringField(fields map[string]any, name string) string {
	if s, ok := fields[name].(string); ok {
		return s
	}
	return ""
}

func floatField(fields map[string]any, name string) float64 {
	f, _ := numberValue(fields[name])
	return f
}
