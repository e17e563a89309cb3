package rfqs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"jengahub-backend/internal/catalog"
	"jengahub-backend/internal/forms"
	"jengahub-backend/internal/matching"
	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/quota"
	"jengahub-backend/internal/queue"
	"jengahub-backend/internal/shared/metrics"
	"jengahub-backend/internal/shared/telemetry"
	"jengahub-backend/internal/vendors"
)

// Service contains business logic for RFQ creation and lookup.
type Service struct {
	Repo     Repo
	Vendors  *vendors.Service
	Quota    *quota.Service
	Notifier *notifications.Service
	Matcher  *AutoMatcher

	// Queue carries async auto-match jobs for wizard RFQs. When nil or
	// failing, matching runs inline.
	Queue queue.Client
}

// Submit implements the flow's Submitter contract.
func (s *Service) Submit(ctx context.Context, sub Submission) (string, error) {
	rfq, err := s.Create(ctx, sub)
	if err != nil {
		return "", err
	}
	return rfq.ID, nil
}

// Create validates the submission, enforces the monthly quota, persists the
// RFQ, and kicks off recipient assignment for its type.
func (s *Service) Create(ctx context.Context, sub Submission) (RFQ, error) {
	if err := s.validate(&sub); err != nil {
		return RFQ{}, err
	}

	ownerID := sub.UserID
	if ownerID == "" {
		// Guests are tracked by their contact email for quota purposes.
		ownerID = "guest-email:" + strings.ToLower(sub.GuestEmail)
	}

	// Quota check. A broken quota store must not block submissions.
	if s.Quota != nil {
		ok, _, err := s.Quota.CanConsume(ctx, ownerID, 1)
		if err != nil {
			telemetry.Error("rfq.quota.check_failed", map[string]any{
				"ownerId": ownerID,
				"err":     err.Error(),
			})
		} else if !ok {
			return RFQ{}, ErrQuotaExceeded
		}
	}

	rfq := RFQ{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		RFQType:            sub.RFQType,
		CategorySlug:       sub.CategorySlug,
		JobTypeSlug:        sub.JobTypeSlug,
		TemplateFields:     sub.TemplateFields,
		SharedFields:       sub.SharedFields,
		ReferenceImages:    sub.ReferenceImages,
		SelectedVendors:    sub.SelectedVendors,
		AllowOtherVendors:  sub.AllowOtherVendors,
		Visibility:         sub.Visibility,
		ResponseCap:        sub.ResponseCap,
		GuestEmail:         sub.GuestEmail,
		GuestPhone:         sub.GuestPhone,
		GuestPhoneVerified: sub.GuestPhoneVerified,
		Status:             StatusPending,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, rfq); err != nil {
		return RFQ{}, err
	}
	metrics.IncRFQSubmitted()

	if s.Quota != nil {
		if _, err := s.Quota.Consume(ctx, ownerID, 1); err != nil && !errors.Is(err, quota.ErrLimitReached) {
			telemetry.Error("rfq.quota.consume_failed", map[string]any{
				"ownerId": ownerID,
				"err":     err.Error(),
			})
		}
	}

	s.dispatch(ctx, &rfq)

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, ownerID, notifications.TypeRFQReceived,
			"RFQ received", "Your request is being sent to vendors", rfq.ID)
	}

	return rfq, nil
}

// dispatch routes the new RFQ to its recipients according to its type.
// Failures here never fail the creation: the RFQ is already persisted and
// an operator can re-drive assignment.
func (s *Service) dispatch(ctx context.Context, rfq *RFQ) {
	switch rfq.RFQType {
	case TypeDirect, TypeVendorRequest:
		s.assignSelected(ctx, rfq)
	case TypeWizard:
		s.enqueueAutoMatch(ctx, rfq)
	case TypePublic:
		// Public RFQs stay pending until vendors respond through the board.
	}
}

func (s *Service) assignSelected(ctx context.Context, rfq *RFQ) {
	now := time.Now().UTC()
	assignments := make([]Assignment, 0, len(rfq.SelectedVendors))
	for _, vendorID := range rfq.SelectedVendors {
		assignments = append(assignments, Assignment{
			RFQID:       rfq.ID,
			VendorID:    vendorID,
			MatchReason: "Selected by buyer",
			AssignedAt:  now,
		})
	}
	if err := s.Repo.AddAssignments(ctx, assignments); err != nil {
		telemetry.Error("rfq.assign.failed", map[string]any{
			"rfqId": rfq.ID,
			"err":   err.Error(),
		})
		return
	}
	if err := s.Repo.UpdateStatus(ctx, rfq.ID, StatusMatched); err != nil {
		telemetry.Error("rfq.status.failed", map[string]any{
			"rfqId": rfq.ID,
			"err":   err.Error(),
		})
		return
	}
	rfq.Status = StatusMatched
	s.notifyVendors(ctx, rfq.ID, rfq.SelectedVendors)
}

func (s *Service) enqueueAutoMatch(ctx context.Context, rfq *RFQ) {
	if s.Queue != nil {
		msg := queue.Message{
			RFQID:      rfq.ID,
			RequestID:  uuid.NewString(),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		telemetry.Error("rfq.enqueue.failed", map[string]any{
			"rfqId": rfq.ID,
			"err":   err.Error(),
		})
	}

	// Inline fallback keeps wizard RFQs moving without a queue.
	if s.Matcher != nil {
		if err := s.Matcher.Process(ctx, rfq.ID); err != nil {
			telemetry.Error("rfq.automatch.inline_failed", map[string]any{
				"rfqId": rfq.ID,
				"err":   err.Error(),
			})
		}
	}
}

func (s *Service) notifyVendors(ctx context.Context, rfqID string, vendorIDs []string) {
	if s.Notifier == nil || s.Vendors == nil {
		return
	}
	for _, vendorID := range vendorIDs {
		vendor, err := s.Vendors.Get(ctx, vendorID)
		if err != nil {
			continue
		}
		s.Notifier.Notify(ctx, vendor.UserID, notifications.TypeRFQMatched,
			"New RFQ for you", "A buyer has requested a quotation", rfqID)
	}
}

// Get returns an RFQ visible to the requesting owner, with its vendor
// assignments attached.
func (s *Service) Get(ctx context.Context, ownerID, rfqID string) (RFQ, []Assignment, error) {
	rfq, err := s.Repo.GetByID(ctx, rfqID)
	if err != nil {
		return RFQ{}, nil, err
	}
	if rfq.OwnerID != ownerID {
		return RFQ{}, nil, ErrNotFound
	}
	assignments, err := s.Repo.ListAssignments(ctx, rfqID)
	if err != nil {
		return RFQ{}, nil, err
	}
	return rfq, assignments, nil
}

// List returns the owner's RFQs, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]RFQ, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// RecipientsPreview is the vendor selection offered on the recipients step:
// a ranked match list plus the specialists/others split used by direct
// flows.
type RecipientsPreview struct {
	Matches     []matching.Candidate
	Specialists []vendors.Vendor
	Others      []vendors.Vendor
}

// Recipients computes the vendor candidates for a category and location.
func (s *Service) Recipients(ctx context.Context, categorySlug, county, town string) (RecipientsPreview, error) {
	cat, ok := catalog.CategoryBySlug(categorySlug)
	if !ok {
		return RecipientsPreview{}, ErrInvalidInput
	}

	list, err := s.Vendors.Matchable(ctx, cat.Slug)
	if err != nil {
		return RecipientsPreview{}, err
	}

	pool := make([]matching.Vendor, 0, len(list))
	byID := make(map[string]vendors.Vendor, len(list))
	for _, v := range list {
		pool = append(pool, toMatchingVendor(v))
		byID[v.ID] = v
	}

	preview := RecipientsPreview{
		Matches: matching.Match(pool, matching.Criteria{
			CategorySlug: cat.Slug,
			County:       county,
			Town:         town,
		}, matching.Options{}),
		Specialists: []vendors.Vendor{},
		Others:      []vendors.Vendor{},
	}

	for _, mv := range matching.FilterByCategory(pool, cat.Slug) {
		if v, ok := byID[mv.ID]; ok {
			if v.PrimaryCategorySlug == cat.Slug {
				preview.Specialists = append(preview.Specialists, v)
			} else {
				preview.Others = append(preview.Others, v)
			}
		}
	}
	return preview, nil
}

func toMatchingVendor(v vendors.Vendor) matching.Vendor {
	return matching.Vendor{
		ID:                  v.ID,
		Name:                v.CompanyName,
		PrimaryCategorySlug: v.PrimaryCategorySlug,
		SecondaryCategories: v.SecondaryCategories,
		County:              v.County,
		Town:                v.Town,
		Rating:              v.Rating,
		ReviewCount:         v.ReviewCount,
		Verified:            v.Verified,
		ResponseTimeHours:   v.ResponseTimeHours,
		RFQsCompleted:       v.RFQsCompleted,
		PriceRange:          v.PriceRange,
	}
}

// validate enforces the submission invariants server-side, mirroring the
// per-step flow validation.
func (s *Service) validate(sub *Submission) error {
	if !ValidType(sub.RFQType) {
		return ErrInvalidInput
	}

	cat, ok := catalog.CategoryBySlug(sub.CategorySlug)
	if !ok {
		return ErrInvalidInput
	}
	sub.CategorySlug = cat.Slug
	if sub.JobTypeSlug == "" {
		sub.JobTypeSlug = catalog.ImplicitJobType(cat.Slug)
	}
	if catalog.RequiresJobType(cat.Slug) {
		if _, ok := catalog.JobTypeBySlug(cat.Slug, sub.JobTypeSlug); !ok {
			return ErrInvalidInput
		}
	}

	if errs := forms.ValidateValues(catalog.FieldsFor(sub.CategorySlug, sub.JobTypeSlug), sub.TemplateFields); len(errs) > 0 {
		return ErrInvalidInput
	}
	if errs := forms.ValidateValues(catalog.SharedFields(), sub.SharedFields); len(errs) > 0 {
		return ErrInvalidInput
	}
	if minVal, okMin := numberValue(sub.SharedFields["budgetMin"]); okMin {
		if maxVal, okMax := numberValue(sub.SharedFields["budgetMax"]); okMax && minVal > maxVal {
			return ErrInvalidInput
		}
	}

	switch sub.RFQType {
	case TypeDirect:
		if len(sub.SelectedVendors) == 0 {
			return ErrInvalidInput
		}
	case TypeWizard:
		if len(sub.SelectedVendors) == 0 && !sub.AllowOtherVendors {
			return ErrInvalidInput
		}
	case TypeVendorRequest:
		if len(sub.SelectedVendors) != 1 {
			return ErrInvalidInput
		}
	}

	if len(sub.ReferenceImages) > forms.MaxReferenceImages {
		return ErrInvalidInput
	}

	if sub.UserID == "" && strings.TrimSpace(sub.GuestEmail) == "" {
		return ErrInvalidInput
	}
	return nil
}
