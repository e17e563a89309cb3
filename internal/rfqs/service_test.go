package rfqs

import (
	"context"
	"errors"
	"testing"

	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/quota"
	"jengahub-backend/internal/queue"
	"jengahub-backend/internal/vendors"
)

type fakeQueue struct {
	sent []queue.Message
	err  error
}

func (q *fakeQueue) Send(ctx context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, msg)
	return nil
}

type serviceFixture struct {
	svc        *Service
	repo       *MemoryRepo
	vendorRepo *vendors.MemoryRepo
	noteRepo   *notifications.MemoryRepo
	notifier   *notifications.Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	repo := NewMemoryRepo()
	vendorRepo := vendors.NewMemoryRepo()
	vendorSvc := &vendors.Service{Repo: vendorRepo}
	noteRepo := notifications.NewMemoryRepo()
	notifier := notifications.NewService(noteRepo, []string{"user:admin"})

	matcher := &AutoMatcher{
		Repo:     repo,
		Vendors:  vendorSvc,
		Notifier: notifier,
	}
	svc := &Service{
		Repo:     repo,
		Vendors:  vendorSvc,
		Quota:    quota.NewService(),
		Notifier: notifier,
		Matcher:  matcher,
	}
	return &serviceFixture{
		svc:        svc,
		repo:       repo,
		vendorRepo: vendorRepo,
		noteRepo:   noteRepo,
		notifier:   notifier,
	}
}

func (f *serviceFixture) seedPlumbers(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	seed := []vendors.Vendor{
		{
			ID:                  "v-mto",
			UserID:              "user:vendor-mto",
			CompanyName:         "Mto Plumbers",
			PrimaryCategorySlug: "plumbing_drainage",
			County:              "Nairobi",
			Town:                "Westlands",
			Rating:              4.6,
			Verified:            true,
			Status:              vendors.StatusActive,
		},
		{
			ID:                  "v-bomba",
			UserID:              "user:vendor-bomba",
			CompanyName:         "Bomba Works",
			PrimaryCategorySlug: "plumbing_drainage",
			County:              "Nairobi",
			Rating:              4.1,
			Status:              vendors.StatusApproved,
		},
	}
	for _, v := range seed {
		if err := f.vendorRepo.Create(ctx, v); err != nil {
			t.Fatalf("seed vendor %s: %v", v.ID, err)
		}
	}
}

func validWizardSubmission() Submission {
	return Submission{
		RFQType:      TypeWizard,
		CategorySlug: "plumbing_drainage",
		TemplateFields: map[string]any{
			"jobNature":    "Repair / leak",
			"propertyType": "Residential",
			"urgency":      "Emergency",
		},
		SharedFields: map[string]any{
			"projectTitle":   "Fix kitchen leak",
			"projectSummary": "Leaking sink trap flooding the cabinet",
			"county":         "Nairobi",
			"town":           "Westlands",
			"budgetMin":      float64(5000),
			"budgetMax":      float64(20000),
		},
		AllowOtherVendors: true,
		UserID:            "user:buyer",
	}
}

func TestCreateWizardMatchesInlineWithoutQueue(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	rfq, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := f.repo.GetByID(ctx, rfq.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusMatched {
		t.Fatalf("status = %q, want %q", stored.Status, StatusMatched)
	}

	assignments, err := f.repo.ListAssignments(ctx, rfq.ID)
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("got %d assignments, want 2", len(assignments))
	}
	for _, a := range assignments {
		if a.MatchScore <= 0 {
			t.Fatalf("assignment %s has no score", a.VendorID)
		}
		if a.MatchReason == "" {
			t.Fatalf("assignment %s has no reason", a.VendorID)
		}
	}

	// Both the buyer and the matched vendors hear about it.
	buyerNotes, _ := f.notifier.List(ctx, "user:buyer", 0)
	if len(buyerNotes) != 1 || buyerNotes[0].Type != notifications.TypeRFQReceived {
		t.Fatalf("buyer notifications = %+v", buyerNotes)
	}
	vendorNotes, _ := f.notifier.List(ctx, "user:vendor-mto", 0)
	if len(vendorNotes) != 1 || vendorNotes[0].Type != notifications.TypeRFQMatched {
		t.Fatalf("vendor notifications = %+v", vendorNotes)
	}
}

func TestCreateWizardEnqueuesWhenQueuePresent(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	q := &fakeQueue{}
	f.svc.Queue = q
	ctx := context.Background()

	rfq, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(q.sent) != 1 {
		t.Fatalf("got %d queued messages, want 1", len(q.sent))
	}
	msg := q.sent[0]
	if msg.RFQID != rfq.ID {
		t.Fatalf("queued rfqId = %q, want %q", msg.RFQID, rfq.ID)
	}
	if msg.Version != 1 || msg.RequestID == "" || msg.EnqueuedAt == "" {
		t.Fatalf("queued message incomplete: %+v", msg)
	}

	// Matching is deferred to the worker, so the RFQ stays pending.
	stored, _ := f.repo.GetByID(ctx, rfq.ID)
	if stored.Status != StatusPending {
		t.Fatalf("status = %q, want %q", stored.Status, StatusPending)
	}
}

func TestCreateWizardFallsBackInlineOnQueueError(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	f.svc.Queue = &fakeQueue{err: errors.New("sqs unreachable")}
	ctx := context.Background()

	rfq, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, _ := f.repo.GetByID(ctx, rfq.ID)
	if stored.Status != StatusMatched {
		t.Fatalf("status = %q, want %q after inline fallback", stored.Status, StatusMatched)
	}
}

func TestCreateDirectAssignsSelectedVendors(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	sub := validWizardSubmission()
	sub.RFQType = TypeDirect
	sub.SelectedVendors = []string{"v-mto", "v-bomba"}

	rfq, err := f.svc.Create(ctx, sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	assignments, _ := f.repo.ListAssignments(ctx, rfq.ID)
	if len(assignments) != 2 {
		t.Fatalf("got %d assignments, want 2", len(assignments))
	}
	for _, a := range assignments {
		if a.MatchReason != "Selected by buyer" {
			t.Fatalf("reason = %q", a.MatchReason)
		}
	}
	stored, _ := f.repo.GetByID(ctx, rfq.ID)
	if stored.Status != StatusMatched {
		t.Fatalf("status = %q, want %q", stored.Status, StatusMatched)
	}
}

func TestCreateVendorRequestNeedsExactlyOneVendor(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	sub := validWizardSubmission()
	sub.RFQType = TypeVendorRequest
	sub.SelectedVendors = []string{"v-mto", "v-bomba"}
	if _, err := f.svc.Create(ctx, sub); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("two vendors: err = %v, want ErrInvalidInput", err)
	}

	sub.SelectedVendors = []string{"v-mto"}
	if _, err := f.svc.Create(ctx, sub); err != nil {
		t.Fatalf("one vendor: %v", err)
	}
}

func TestCreatePublicStaysPending(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	sub := validWizardSubmission()
	sub.RFQType = TypePublic
	sub.Visibility = VisibilityCounty
	sub.ResponseCap = 5

	rfq, err := f.svc.Create(ctx, sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored, _ := f.repo.GetByID(ctx, rfq.ID)
	if stored.Status != StatusPending {
		t.Fatalf("status = %q, want %q", stored.Status, StatusPending)
	}
}

func TestCreateEnforcesMonthlyQuota(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Create(ctx, validWizardSubmission()); err != nil {
			t.Fatalf("submission %d: %v", i+1, err)
		}
	}

	_, err := f.svc.Create(ctx, validWizardSubmission())
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}

	// A different owner is unaffected.
	sub := validWizardSubmission()
	sub.UserID = "user:other"
	if _, err := f.svc.Create(ctx, sub); err != nil {
		t.Fatalf("other owner: %v", err)
	}
}

func TestCreateGuestOwnerKeyedByEmail(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	sub := validWizardSubmission()
	sub.UserID = ""
	sub.GuestEmail = "Guest@Example.com"

	rfq, err := f.svc.Create(ctx, sub)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rfq.OwnerID != "guest-email:guest@example.com" {
		t.Fatalf("ownerID = %q", rfq.OwnerID)
	}

	if _, _, err := f.svc.Get(ctx, "guest-email:guest@example.com", rfq.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
}

func TestAutoMatchZeroCandidatesEscalates(t *testing.T) {
	f := newServiceFixture(t)
	// No vendors seeded at all.
	ctx := context.Background()

	rfq, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, _ := f.repo.GetByID(ctx, rfq.ID)
	if stored.Status != StatusNeedsAdminReview {
		t.Fatalf("status = %q, want %q", stored.Status, StatusNeedsAdminReview)
	}

	adminNotes, _ := f.notifier.List(ctx, "user:admin", 0)
	if len(adminNotes) != 1 || adminNotes[0].Type != notifications.TypeAdminReview {
		t.Fatalf("admin notifications = %+v", adminNotes)
	}
	if adminNotes[0].RFQID != rfq.ID {
		t.Fatalf("admin notification rfqId = %q, want %q", adminNotes[0].RFQID, rfq.ID)
	}
}

func TestGetHidesOtherOwnersRFQs(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	rfq, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := f.svc.Get(ctx, "user:someone-else", rfq.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListReturnsOwnRFQsNewestFirst(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := f.svc.Create(ctx, validWizardSubmission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := f.svc.List(ctx, "user:buyer", 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d RFQs, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
}

func TestCreateValidationRejections(t *testing.T) {
	f := newServiceFixture(t)
	f.seedPlumbers(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"unknown type", func(s *Submission) { s.RFQType = "broadcast" }},
		{"unknown category", func(s *Submission) { s.CategorySlug = "carpet_cleaning" }},
		{"missing template field", func(s *Submission) { delete(s.TemplateFields, "jobNature") }},
		{"missing shared field", func(s *Submission) { delete(s.SharedFields, "projectTitle") }},
		{"budget inverted", func(s *Submission) { s.SharedFields["budgetMin"] = float64(50000) }},
		{"wizard without recipients", func(s *Submission) {
			s.AllowOtherVendors = false
			s.SelectedVendors = nil
		}},
		{"no identity", func(s *Submission) {
			s.UserID = ""
			s.GuestEmail = "  "
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validWizardSubmission()
			tc.mutate(&sub)
			if _, err := f.svc.Create(ctx, sub); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRecipientsPreviewSplitsSpecialists(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seed := []vendors.Vendor{
		{
			ID:                  "v-primary",
			CompanyName:         "Primary Plumbing",
			PrimaryCategorySlug: "plumbing_drainage",
			County:              "Nairobi",
			Rating:              4.5,
			Status:              vendors.StatusActive,
		},
		{
			ID:                  "v-secondary",
			CompanyName:         "General Builders",
			PrimaryCategorySlug: "building_masonry",
			SecondaryCategories: []string{"plumbing_drainage"},
			County:              "Nairobi",
			Rating:              4.0,
			Status:              vendors.StatusActive,
		},
	}
	for _, v := range seed {
		if err := f.vendorRepo.Create(ctx, v); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	preview, err := f.svc.Recipients(ctx, "plumbing_drainage", "Nairobi", "")
	if err != nil {
		t.Fatalf("Recipients: %v", err)
	}
	if len(preview.Specialists) != 1 || preview.Specialists[0].ID != "v-primary" {
		t.Fatalf("specialists = %+v", preview.Specialists)
	}
	if len(preview.Others) != 1 || preview.Others[0].ID != "v-secondary" {
		t.Fatalf("others = %+v", preview.Others)
	}
	if len(preview.Matches) == 0 {
		t.Fatal("expected ranked matches")
	}
	if preview.Matches[0].ID != "v-primary" {
		t.Fatalf("top match = %q, want v-primary", preview.Matches[0].ID)
	}

	if _, err := f.svc.Recipients(ctx, "nonexistent", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown category err = %v, want ErrInvalidInput", err)
	}
}
