package vendors

import (
	"context"
	"testing"
	"time"
)

func seedRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	fixtures := []Vendor{
		{
			ID:                  "v-mason",
			CompanyName:         "Jenga Mason Works",
			PrimaryCategorySlug: "building_masonry",
			County:              "Nairobi",
			Rating:              4.5,
			Status:              StatusActive,
			CreatedAt:           time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:                  "v-plumber",
			CompanyName:         "FlowRight Plumbers",
			PrimaryCategorySlug: "plumbing_drainage",
			SecondaryCategories: []string{"building_masonry"},
			County:              "Kiambu",
			Rating:              4.8,
			Status:              StatusApproved,
			CreatedAt:           time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:                  "v-pending",
			CompanyName:         "Pending Painters",
			PrimaryCategorySlug: "painting_decorating",
			County:              "Nairobi",
			Rating:              5,
			Status:              StatusPending,
			CreatedAt:           time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, v := range fixtures {
		if err := repo.Create(context.Background(), v); err != nil {
			t.Fatalf("seed vendor %s: %v", v.ID, err)
		}
	}
	return repo
}

func TestListFiltersByStatus(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	list, err := svc.List(context.Background(), "", "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 listable vendors, got %d", len(list))
	}
	for _, v := range list {
		if v.Status == StatusPending {
			t.Fatalf("pending vendor %s leaked into list", v.ID)
		}
	}
}

func TestListCategoryMatchesSecondary(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	list, err := svc.List(context.Background(), "building_masonry", "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected primary+secondary matches, got %d", len(list))
	}
}

func TestListCountyCaseInsensitive(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	list, err := svc.List(context.Background(), "", "nairobi", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != "v-mason" {
		t.Fatalf("expected only v-mason in Nairobi, got %+v", list)
	}
}

func TestListUnknownCategoryRejected(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	if _, err := svc.List(context.Background(), "underwater_basket_weaving", "", 0); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListAcceptsCategoryLabel(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	list, err := svc.List(context.Background(), "Plumbing & Drainage", "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != "v-plumber" {
		t.Fatalf("expected label lookup to resolve to plumbing vendor, got %+v", list)
	}
}

func TestListLimitCapped(t *testing.T) {
	repo := NewMemoryRepo()
	for i := 0; i < 60; i++ {
		v := Vendor{
			ID:                  "v-" + time.Duration(i).String(),
			PrimaryCategorySlug: "building_masonry",
			County:              "Nairobi",
			Status:              StatusActive,
		}
		if err := repo.Create(context.Background(), v); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := &Service{Repo: repo}

	list, err := svc.List(context.Background(), "", "", 1000)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != maxListLimit {
		t.Fatalf("expected limit cap %d, got %d", maxListLimit, len(list))
	}
}

func TestGetHidesUnlistableVendors(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	if _, err := svc.Get(context.Background(), "v-pending"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for pending vendor, got %v", err)
	}

	vendor, err := svc.Get(context.Background(), "v-mason")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if vendor.CompanyName != "Jenga Mason Works" {
		t.Fatalf("unexpected vendor: %+v", vendor)
	}
}

func TestGetMissingVendor(t *testing.T) {
	svc := &Service{Repo: seedRepo(t)}

	if _, err := svc.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), ""); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
}
