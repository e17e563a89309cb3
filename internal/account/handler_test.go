package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/rfqs"
)

func newClaimRouter(rfqRepo rfqs.Repo, noteRepo notifications.Repo, userID string, guest bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewService(rfqRepo, noteRepo))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("isGuest", guest)
		c.Next()
	})
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func TestClaimGuestMigratesData(t *testing.T) {
	rfqRepo := rfqs.NewMemoryRepo()
	noteRepo := notifications.NewMemoryRepo()
	router := newClaimRouter(rfqRepo, noteRepo, "user:u-1", false)

	guestID := "11111111-1111-1111-1111-111111111111"
	guestUserID := "guest:" + guestID

	rfq := rfqs.RFQ{
		ID:           "rfq-1",
		OwnerID:      guestUserID,
		RFQType:      rfqs.TypeWizard,
		CategorySlug: "plumbing_drainage",
		Status:       rfqs.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := rfqRepo.Create(context.Background(), rfq); err != nil {
		t.Fatalf("create rfq: %v", err)
	}
	note := notifications.Notification{
		ID:        "note-1",
		UserID:    guestUserID,
		Type:      notifications.TypeRFQReceived,
		Title:     "Request received",
		RFQID:     rfq.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := noteRepo.Create(context.Background(), note); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	owned, err := rfqRepo.ListByOwner(context.Background(), "user:u-1", 10, 0)
	if err != nil {
		t.Fatalf("list rfqs: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected 1 migrated rfq, got %d", len(owned))
	}

	notes, err := noteRepo.ListByUser(context.Background(), "user:u-1", 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 migrated notification, got %d", len(notes))
	}
}

func TestClaimGuestIdempotentAndIsolated(t *testing.T) {
	rfqRepo := rfqs.NewMemoryRepo()
	noteRepo := notifications.NewMemoryRepo()
	router := newClaimRouter(rfqRepo, noteRepo, "user:u-1", false)

	guestID := "22222222-2222-2222-2222-222222222222"
	guestUserID := "guest:" + guestID

	rfq := rfqs.RFQ{
		ID:           "rfq-2",
		OwnerID:      guestUserID,
		RFQType:      rfqs.TypeWizard,
		CategorySlug: "plumbing_drainage",
		Status:       rfqs.StatusMatched,
		CreatedAt:    time.Now().UTC(),
	}
	if err := rfqRepo.Create(context.Background(), rfq); err != nil {
		t.Fatalf("create rfq: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req2.Header.Set("X-Guest-Id", guestID)
	resp2 := httptest.NewRecorder()
	router.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected status 200 on idempotent call, got %d", resp2.Code)
	}

	owned, err := rfqRepo.ListByOwner(context.Background(), "user:u-2", 10, 0)
	if err != nil {
		t.Fatalf("list rfqs: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("expected no rfqs for other user, got %d", len(owned))
	}
}

func TestClaimGuestRejectsGuestCaller(t *testing.T) {
	router := newClaimRouter(rfqs.NewMemoryRepo(), notifications.NewMemoryRepo(), "guest:abc", true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", "33333333-3333-3333-3333-333333333333")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestClaimGuestRejectsBadGuestID(t *testing.T) {
	router := newClaimRouter(rfqs.NewMemoryRepo(), notifications.NewMemoryRepo(), "user:u-1", false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", "not-a-uuid")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
