package messages

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/rfqs"
	"jengahub-backend/internal/shared/storage/object/local"
	"jengahub-backend/internal/vendors"
)

// pngBytes is a minimal PNG signature, enough for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

type fixture struct {
	svc      *Service
	rfqRepo  *rfqs.MemoryRepo
	notifier *notifications.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	rfqRepo := rfqs.NewMemoryRepo()
	if err := rfqRepo.Create(ctx, rfqs.RFQ{
		ID:           "rfq-1",
		OwnerID:      "user:buyer",
		RFQType:      rfqs.TypeWizard,
		CategorySlug: "plumbing_drainage",
	}); err != nil {
		t.Fatalf("seed rfq: %v", err)
	}
	if err := rfqRepo.AddAssignments(ctx, []rfqs.Assignment{
		{RFQID: "rfq-1", VendorID: "v-1", MatchScore: 80},
	}); err != nil {
		t.Fatalf("seed assignment: %v", err)
	}

	vendorRepo := vendors.NewMemoryRepo()
	if err := vendorRepo.Create(ctx, vendors.Vendor{
		ID:                  "v-1",
		UserID:              "user:vendor",
		CompanyName:         "Mto Plumbers",
		PrimaryCategorySlug: "plumbing_drainage",
		Status:              vendors.StatusActive,
	}); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	notifier := notifications.NewService(notifications.NewMemoryRepo(), nil)
	svc := &Service{
		Repo:     NewMemoryRepo(),
		RFQs:     rfqRepo,
		Vendors:  &vendors.Service{Repo: vendorRepo},
		Store:    local.New(t.TempDir()),
		Notifier: notifier,
	}
	return &fixture{svc: svc, rfqRepo: rfqRepo, notifier: notifier}
}

func TestSendAndThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, "rfq-1", "user:buyer", "user:vendor", "When can you start?", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.ID == "" || msg.RFQID != "rfq-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	if _, err := f.svc.Send(ctx, "rfq-1", "user:vendor", "user:buyer", "Tomorrow morning.", nil); err != nil {
		t.Fatalf("reply: %v", err)
	}

	thread, err := f.svc.Thread(ctx, "rfq-1", "user:buyer", 0, 0)
	if err != nil {
		t.Fatalf("Thread: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("got %d messages, want 2", len(thread))
	}
	if thread[0].Body != "When can you start?" || thread[1].Body != "Tomorrow morning." {
		t.Fatalf("thread out of order: %+v", thread)
	}

	// The vendor sees the same thread.
	if _, err := f.svc.Thread(ctx, "rfq-1", "user:vendor", 0, 0); err != nil {
		t.Fatalf("vendor Thread: %v", err)
	}
}

func TestSendRejectsOutsiders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Send(ctx, "rfq-1", "user:stranger", "user:buyer", "hi", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outside sender err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Send(ctx, "rfq-1", "user:buyer", "user:stranger", "hi", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outside recipient err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Thread(ctx, "rfq-1", "user:stranger", 0, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outside reader err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Send(ctx, "rfq-missing", "user:buyer", "user:vendor", "hi", nil); !errors.Is(err, rfqs.ErrNotFound) {
		t.Fatalf("missing rfq err = %v, want rfqs.ErrNotFound", err)
	}
}

func TestSendRequiresBodyOrAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Send(ctx, "rfq-1", "user:buyer", "user:vendor", "   ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestVendorAttachmentArrivesAsQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, "rfq-1", "user:vendor", "user:buyer", "Here is our quotation",
		&FileUpload{FileName: "quote.png", Reader: bytes.NewReader(pngBytes)})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Attachment == nil {
		t.Fatal("attachment missing")
	}
	if msg.Attachment.MimeType != "image/png" {
		t.Fatalf("mime = %q", msg.Attachment.MimeType)
	}

	notes, err := f.notifier.List(ctx, "user:buyer", 0)
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != notifications.TypeQuoteArrived {
		t.Fatalf("notifications = %+v", notes)
	}

	attachment, reader, err := f.svc.OpenAttachment(ctx, "user:buyer", msg.ID)
	if err != nil {
		t.Fatalf("OpenAttachment: %v", err)
	}
	defer reader.Close()
	if attachment.FileName != "quote.png" {
		t.Fatalf("fileName = %q", attachment.FileName)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	if !bytes.Equal(data, pngBytes) {
		t.Fatal("attachment content mismatch")
	}

	if _, _, err := f.svc.OpenAttachment(ctx, "user:stranger", msg.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider download err = %v, want ErrForbidden", err)
	}
}

func TestAttachmentRejectsUnsupportedType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, "rfq-1", "user:buyer", "user:vendor", "",
		&FileUpload{FileName: "notes.txt", Reader: strings.NewReader("plain text file")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, "rfq-1", "user:buyer", "user:vendor", "ping", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Only the recipient can mark it read.
	if err := f.svc.MarkRead(ctx, "user:buyer", msg.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("sender MarkRead err = %v, want ErrNotFound", err)
	}
	if err := f.svc.MarkRead(ctx, "user:vendor", msg.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	thread, _ := f.svc.Thread(ctx, "rfq-1", "user:vendor", 0, 0)
	if !thread[0].Read {
		t.Fatal("message not marked read")
	}
}
