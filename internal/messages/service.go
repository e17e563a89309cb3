package messages

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"jengahub-backend/internal/forms"
	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/rfqs"
	"jengahub-backend/internal/shared/storage/object"
	"jengahub-backend/internal/vendors"
)

const maxBodyLength = 4000

// RFQDirectory is the slice of RFQ storage the conversation layer needs to
// resolve participants. Satisfied by rfqs.Repo.
type RFQDirectory interface {
	GetByID(ctx context.Context, rfqID string) (rfqs.RFQ, error)
	ListAssignments(ctx context.Context, rfqID string) ([]rfqs.Assignment, error)
}

// Service contains business logic for RFQ conversations.
type Service struct {
	Repo     Repo
	RFQs     RFQDirectory
	Vendors  *vendors.Service
	Store    object.ObjectStore
	Notifier *notifications.Service
}

// FileUpload is an attachment submitted with a message.
type FileUpload struct {
	FileName string
	Reader   io.Reader
}

// Send records a message on an RFQ's conversation. Both ends must be
// participants: the RFQ's owner on one side and the user behind an assigned
// vendor on the other. A vendor sending an attachment is how quotations
// arrive.
func (s *Service) Send(ctx context.Context, rfqID, senderID, recipientID, body string, file *FileUpload) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" && file == nil {
		return Message{}, ErrInvalidInput
	}
	if len(body) > maxBodyLength {
		return Message{}, ErrInvalidInput
	}

	participants, ownerID, err := s.participants(ctx, rfqID)
	if err != nil {
		return Message{}, err
	}
	if !participants[senderID] || !participants[recipientID] || senderID == recipientID {
		return Message{}, ErrForbidden
	}

	msg := Message{
		ID:          uuid.NewString(),
		RFQID:       rfqID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}

	if file != nil {
		attachment, err := s.saveAttachment(ctx, senderID, file)
		if err != nil {
			return Message{}, err
		}
		msg.Attachment = &attachment
	}

	if err := s.Repo.Create(ctx, msg); err != nil {
		return Message{}, err
	}

	if s.Notifier != nil {
		kind := notifications.TypeMessage
		title := "New message"
		if senderID != ownerID && msg.Attachment != nil {
			kind = notifications.TypeQuoteArrived
			title = "Quotation received"
		}
		s.Notifier.Notify(ctx, recipientID, kind, title, truncate(body, 120), rfqID)
	}

	return msg, nil
}

// Thread returns the RFQ's conversation for one of its participants,
// oldest first.
func (s *Service) Thread(ctx context.Context, rfqID, requesterID string, limit, offset int) ([]Message, error) {
	participants, _, err := s.participants(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if !participants[requesterID] {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListByRFQ(ctx, rfqID, limit, offset)
}

// MarkRead flags a message as read by its recipient.
func (s *Service) MarkRead(ctx context.Context, requesterID, messageID string) error {
	return s.Repo.MarkRead(ctx, requesterID, messageID)
}

// OpenAttachment streams a message's attachment to a participant.
func (s *Service) OpenAttachment(ctx context.Context, requesterID, messageID string) (Attachment, io.ReadCloser, error) {
	msg, err := s.Repo.GetByID(ctx, messageID)
	if err != nil {
		return Attachment{}, nil, err
	}
	if msg.Attachment == nil {
		return Attachment{}, nil, ErrNotFound
	}
	if requesterID != msg.SenderID && requesterID != msg.RecipientID {
		return Attachment{}, nil, ErrForbidden
	}
	reader, err := s.Store.Open(ctx, msg.Attachment.StorageKey)
	if err != nil {
		return Attachment{}, nil, err
	}
	return *msg.Attachment, reader, nil
}

// participants resolves who may take part in the RFQ's conversation: its
// owner plus the users behind the assigned vendors.
func (s *Service) participants(ctx context.Context, rfqID string) (map[string]bool, string, error) {
	rfq, err := s.RFQs.GetByID(ctx, rfqID)
	if err != nil {
		return nil, "", err
	}
	assignments, err := s.RFQs.ListAssignments(ctx, rfqID)
	if err != nil {
		return nil, "", err
	}

	participants := map[string]bool{rfq.OwnerID: true}
	for _, a := range assignments {
		vendor, err := s.Vendors.Get(ctx, a.VendorID)
		if err != nil {
			continue
		}
		if vendor.UserID != "" {
			participants[vendor.UserID] = true
		}
	}
	return participants, rfq.OwnerID, nil
}

func (s *Service) saveAttachment(ctx context.Context, senderID string, file *FileUpload) (Attachment, error) {
	if strings.TrimSpace(file.FileName) == "" {
		return Attachment{}, ErrInvalidInput
	}

	// One byte over the limit distinguishes an oversized file from one that
	// is exactly at it.
	limited := io.LimitReader(file.Reader, forms.MaxImageBytes+1)
	key, size, mimeType, err := s.Store.Save(ctx, senderID, file.FileName, limited)
	if err != nil {
		return Attachment{}, err
	}
	if size > forms.MaxImageBytes {
		return Attachment{}, ErrInvalidInput
	}
	if !forms.IsImageContentType(mimeType) && mimeType != "application/pdf" {
		return Attachment{}, ErrInvalidInput
	}

	return Attachment{
		FileName:   file.FileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: key,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
