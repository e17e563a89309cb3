package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"jengahub-backend/internal/notifications"
	"jengahub-backend/internal/rfqs"
)

type Service struct {
	RFQRepo  rfqs.Repo
	NoteRepo notifications.Repo
}

type ClaimResult struct {
	MigratedRFQs          int `json:"migratedRfqs"`
	MigratedNotifications int `json:"migratedNotifications"`
}

func NewService(rfqRepo rfqs.Repo, noteRepo notifications.Repo) *Service {
	return &Service{RFQRepo: rfqRepo, NoteRepo: noteRepo}
}

// ClaimGuest moves RFQs and their notifications from a guest identity to the
// authed user. Drafts and quota counters stay under the guest key: drafts
// expire on their own, and consumed quota does not transfer to a real account.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	if rfqPG, ok := s.RFQRepo.(*rfqs.PGRepo); ok && rfqPG != nil && rfqPG.DB != nil {
		if notePG, ok := s.NoteRepo.(*notifications.PGRepo); ok && notePG != nil && notePG.DB != nil {
			return claimWithTx(ctx, rfqPG.DB, guestUserID, authedUserID)
		}
	}

	rfqCount, err := claimRFQs(ctx, s.RFQRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	noteCount, err := claimNotifications(ctx, s.NoteRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedRFQs: rfqCount, MigratedNotifications: noteCount}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	rfqRes, err := tx.ExecContext(ctx, `UPDATE rfqs SET owner_id = $1 WHERE owner_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	rfqCount, _ := rfqRes.RowsAffected()

	noteRes, err := tx.ExecContext(ctx, `UPDATE notifications SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	noteCount, _ := noteRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedRFQs: int(rfqCount), MigratedNotifications: int(noteCount)}, nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claimRFQs(ctx context.Context, repo rfqs.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("rfq repo does not support claim")
}

func claimNotifications(ctx context.Context, repo notifications.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("notifications repo does not support claim")
}
