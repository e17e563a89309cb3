package messages

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const messageColumns = `
id, rfq_id, sender_id, recipient_id, body,
attachment_file_name, attachment_mime_type, attachment_size_bytes, attachment_storage_key,
read, created_at`

func (r *PGRepo) Create(ctx context.Context, msg Message) error {
	const query = `
INSERT INTO rfq_messages (` + messageColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var fileName, mimeType, storageKey any
	var sizeBytes any
	if msg.Attachment != nil {
		fileName = msg.Attachment.FileName
		mimeType = msg.Attachment.MimeType
		sizeBytes = msg.Attachment.SizeBytes
		storageKey = msg.Attachment.StorageKey
	}
	_, err := r.DB.ExecContext(ctx, query,
		msg.ID, msg.RFQID, msg.SenderID, msg.RecipientID, msg.Body,
		fileName, mimeType, sizeBytes, storageKey,
		msg.Read, msg.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, messageID string) (Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM rfq_messages WHERE id = $1`
	msg, err := scanMessage(r.DB.QueryRowContext(ctx, query, messageID))
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return msg, err
}

func (r *PGRepo) ListByRFQ(ctx context.Context, rfqID string, limit, offset int) ([]Message, error) {
	const query = `
SELECT ` + messageColumns + `
FROM rfq_messages
WHERE rfq_id = $1
ORDER BY created_at ASC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, rfqID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func (r *PGRepo) MarkRead(ctx context.Context, recipientID, messageID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE rfq_messages SET read = TRUE WHERE id = $1 AND recipient_id = $2`, messageID, recipientID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (Message, error) {
	var msg Message
	var fileName, mimeType, storageKey sql.NullString
	var sizeBytes sql.NullInt64
	err := row.Scan(
		&msg.ID, &msg.RFQID, &msg.SenderID, &msg.RecipientID, &msg.Body,
		&fileName, &mimeType, &sizeBytes, &storageKey,
		&msg.Read, &msg.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	if storageKey.Valid {
		msg.Attachment = &Attachment{
			FileName:   fileName.String,
			MimeType:   mimeType.String,
			SizeBytes:  sizeBytes.Int64,
			StorageKey: storageKey.String,
		}
	}
	return msg, nil
}

var _ Repo = (*PGRepo)(nil)
