package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "comercia/internal/core/context"
	"comercia/internal/core/id"
	"comercia/pkg/logger"
)

// ActivityAction represents the type of logged operation.
type ActivityAction string

const (
	ActivityActionCreate     ActivityAction = "create"
	ActivityActionUpdate     ActivityAction = "update"
	ActivityActionSoftDelete ActivityAction = "soft_delete"
	ActivityActionReturn     ActivityAction = "return"
	ActivityActionPayment    ActivityAction = "payment"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ActivityEntry represents a single activity log entry.
type ActivityEntry struct {
	ID                id.ID           `db:"id"`
	BusinessID        *id.ID          `db:"business_id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            ActivityAction  `db:"action"`
	UserID            string          `db:"user_id"`
	UserEmail         string          `db:"user_email"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// ActivityService writes the append-only activity log. Payloads above
// the threshold are stored zstd-compressed.
type ActivityService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewActivityService creates a new activity service.
func NewActivityService(txManager *TxManager) (*ActivityService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ActivityService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record logs an entity action with its payload. Best effort: failures
// are logged and swallowed so a broken activity table never blocks the
// operation that triggered it.
func (s *ActivityService) Record(ctx context.Context, action string, entityKind string, entityID id.ID, payload any) {
	var changes json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Warn(ctx, "marshal activity payload failed", "error", err)
			return
		}
		changes = data
	}

	entry := ActivityEntry{
		EntityType: entityKind,
		EntityID:   entityID,
		Action:     ActivityAction(action),
		Changes:    changes,
	}
	if err := s.Log(ctx, entry); err != nil {
		logger.Warn(ctx, "write activity entry failed",
			"entity_type", entityKind,
			"entity_id", entityID,
			"action", action,
			"error", err)
	}
}

// Log records an activity entry.
func (s *ActivityService) Log(ctx context.Context, entry ActivityEntry) error {
	if user := appctx.GetUser(ctx); user != nil {
		if entry.UserID == "" {
			entry.UserID = user.UserID.String()
		}
		if entry.UserEmail == "" {
			entry.UserEmail = user.Email
		}
		if entry.BusinessID == nil && !id.IsNil(user.BusinessID) {
			businessID := user.BusinessID
			entry.BusinessID = &businessID
		}
	}

	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Changes) > s.compressThreshold {
		entry.ChangesCompressed = s.encoder.EncodeAll(entry.Changes, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_activity (
			id, business_id, entity_type, entity_id, action, user_id, user_email,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.BusinessID, entry.EntityType, entry.EntityID, entry.Action,
		entry.UserID, entry.UserEmail,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)

	return err
}

// GetEntityHistory retrieves activity history for an entity.
func (s *ActivityService) GetEntityHistory(
	ctx context.Context,
	entityType string,
	entityID id.ID,
	limit int,
) ([]ActivityEntry, error) {
	sql := `
		SELECT id, business_id, entity_type, entity_id, action, user_id, user_email,
			   changes, changes_compressed, compression_algo, created_at
		FROM sys_activity
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		err := rows.Scan(
			&e.ID, &e.BusinessID, &e.EntityType, &e.EntityID, &e.Action, &e.UserID, &e.UserEmail,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.ChangesCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.ChangesCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress changes: %w", err)
			}
			e.Changes = decompressed
			e.ChangesCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
