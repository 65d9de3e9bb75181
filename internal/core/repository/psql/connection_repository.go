package psql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

// ConnectionRepository implements domain.ConnectionRepository on PostgreSQL.
// Connections are stored as JSONB documents; user_id is duplicated into a
// column so the per-user listing stays an indexed lookup.
type ConnectionRepository struct {
	pool *pgxpool.Pool
}

// NewConnectionRepository creates a new PostgreSQL connection repository
func NewConnectionRepository(pool *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{pool: pool}
}

// Create assigns a fresh id and creation timestamp and persists the record.
// The user_id reference is deliberately not checked against the profiles
// table.
func (r *ConnectionRepository) Create(ctx context.Context, req domain.CreateConnectionRequest) (*domain.Connection, error) {
	conn := &domain.Connection{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		ContactName:     req.ContactName,
		ContactLinkedin: req.ContactLinkedin,
		ContactEmail:    req.ContactEmail,
		ContactTitle:    req.ContactTitle,
		ContactCompany:  req.ContactCompany,
		EventName:       req.EventName,
		EventType:       req.EventType,
		PersonCategory:  req.PersonCategory,
		Notes:           req.Notes,
		CreatedAt:       time.Now().UTC(),
	}

	doc, err := json.Marshal(conn)
	if err != nil {
		return nil, fmt.Errorf("marshal connection: %w", err)
	}

	query := `INSERT INTO connections (id, user_id, doc, created_at) VALUES ($1, $2, $3::jsonb, $4)`
	if _, err := r.pool.Exec(ctx, query, conn.ID, conn.UserID, string(doc), conn.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert connection: %w", err)
	}

	return conn, nil
}

// ListForUser returns all connections owned by userID, capped at maxPageSize.
func (r *ConnectionRepository) ListForUser(ctx context.Context, userID string) ([]domain.Connection, error) {
	query := `SELECT doc FROM connections WHERE user_id = $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, maxPageSize)
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}
	defer rows.Close()

	conns := []domain.Connection{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		var conn domain.Connection
		if err := json.Unmarshal(doc, &conn); err != nil {
			return nil, fmt.Errorf("unmarshal connection: %w", err)
		}
		conns = append(conns, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}

	return conns, nil
}

// Update shallow-merges the supplied fields into the stored document. Fields
// not named in the patch are left untouched; id and created_at are immutable
// and stripped before the merge. Concurrent updates to the same id are
// last-write-wins.
func (r *ConnectionRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" || k == "created_at" {
			continue
		}
		patch[k] = v
	}

	doc, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	// The user_id column tracks the document so a patched user_id keeps the
	// listing query consistent.
	query := `UPDATE connections
		SET doc = doc || $2::jsonb,
		    user_id = (doc || $2::jsonb)->>'user_id'
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, string(doc))
	if err != nil {
		return fmt.Errorf("update connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConnectionNotFound
	}

	return nil
}
