package psql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

// maxPageSize caps list queries. Reads beyond the cap require no pagination
// in this design; the cap mirrors the reference deployment.
const maxPageSize = 1000

// ProfileRepository implements domain.ProfileRepository on PostgreSQL.
// Profiles are stored as JSONB documents keyed by their server-assigned id.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create assigns a fresh id and creation timestamp, persists the full record,
// and returns it verbatim. Duplicate names are not checked.
func (r *ProfileRepository) Create(ctx context.Context, req domain.CreateProfileRequest) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		ID:          uuid.NewString(),
		Name:        req.Name,
		LinkedinURL: req.LinkedinURL,
		Email:       req.Email,
		Title:       req.Title,
		Company:     req.Company,
		CreatedAt:   time.Now().UTC(),
	}

	doc, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	query := `INSERT INTO profiles (id, doc, created_at) VALUES ($1, $2::jsonb, $3)`
	if _, err := r.pool.Exec(ctx, query, profile.ID, string(doc), profile.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return profile, nil
}

// Get retrieves a profile by id.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	var doc []byte
	query := `SELECT doc FROM profiles WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &profile, nil
}

// List returns all persisted profiles, order unspecified, capped at
// maxPageSize.
func (r *ProfileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	query := `SELECT doc FROM profiles LIMIT $1`
	rows, err := r.pool.Query(ctx, query, maxPageSize)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.UserProfile{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		var profile domain.UserProfile
		if err := json.Unmarshal(doc, &profile); err != nil {
			return nil, fmt.Errorf("unmarshal profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}
