// internal/styling/profile/store.go
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stylist-workers/internal/models"

	"github.com/jmoiron/sqlx"
)

var ErrStoreFailed = errors.New("PROFILE_STORE_FAILED")

// Store reads and mutates user profiles.
type Store interface {
	// GetProfile returns nil without error when the user has no profile.
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// UpdateProfile returns false when no profile exists for userID.
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (bool, error)
	SaveProfile(ctx context.Context, p *models.UserProfile) error
}

// SQLStore keeps profiles in the style_profiles table. Queries use ? and are
// rebound for the connected driver.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const selectProfile = `SELECT user_id, height_cm, weight_kg, body_type, skin_tone, gender, city, updated_at
FROM style_profiles WHERE user_id = ?`

const upsertProfile = `INSERT INTO style_profiles
	(user_id, height_cm, weight_kg, body_type, skin_tone, gender, city, updated_at)
VALUES
	(:user_id, :height_cm, :weight_kg, :body_type, :skin_tone, :gender, :city, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET
	height_cm = excluded.height_cm,
	weight_kg = excluded.weight_kg,
	body_type = excluded.body_type,
	skin_tone = excluded.skin_tone,
	gender = excluded.gender,
	city = excluded.city,
	updated_at = excluded.updated_at`

func (s *SQLStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.GetContext(ctx, &p, s.db.Rebind(selectProfile), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get profile %s: %v", ErrStoreFailed, userID, err)
	}
	return &p, nil
}

func (s *SQLStore) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (bool, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.Height != nil {
		add("height_cm", *update.Height)
	}
	if update.Weight != nil {
		add("weight_kg", *update.Weight)
	}
	if update.BodyType != nil {
		add("body_type", *update.BodyType)
	}
	if update.SkinTone != nil {
		add("skin_tone", *update.SkinTone)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}
	if update.City != nil {
		add("city", *update.City)
	}
	add("updated_at", s.now())
	args = append(args, userID)

	query := s.db.Rebind("UPDATE style_profiles SET " + strings.Join(sets, ", ") + " WHERE user_id = ?")
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: update profile %s: %v", ErrStoreFailed, userID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: update profile %s: %v", ErrStoreFailed, userID, err)
	}
	return n > 0, nil
}

func (s *SQLStore) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	if p == nil || p.UserID == "" {
		return fmt.Errorf("%w: profile without user id", ErrStoreFailed)
	}
	row := *p
	row.UpdatedAt = s.now()

	if _, err := s.db.NamedExecContext(ctx, upsertProfile, row); err != nil {
		return fmt.Errorf("%w: save profile %s: %v", ErrStoreFailed, p.UserID, err)
	}
	p.UpdatedAt = row.UpdatedAt
	return nil
}
