package postgres

import (
	"context"
	"database/sql"
	"errors"

	directory "condoledger/internal/directory/domain"
)

// MemberRepository reads members from the shared store.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository constructs a repository.
func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Get returns one member.
func (r *MemberRepository) Get(ctx context.Context, id string) (*directory.Member, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("member repo: nil db")
	}
	var m directory.Member
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT id, building_id, name, email, ownership_share, is_active
FROM members
WHERE id = $1
LIMIT 1`, id).Scan(&m.ID, &m.BuildingID, &m.Name, &email, &m.OwnershipShare, &m.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrMemberNotFound
		}
		return nil, err
	}
	if email.Valid {
		m.Email = email.String
	}
	return &m, nil
}

// ListActiveByBuilding returns active members of a building.
func (r *MemberRepository) ListActiveByBuilding(ctx context.Context, buildingID string) ([]directory.Member, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("member repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, building_id, name, email, ownership_share, is_active
FROM members
WHERE building_id = $1 AND is_active
ORDER BY id ASC`, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []directory.Member
	for rows.Next() {
		var m directory.Member
		var email sql.NullString
		if err := rows.Scan(&m.ID, &m.BuildingID, &m.Name, &email, &m.OwnershipShare, &m.IsActive); err != nil {
			return nil, err
		}
		if email.Valid {
			m.Email = email.String
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
