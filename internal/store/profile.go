package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/silentbyte/quackhunt/internal/calib"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SavedProfile is a named calibration profile stored in the database.
type SavedProfile struct {
	ID        string
	Name      string
	Profile   calib.Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository provides CRUD operations for saved profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new saved profile. A missing ID is assigned.
func (r *ProfileRepository) Create(p *SavedProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	data, err := json.Marshal(p.Profile)
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.Name, err)
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = r.db.Exec(
		`INSERT INTO profiles (id, name, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(data), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a saved profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*SavedProfile, error) {
	return r.get(`SELECT id, name, data, created_at, updated_at
		 FROM profiles WHERE id = ?`, id)
}

// GetByName retrieves a saved profile by its unique name.
func (r *ProfileRepository) GetByName(name string) (*SavedProfile, error) {
	return r.get(`SELECT id, name, data, created_at, updated_at
		 FROM profiles WHERE name = ?`, name)
}

func (r *ProfileRepository) get(query string, arg any) (*SavedProfile, error) {
	p := &SavedProfile{}
	var data string

	err := r.db.QueryRow(query, arg).
		Scan(&p.ID, &p.Name, &data, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(data), &p.Profile); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", p.Name, err)
	}

	return p, nil
}

// List returns all saved profiles ordered by name.
func (r *ProfileRepository) List() ([]*SavedProfile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, data, created_at, updated_at
		 FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*SavedProfile
	for rows.Next() {
		p := &SavedProfile{}
		var data string
		if err := rows.Scan(&p.ID, &p.Name, &data, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &p.Profile); err != nil {
			return nil, fmt.Errorf("decode profile %q: %w", p.Name, err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// Update overwrites the profile payload and name for an existing ID.
func (r *ProfileRepository) Update(p *SavedProfile) error {
	data, err := json.Marshal(p.Profile)
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.Name, err)
	}

	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE profiles SET name = ?, data = ?, updated_at = ? WHERE id = ?`,
		p.Name, string(data), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a saved profile by ID.
func (r *ProfileRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
