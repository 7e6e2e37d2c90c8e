package repositories

import (
	"database/sql"
	"fmt"

	"vernopromo/internal/models"
)

type LookupRepository interface {
	ListCities() ([]*models.City, error)
	ListFamilyStatuses() ([]*models.FamilyStatus, error)
	GetCityByName(name string) (*models.City, error)
}

type lookupRepository struct {
	DB *sql.DB
}

func NewLookupRepository(db *sql.DB) LookupRepository {
	return &lookupRepository{DB: db}
}

func (r *lookupRepository) ListCities() ([]*models.City, error) {
	const q = `SELECT id, name FROM cities ORDER BY name`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, &c)
	}
	return cities, rows.Err()
}

func (r *lookupRepository) ListFamilyStatuses() ([]*models.FamilyStatus, error) {
	const q = `SELECT id, name FROM family_statuses ORDER BY id`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list family statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*models.FamilyStatus
	for rows.Next() {
		var fs models.FamilyStatus
		if err := rows.Scan(&fs.ID, &fs.Name); err != nil {
			return nil, fmt.Errorf("scan family status: %w", err)
		}
		statuses = append(statuses, &fs)
	}
	return statuses, rows.Err()
}

func (r *lookupRepository) GetCityByName(name string) (*models.City, error) {
	const q = `SELECT id, name FROM cities WHERE name = $1`
	var c models.City
	if err := r.DB.QueryRow(q, name).Scan(&c.ID, &c.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get city by name: %w", err)
	}
	return &c, nil
}
