package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/dberr"
	"github.com/janasewa/janasewa/pkg/uuid"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const columns = `id, name, slug, description, category, department, is_active, created_at, updated_at`

func scan(row pgx.Row) (*Service, error) {
	s := &Service{}
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.Category, &s.Department, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (repository *PostgresRepository) List(context context.Context, includeInactive bool) ([]*Service, error) {
	query := `SELECT ` + columns + ` FROM services`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	services := make([]*Service, 0)
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "")
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Service, error) {
	s, err := scan(repository.db.QueryRow(context, `SELECT `+columns+` FROM services WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Service")
		}
		return nil, dberr.Wrap(err, "")
	}
	return s, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Service, error) {
	s, err := scan(repository.db.QueryRow(context, `SELECT `+columns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Service")
		}
		return nil, dberr.Wrap(err, "")
	}
	return s, nil
}

func (repository *PostgresRepository) Create(context context.Context, service *Service) error {
	const query = `
		INSERT INTO services (id, name, slug, description, category, department, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if service.ID == "" {
		service.ID = uuid.New()
	}
	service.CreatedAt = now
	service.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		service.ID, service.Name, service.Slug, service.Description,
		service.Category, service.Department, service.IsActive,
		service.CreatedAt, service.UpdatedAt,
	)
	return dberr.Wrap(err, "A service with this slug already exists")
}

func (repository *PostgresRepository) Update(context context.Context, service *Service) error {
	const query = `
		UPDATE services
		SET name = $2, slug = $3, description = $4, category = $5, department = $6, is_active = $7, updated_at = $8
		WHERE id = $1`

	service.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		service.ID, service.Name, service.Slug, service.Description,
		service.Category, service.Department, service.IsActive, service.UpdatedAt,
	)
	return dberr.Wrap(err, "A service with this slug already exists")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	_, err := repository.db.Exec(context, `DELETE FROM services WHERE id = $1`, id)
	return dberr.Wrap(err, "")
}
