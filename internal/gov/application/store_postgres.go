package application

import (
	"context"
	"errors"
	"strconv"
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

const columns = `id, user_id, service_id, details, status, remarks, created_at, updated_at`

func scan(row pgx.Row) (*Application, error) {
	a := &Application{}
	err := row.Scan(&a.ID, &a.UserID, &a.ServiceID, &a.Details, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Application, error) {
	a, err := scan(repository.db.QueryRow(context, `SELECT `+columns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Application")
		}
		return nil, dberr.Wrap(err, "")
	}
	return a, nil
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*Application, error) {
	query := `SELECT ` + columns + ` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	return collect(rows)
}

func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Application, error) {
	query := `SELECT ` + columns + ` FROM applications WHERE 1=1`
	args := []any{}
	position := 1

	if filter.Status != "" {
		query += ` AND status = $` + strconv.Itoa(position)
		args = append(args, filter.Status)
		position++
	}
	if filter.ServiceID != "" {
		query += ` AND service_id = $` + strconv.Itoa(position)
		args = append(args, filter.ServiceID)
		position++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(position) + ` OFFSET $` + strconv.Itoa(position+1)
	args = append(args, limit, filter.Offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	return collect(rows)
}

func (repository *PostgresRepository) Create(context context.Context, application *Application) error {
	const query = `
		INSERT INTO applications (id, user_id, service_id, details, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if application.ID == "" {
		application.ID = uuid.New()
	}
	application.CreatedAt = now
	application.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		application.ID, application.UserID, application.ServiceID,
		application.Details, application.Status, application.Remarks,
		application.CreatedAt, application.UpdatedAt,
	)
	return dberr.Wrap(err, "")
}

func (repository *PostgresRepository) UpdateStatus(context context.Context, id, status, remarks string) error {
	const query = `UPDATE applications SET status = $2, remarks = $3, updated_at = $4 WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id, status, remarks, time.Now())
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Application")
	}
	return nil
}

func collect(rows pgx.Rows) ([]*Application, error) {
	applications := make([]*Application, 0)
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "")
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}
