package complaint

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

const columns = `id, user_id, subject, body, status, resolution, created_at, updated_at`

func scan(row pgx.Row) (*Complaint, error) {
	c := &Complaint{}
	err := row.Scan(&c.ID, &c.UserID, &c.Subject, &c.Body, &c.Status, &c.Resolution, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Complaint, error) {
	c, err := scan(repository.db.QueryRow(context, `SELECT `+columns+` FROM complaints WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Complaint")
		}
		return nil, dberr.Wrap(err, "")
	}
	return c, nil
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID string) ([]*Complaint, error) {
	query := `SELECT ` + columns + ` FROM complaints WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	return collect(rows)
}

func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Complaint, error) {
	query := `SELECT ` + columns + ` FROM complaints`
	args := []any{}
	position := 1

	if filter.Status != "" {
		query += ` WHERE status = $` + strconv.Itoa(position)
		args = append(args, filter.Status)
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

func (repository *PostgresRepository) Create(context context.Context, complaint *Complaint) error {
	const query = `
		INSERT INTO complaints (id, user_id, subject, body, status, resolution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if complaint.ID == "" {
		complaint.ID = uuid.New()
	}
	complaint.CreatedAt = now
	complaint.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		complaint.ID, complaint.UserID, complaint.Subject, complaint.Body,
		complaint.Status, complaint.Resolution, complaint.CreatedAt, complaint.UpdatedAt,
	)
	return dberr.Wrap(err, "")
}

func (repository *PostgresRepository) UpdateStatus(context context.Context, id, status, resolution string) error {
	const query = `UPDATE complaints SET status = $2, resolution = $3, updated_at = $4 WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id, status, resolution, time.Now())
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Complaint")
	}
	return nil
}

func collect(rows pgx.Rows) ([]*Complaint, error) {
	complaints := make([]*Complaint, 0)
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "")
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}
