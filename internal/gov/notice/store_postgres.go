package notice

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

const columns = `id, title, body, posted_by, created_at, updated_at`

func scan(row pgx.Row) (*Notice, error) {
	n := &Notice{}
	err := row.Scan(&n.ID, &n.Title, &n.Body, &n.PostedBy, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Notice, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + columns + ` FROM notices ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	notices := make([]*Notice, 0)
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "")
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Notice, error) {
	n, err := scan(repository.db.QueryRow(context, `SELECT `+columns+` FROM notices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Notice")
		}
		return nil, dberr.Wrap(err, "")
	}
	return n, nil
}

func (repository *PostgresRepository) Create(context context.Context, notice *Notice) error {
	const query = `
		INSERT INTO notices (id, title, body, posted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if notice.ID == "" {
		notice.ID = uuid.New()
	}
	notice.CreatedAt = now
	notice.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		notice.ID, notice.Title, notice.Body, notice.PostedBy,
		notice.CreatedAt, notice.UpdatedAt,
	)
	return dberr.Wrap(err, "")
}

func (repository *PostgresRepository) Update(context context.Context, notice *Notice) error {
	const query = `UPDATE notices SET title = $2, body = $3, updated_at = $4 WHERE id = $1`

	notice.UpdatedAt = time.Now()
	tag, err := repository.db.Exec(context, query, notice.ID, notice.Title, notice.Body, notice.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Notice")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	_, err := repository.db.Exec(context, `DELETE FROM notices WHERE id = $1`, id)
	return dberr.Wrap(err, "")
}
