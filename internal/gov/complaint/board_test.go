package complaint

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janasewa/janasewa/internal/iam/auth"
	"github.com/janasewa/janasewa/internal/platform/apperr"
)

type memoryRepository struct {
	byID   map[string]*Complaint
	nextID int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{byID: map[string]*Complaint{}}
}

func (repository *memoryRepository) GetByID(_ context.Context, id string) (*Complaint, error) {
	c, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Complaint")
	}
	clone := *c
	return &clone, nil
}

func (repository *memoryRepository) ListByUser(_ context.Context, userID string) ([]*Complaint, error) {
	complaints := make([]*Complaint, 0)
	for _, c := range repository.byID {
		if c.UserID == userID {
			clone := *c
			complaints = append(complaints, &clone)
		}
	}
	return complaints, nil
}

func (repository *memoryRepository) List(_ context.Context, filter ListFilter) ([]*Complaint, error) {
	complaints := make([]*Complaint, 0)
	for _, c := range repository.byID {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		clone := *c
		complaints = append(complaints, &clone)
	}
	return complaints, nil
}

func (repository *memoryRepository) Create(_ context.Context, complaint *Complaint) error {
	if complaint.ID == "" {
		repository.nextID++
		complaint.ID = "grv-" + strconv.Itoa(repository.nextID)
	}
	clone := *complaint
	repository.byID[complaint.ID] = &clone
	return nil
}

func (repository *memoryRepository) UpdateStatus(_ context.Context, id, status, resolution string) error {
	c, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Complaint")
	}
	c.Status = status
	c.Resolution = resolution
	return nil
}

func newTestBoard() *Board {
	return NewBoard(newMemoryRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func citizen(id string) *auth.User {
	return &auth.User{ID: id, IsActive: true, Roles: []auth.Role{{Name: auth.RoleUser}}}
}

func moderator(id string) *auth.User {
	return &auth.User{ID: id, IsActive: true, Roles: []auth.Role{{Name: auth.RoleModerator}}}
}

func TestBoard_File(t *testing.T) {
	board := newTestBoard()

	created, err := board.File(context.Background(), citizen("u1"), FileInput{
		Subject: "Broken street light",
		Body:    "The light at ward 5 has been out for a week.",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOpen, created.Status)
	assert.Equal(t, "u1", created.UserID)
}

func TestBoard_File_RequiresSubjectAndBody(t *testing.T) {
	board := newTestBoard()

	_, err := board.File(context.Background(), citizen("u1"), FileInput{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestBoard_Get_OwnerOrModerator(t *testing.T) {
	board := newTestBoard()

	created, err := board.File(context.Background(), citizen("u1"), FileInput{
		Subject: "Subject",
		Body:    "Body",
	})
	require.NoError(t, err)

	_, err = board.Get(context.Background(), citizen("u1"), created.ID)
	assert.NoError(t, err, "owner can read")

	_, err = board.Get(context.Background(), moderator("mod"), created.ID)
	assert.NoError(t, err, "moderator can read")

	_, err = board.Get(context.Background(), citizen("u2"), created.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestBoard_SetStatus(t *testing.T) {
	board := newTestBoard()

	created, err := board.File(context.Background(), citizen("u1"), FileInput{
		Subject: "Subject",
		Body:    "Body",
	})
	require.NoError(t, err)

	updated, err := board.SetStatus(context.Background(), created.ID, StatusResolved, "Light replaced")
	require.NoError(t, err)

	assert.Equal(t, StatusResolved, updated.Status)
	assert.Equal(t, "Light replaced", updated.Resolution)

	_, err = board.SetStatus(context.Background(), created.ID, "closed", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
