package notice

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
	byID   map[string]*Notice
	nextID int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{byID: map[string]*Notice{}}
}

func (repository *memoryRepository) List(_ context.Context, limit, offset int) ([]*Notice, error) {
	notices := make([]*Notice, 0, len(repository.byID))
	for _, n := range repository.byID {
		clone := *n
		notices = append(notices, &clone)
	}
	return notices, nil
}

func (repository *memoryRepository) GetByID(_ context.Context, id string) (*Notice, error) {
	n, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Notice")
	}
	clone := *n
	return &clone, nil
}

func (repository *memoryRepository) Create(_ context.Context, notice *Notice) error {
	if notice.ID == "" {
		repository.nextID++
		notice.ID = "not-" + strconv.Itoa(repository.nextID)
	}
	clone := *notice
	repository.byID[notice.ID] = &clone
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, notice *Notice) error {
	if _, ok := repository.byID[notice.ID]; !ok {
		return apperr.NotFound("Notice")
	}
	clone := *notice
	repository.byID[notice.ID] = &clone
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	delete(repository.byID, id)
	return nil
}

func newTestBoard() *Board {
	return NewBoard(newMemoryRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBoard_Post(t *testing.T) {
	board := newTestBoard()
	actor := &auth.User{ID: "mod-1"}

	created, err := board.Post(context.Background(), actor, PostInput{
		Title: "Office closure",
		Body:  "All ward offices closed on Friday.",
	})
	require.NoError(t, err)

	assert.Equal(t, "mod-1", created.PostedBy)
	assert.NotEmpty(t, created.ID)
}

func TestBoard_Post_RequiresTitleAndBody(t *testing.T) {
	board := newTestBoard()

	_, err := board.Post(context.Background(), &auth.User{ID: "mod-1"}, PostInput{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestBoard_Update(t *testing.T) {
	board := newTestBoard()

	created, err := board.Post(context.Background(), &auth.User{ID: "mod-1"}, PostInput{
		Title: "Office closure",
		Body:  "All ward offices closed on Friday.",
	})
	require.NoError(t, err)

	newTitle := "Office closure (updated)"
	updated, err := board.Update(context.Background(), created.ID, UpdateInput{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, created.Body, updated.Body)

	empty := ""
	_, err = board.Update(context.Background(), created.ID, UpdateInput{Title: &empty})
	require.Error(t, err, "edits cannot blank out required fields")
}

func TestBoard_Delete_Unknown(t *testing.T) {
	board := newTestBoard()

	err := board.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
