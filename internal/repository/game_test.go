package repository

import (
	"testing"
	"time"

	"github.com/reversihub/reversi-backend/internal/entity"
	"github.com/reversihub/reversi-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(id string) *entity.GameSnapshot {
	return &entity.GameSnapshot{
		ID:        id,
		BoardSize: 4,
		Grid: [][]int{
			{0, 0, 0, 0},
			{0, 2, 1, 0},
			{0, 1, 2, 0},
			{0, 0, 0, 0},
		},
		Players: []entity.PlayerSnapshot{
			{Name: "Alice", DiskColor: "Black", ID: 1, Score: 2},
			{Name: "Bob", DiskColor: "White", ID: 2, Score: 2},
		},
		StartedAt: time.Now().UTC(),
	}
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Redis)

	// Given: a snapshot of a game in its opening position
	snapshot := testSnapshot("game-1")

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, snapshot)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Redis)

		// Given: a stored snapshot
		snapshot := testSnapshot("game-1")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, snapshot))

		// When: GetByID is called with its ID
		retrieved, err := gameRepo.GetByID(ctx, snapshot.ID)

		// Then: the retrieved snapshot matches what was saved
		require.NoError(t, err)
		assert.Equal(t, snapshot.ID, retrieved.ID)
		assert.Equal(t, snapshot.Grid, retrieved.Grid)
		assert.Equal(t, snapshot.Players, retrieved.Players)
		assert.True(t, snapshot.StartedAt.Equal(retrieved.StartedAt))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Redis)

		// When: GetByID is called with a non-existent ID
		retrieved, err := gameRepo.GetByID(ctx, "missing")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Redis)

	// Given: a stored snapshot
	snapshot := testSnapshot("game-1")
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, snapshot))

	// When: DeleteByID is called
	err := gameRepo.DeleteByID(ctx, snapshot.ID)

	// Then: the snapshot is gone
	require.NoError(t, err)
	_, err = gameRepo.GetByID(ctx, snapshot.ID)
	require.ErrorIs(t, err, ErrGameNotFound)
}
