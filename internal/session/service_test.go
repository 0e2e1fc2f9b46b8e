package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/reversihub/reversi-backend/internal/apperror"
	"github.com/reversihub/reversi-backend/internal/entity"
	"github.com/reversihub/reversi-backend/internal/repository"
	"github.com/reversihub/reversi-backend/internal/reversi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGameRepo struct {
	snapshots map[string]*entity.GameSnapshot
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{snapshots: make(map[string]*entity.GameSnapshot)}
}

func (that *fakeGameRepo) CreateOrUpdate(_ context.Context, snapshot *entity.GameSnapshot) error {
	that.snapshots[snapshot.ID] = snapshot
	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.GameSnapshot, error) {
	snapshot, ok := that.snapshots[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}
	return snapshot, nil
}

func (that *fakeGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.snapshots, id)
	return nil
}

type fakeArchiveRepo struct {
	results []*entity.GameResult
}

func (that *fakeArchiveRepo) SaveResult(_ context.Context, result *entity.GameResult) error {
	that.results = append(that.results, result)
	return nil
}

func newTestService() (*Service, *fakeGameRepo, *fakeArchiveRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	games := newFakeGameRepo()
	archive := &fakeArchiveRepo{}

	return NewService(logger, games, archive), games, archive
}

// playOut drives a started game to completion with a first-legal-move policy.
func playOut(t *testing.T, ctx context.Context, service *Service, session *Session) {
	t.Helper()

	for !session.Game.IsFinished() {
		if !session.Game.HasLegalMove() {
			require.NoError(t, service.PassTurn(ctx, session))
			continue
		}

		var move reversi.Coord
		for dest := range session.Game.Board().LegalMoves(session.Game.CurrentPlayer().ID()) {
			move = dest
			break
		}
		require.NoError(t, service.ApplyMove(ctx, session, move))
	}
}

func testRoster() []*reversi.Player {
	return []*reversi.Player{
		reversi.NewPlayer("Alice", "Black"),
		reversi.NewPlayer("Bob", "White"),
	}
}

func TestService_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts a game and persists the opening snapshot", func(t *testing.T) {
		// Given: a session for two players
		service, games, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)
		require.NotEmpty(t, session.ID)

		// When: a game starts
		err = service.StartGame(ctx, session)

		// Then: the game exists and its snapshot is stored
		require.NoError(t, err)
		require.NotNil(t, session.Game)
		require.NotEmpty(t, session.GameID)

		stored, err := games.GetByID(ctx, session.GameID)
		require.NoError(t, err)
		assert.Equal(t, 8, stored.BoardSize)
		assert.Len(t, stored.Players, 2)
		assert.Equal(t, 0, stored.MoveCount)
	})

	t.Run("Refuses to start over a game in progress", func(t *testing.T) {
		service, _, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))

		err = service.StartGame(ctx, session)
		require.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
	})

	t.Run("Propagates an invalid board configuration", func(t *testing.T) {
		service, _, _ := newTestService()
		session, err := service.NewSession(testRoster(), 7)
		require.NoError(t, err)

		err = service.StartGame(ctx, session)
		require.ErrorIs(t, err, apperror.ErrInvalidConfiguration)
	})

	t.Run("Rejects an empty roster", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.NewSession(nil, 8)
		require.ErrorIs(t, err, ErrNoPlayers)
	})
}

func TestService_ApplyMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies a legal move, advances the turn and persists", func(t *testing.T) {
		// Given: a started game
		service, games, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))

		first := session.Game.CurrentPlayer()

		// When: the opening move is applied
		err = service.ApplyMove(ctx, session, reversi.Coord{X: 3, Y: 2})

		// Then: the turn advanced and the snapshot reflects the move
		require.NoError(t, err)
		assert.NotSame(t, first, session.Game.CurrentPlayer())
		assert.Equal(t, 1, session.Game.MoveCount())

		stored, err := games.GetByID(ctx, session.GameID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.MoveCount)
		assert.Equal(t, 1, stored.Grid[2][3])
	})

	t.Run("Surfaces an illegal move without advancing", func(t *testing.T) {
		service, _, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))

		err = service.ApplyMove(ctx, session, reversi.Coord{X: 0, Y: 0})
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.Equal(t, 0, session.Game.MoveCount())
	})

	t.Run("Rejects a move with no game in play", func(t *testing.T) {
		service, _, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)

		err = service.ApplyMove(ctx, session, reversi.Coord{X: 3, Y: 2})
		require.ErrorIs(t, err, apperror.ErrNoActiveGame)
	})
}

func TestService_PassTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Refuses a pass while a legal move exists", func(t *testing.T) {
		service, _, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))

		err = service.PassTurn(ctx, session)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Rejects a pass once the game is finished", func(t *testing.T) {
		// Given: a game played to completion through the service
		service, _, archive := newTestService()
		session, err := service.NewSession(testRoster(), 4)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))
		playOut(t, ctx, service, session)

		winner := session.Game.WinningPlayer()
		var wins int
		if winner != nil {
			wins = winner.Wins()
		}
		require.Len(t, archive.results, 1)

		// When: a redundant pass comes in anyway
		err = service.PassTurn(ctx, session)

		// Then: it is rejected and neither the tally nor the archive moves
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		if winner != nil {
			assert.Equal(t, wins, winner.Wins())
		}
		assert.Len(t, archive.results, 1)
	})
}

func TestService_FinishedGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Archives the result and drops the live snapshot", func(t *testing.T) {
		// Given: a started game played to completion
		service, games, archive := newTestService()
		session, err := service.NewSession(testRoster(), 4)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))

		// When: both sides follow a first-legal-move policy to the end
		playOut(t, ctx, service, session)

		// Then: the result is archived with conserved scores
		require.Len(t, archive.results, 1)
		result := archive.results[0]
		assert.Equal(t, session.GameID, result.GameID)
		assert.Len(t, result.Scores, 2)

		total := 0
		for _, score := range result.Scores {
			total += score
		}
		occupied := 0
		for _, row := range session.Game.Board().Grid() {
			for _, pid := range row {
				if pid != reversi.EmptyPID {
					occupied++
				}
			}
		}
		assert.Equal(t, occupied, total)

		// And: the live snapshot is gone
		_, err = games.GetByID(ctx, session.GameID)
		require.ErrorIs(t, err, repository.ErrGameNotFound)
	})
}

func TestService_ResumeGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Rebuilds a session from a stored snapshot", func(t *testing.T) {
		// Given: a game in progress whose snapshot is stored
		service, _, _ := newTestService()
		session, err := service.NewSession(testRoster(), 8)
		require.NoError(t, err)
		require.NoError(t, service.StartGame(ctx, session))
		require.NoError(t, service.ApplyMove(ctx, session, reversi.Coord{X: 3, Y: 2}))

		// When: the game is resumed by id
		resumed, err := service.ResumeGame(ctx, session.GameID)

		// Then: the resumed session continues where the original left off
		require.NoError(t, err)
		assert.Equal(t, session.GameID, resumed.GameID)
		assert.Equal(t, session.Game.MoveCount(), resumed.Game.MoveCount())
		assert.Equal(t, session.Game.Board().Grid(), resumed.Game.Board().Grid())
		assert.Equal(t, session.Game.CurrentPlayer().Name(), resumed.Game.CurrentPlayer().Name())
	})

	t.Run("Surfaces a missing snapshot", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.ResumeGame(ctx, "missing")
		require.ErrorIs(t, err, repository.ErrGameNotFound)
	})
}
