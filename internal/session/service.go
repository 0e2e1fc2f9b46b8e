package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reversihub/reversi-backend/internal/apperror"
	"github.com/reversihub/reversi-backend/internal/entity"
	"github.com/reversihub/reversi-backend/internal/reversi"
)

var ErrNoPlayers = errors.New("session has no players")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.GameSnapshot) error
	GetByID(ctx context.Context, id string) (*entity.GameSnapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type archiveRepo interface {
	SaveResult(ctx context.Context, result *entity.GameResult) error
}

// Session holds what outlives a single game: the player roster (with their
// session win counts), the selected board size and the game in play, if any.
type Session struct {
	ID        string
	BoardSize int
	Players   []*reversi.Player

	Game   *reversi.Game
	GameID string
}

// Service drives sessions: it starts games, applies moves, advances turns
// and persists a snapshot of the live game after every change, archiving the
// result once a game finishes. Callers must serialize calls per session; the
// engine underneath is single-writer by design.
type Service struct {
	logger  *slog.Logger
	games   gameRepo
	archive archiveRepo
}

func NewService(logger *slog.Logger, games gameRepo, archive archiveRepo) *Service {
	return &Service{
		logger:  logger.With("component", "session"),
		games:   games,
		archive: archive,
	}
}

// NewSession creates a session for the given roster and board size.
func (that *Service) NewSession(players []*reversi.Player, boardSize int) (*Session, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	session := &Session{
		ID:        uuid.NewString(),
		BoardSize: boardSize,
		Players:   players,
	}

	that.logger.Info("session created", "session_id", session.ID, "players", len(players), "board_size", boardSize)

	return session, nil
}

// StartGame begins a new game in the session and persists its first
// snapshot. A game already in progress must finish first.
func (that *Service) StartGame(ctx context.Context, session *Session) error {
	if session.Game != nil && !session.Game.IsFinished() {
		return apperror.ErrGameAlreadyStarted
	}

	game, err := reversi.NewGame(session.Players, session.BoardSize)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	session.Game = game
	session.GameID = uuid.NewString()

	if err = that.saveSnapshot(ctx, session); err != nil {
		return err
	}

	that.logger.Info("game started",
		"session_id", session.ID,
		"game_id", session.GameID,
		"board_size", session.BoardSize,
		"first_player", game.CurrentPlayer().String(),
	)

	return nil
}

// ApplyMove plays the current player's disk at the destination, advances the
// turn and persists the updated snapshot. Illegal moves surface unchanged so
// the caller can re-prompt.
func (that *Service) ApplyMove(ctx context.Context, session *Session, dest reversi.Coord) error {
	if session.Game == nil {
		return apperror.ErrNoActiveGame
	}

	player := session.Game.CurrentPlayer()
	if err := session.Game.ApplyMove(dest); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.logger.Info("move applied",
		"game_id", session.GameID,
		"player", player.String(),
		"x", dest.X,
		"y", dest.Y,
	)

	return that.advance(ctx, session)
}

// PassTurn advances the turn without a move. Passing is only allowed when
// the current player has no legal move.
func (that *Service) PassTurn(ctx context.Context, session *Session) error {
	if session.Game == nil {
		return apperror.ErrNoActiveGame
	}

	if session.Game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if session.Game.HasLegalMove() {
		return fmt.Errorf("%w: player %s has a legal move and cannot pass", apperror.ErrIllegalMove, session.Game.CurrentPlayer())
	}

	that.logger.Info("turn passed", "game_id", session.GameID, "player", session.Game.CurrentPlayer().String())

	return that.advance(ctx, session)
}

// ResumeGame rebuilds a session around a stored game snapshot.
func (that *Service) ResumeGame(ctx context.Context, gameID string) (*Session, error) {
	snapshot, err := that.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game snapshot: %w", err)
	}

	game, err := snapshot.Restore()
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	session := &Session{
		ID:        uuid.NewString(),
		BoardSize: snapshot.BoardSize,
		Players:   game.Players(),
		Game:      game,
		GameID:    gameID,
	}

	that.logger.Info("game resumed", "session_id", session.ID, "game_id", gameID, "move_count", game.MoveCount())

	return session, nil
}

// advance moves to the next turn, persists the snapshot and, if the game
// just finished, archives the result and drops the live snapshot.
func (that *Service) advance(ctx context.Context, session *Session) error {
	session.Game.NextTurn()

	if err := that.saveSnapshot(ctx, session); err != nil {
		return err
	}

	if !session.Game.IsFinished() {
		return nil
	}

	return that.finishGame(ctx, session)
}

func (that *Service) saveSnapshot(ctx context.Context, session *Session) error {
	snapshot := entity.SnapshotGame(session.GameID, session.Game)

	if err := that.games.CreateOrUpdate(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save game snapshot: %w", err)
	}

	return nil
}

func (that *Service) finishGame(ctx context.Context, session *Session) error {
	game := session.Game

	result := &entity.GameResult{
		GameID:     session.GameID,
		BoardSize:  session.BoardSize,
		Scores:     make(map[string]int, len(game.Players())),
		StartedAt:  game.StartedAt(),
		FinishedAt: time.Now(),
	}

	for _, player := range game.Players() {
		result.Scores[player.Name()] = player.Score()
	}

	if game.HasWinningPlayer() {
		result.Winner = game.WinningPlayer().Name()
	}

	if err := that.archive.SaveResult(ctx, result); err != nil {
		return fmt.Errorf("failed to archive game result: %w", err)
	}

	if err := that.games.DeleteByID(ctx, session.GameID); err != nil {
		return fmt.Errorf("failed to delete finished game snapshot: %w", err)
	}

	that.logger.Info("game finished",
		"game_id", session.GameID,
		"winner", result.Winner,
		"move_count", game.MoveCount(),
	)

	return nil
}
