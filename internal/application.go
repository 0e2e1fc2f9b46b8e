package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reversihub/reversi-backend/internal/config"
	"github.com/reversihub/reversi-backend/internal/repository"
	"github.com/reversihub/reversi-backend/internal/repository/storage"
	"github.com/reversihub/reversi-backend/internal/reversi"
	"github.com/reversihub/reversi-backend/internal/session"
)

// RunApp - runs the application: it wires storage and repositories, builds a
// session from the configured roster and plays one exhibition game to
// completion, snapshotting every turn and archiving the result.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	archiveRepo := repository.NewArchiveRepository(sqliteStorage.Connection)
	sessionService := session.NewService(logger, gameRepo, archiveRepo)

	players := make([]*reversi.Player, 0, len(conf.Players))
	for _, p := range conf.Players {
		players = append(players, reversi.NewPlayer(p.Name, p.DiskColor))
	}

	currentSession, err := sessionService.NewSession(players, conf.BoardSize)
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}

	if err = sessionService.StartGame(ctx, currentSession); err != nil {
		return fmt.Errorf("could not start game: %w", err)
	}

	if err = playOut(ctx, sessionService, currentSession); err != nil {
		return fmt.Errorf("exhibition game failed: %w", err)
	}

	log.Info("Exhibition game complete", "result", currentSession.Game.String())

	return nil
}

// playOut drives the game to completion with a fixed policy: each turn the
// active player takes the first legal move in board order, or passes.
func playOut(ctx context.Context, sessionService *session.Service, currentSession *session.Session) error {
	for !currentSession.Game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !currentSession.Game.HasLegalMove() {
			if err := sessionService.PassTurn(ctx, currentSession); err != nil {
				return err
			}

			continue
		}

		if err := sessionService.ApplyMove(ctx, currentSession, firstLegalMove(currentSession.Game)); err != nil {
			return err
		}
	}

	return nil
}

func firstLegalMove(game *reversi.Game) reversi.Coord {
	board := game.Board()

	var first reversi.Coord
	found := false
	for dest := range board.LegalMoves(game.CurrentPlayer().ID()) {
		if !found || dest.Y < first.Y || (dest.Y == first.Y && dest.X < first.X) {
			first = dest
			found = true
		}
	}

	return first
}
