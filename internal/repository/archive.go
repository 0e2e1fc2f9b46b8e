package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/reversihub/reversi-backend/internal/entity"
)

type ArchiveRepository interface {
	SaveResult(ctx context.Context, result *entity.GameResult) error
	ListResults(ctx context.Context) ([]*entity.GameResult, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) SaveResult(ctx context.Context, result *entity.GameResult) error {
	scoresJSON, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("could not marshal scores: %w", err)
	}

	query := `INSERT OR REPLACE INTO game_results
		(game_id, board_size, winner, scores, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = that.conn.ExecContext(ctx, query,
		result.GameID, result.BoardSize, result.Winner, string(scoresJSON), result.StartedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}

	return nil
}

func (that *dbArchive) ListResults(ctx context.Context) ([]*entity.GameResult, error) {
	query := `SELECT game_id, board_size, winner, scores, started_at, finished_at
		FROM game_results ORDER BY finished_at`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []*entity.GameResult
	for rows.Next() {
		var result entity.GameResult
		var scoresJSON string

		if err = rows.Scan(&result.GameID, &result.BoardSize, &result.Winner, &scoresJSON, &result.StartedAt, &result.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}

		if err = json.Unmarshal([]byte(scoresJSON), &result.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
		}

		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game results: %w", err)
	}

	return results, nil
}
