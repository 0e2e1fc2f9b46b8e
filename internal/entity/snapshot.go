package entity

import (
	"time"

	"github.com/reversihub/reversi-backend/internal/reversi"
)

// PlayerSnapshot is the serializable form of a player record. Snapshots keep
// players in turn order, so the slice index mirrors ID-1.
type PlayerSnapshot struct {
	Name      string `json:"name"`
	DiskColor string `json:"disk_color"`
	ID        int    `json:"id"`
	Score     int    `json:"score"`
	Wins      int    `json:"wins"`
	Active    bool   `json:"active,omitempty"`
}

// GameSnapshot is the serializable form of a game in progress: the occupant
// grid plus every counter and player record needed to rebuild an equivalent
// game. It is the only shape that crosses the persistence boundary; the
// engine itself never touches storage.
type GameSnapshot struct {
	ID        string           `json:"id"`
	BoardSize int              `json:"board_size"`
	Grid      [][]int          `json:"grid"`
	Players   []PlayerSnapshot `json:"players"`
	TurnCount int              `json:"turn_count"`
	PassCount int              `json:"pass_count"`
	MoveCount int              `json:"move_count"`
	Finished  bool             `json:"finished"`
	WinnerID  int              `json:"winner_id,omitempty"`
	StartedAt time.Time        `json:"started_at"`
}

// SnapshotGame captures a game under the given storage ID.
func SnapshotGame(id string, game *reversi.Game) *GameSnapshot {
	state := game.State()

	players := make([]PlayerSnapshot, 0, len(game.Players()))
	for _, player := range game.Players() {
		players = append(players, PlayerSnapshot{
			Name:      player.Name(),
			DiskColor: player.DiskColor(),
			ID:        player.ID(),
			Score:     player.Score(),
			Wins:      player.Wins(),
			Active:    player.IsActive(),
		})
	}

	snapshot := &GameSnapshot{
		ID:        id,
		BoardSize: state.BoardSize,
		Grid:      state.Grid,
		Players:   players,
		TurnCount: state.TurnCount,
		PassCount: state.PassCount,
		MoveCount: state.MoveCount,
		Finished:  state.Finished,
		StartedAt: state.StartedAt,
	}

	if game.HasWinningPlayer() {
		snapshot.WinnerID = game.WinningPlayer().ID()
	}

	return snapshot
}

// Restore rebuilds the game the snapshot was taken from. Scores, the
// frontier and the current player's legal moves are recomputed from the
// grid rather than trusted from the stored records.
func (that *GameSnapshot) Restore() (*reversi.Game, error) {
	players := make([]*reversi.Player, 0, len(that.Players))
	for _, record := range that.Players {
		player := reversi.NewPlayer(record.Name, record.DiskColor)
		player.SetID(record.ID)
		player.SetWins(record.Wins)
		players = append(players, player)
	}

	return reversi.ResumeGame(players, reversi.GameState{
		BoardSize: that.BoardSize,
		Grid:      that.Grid,
		TurnCount: that.TurnCount,
		PassCount: that.PassCount,
		MoveCount: that.MoveCount,
		Finished:  that.Finished,
		StartedAt: that.StartedAt,
	})
}
