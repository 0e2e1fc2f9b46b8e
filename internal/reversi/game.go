package reversi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reversihub/reversi-backend/internal/apperror"
)

// Game orchestrates a match: it owns the turn order, delegates move legality
// and application to the board, detects passes and termination, and keeps
// the winner current. A game is mutated by exactly one caller at a time; it
// does no locking of its own.
type Game struct {
	players       []*Player
	winningPlayer *Player

	board     *Board
	boardSize int

	turnCount int
	passCount int
	moveCount int

	finished  bool
	startedAt time.Time
}

// GameState is the restorable form of a game in progress: everything needed
// to rebuild a byte-for-byte equivalent game next to an ordered player list.
type GameState struct {
	BoardSize int
	Grid      [][]int
	TurnCount int
	PassCount int
	MoveCount int
	Finished  bool
	StartedAt time.Time
}

// NewGame starts a game of the given board size. Players are ordered by
// their disk color designator and assigned turn-order IDs 1..k, so the turn
// order is stable regardless of the order they were handed in. The first
// player's legal moves are computed and that player activated before the
// game is returned. Board construction failures propagate.
func NewGame(players []*Player, boardSize int) (*Game, error) {
	ordered := append([]*Player(nil), players...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DiskColor() < ordered[j].DiskColor()
	})

	pids := make([]int, len(ordered))
	for i, player := range ordered {
		player.SetID(i + 1)
		player.SetActive(false)
		pids[i] = i + 1
	}

	board, err := NewBoard(boardSize, pids)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	that := &Game{
		players:   ordered,
		board:     board,
		boardSize: boardSize,
		startedAt: time.Now(),
	}

	that.board.UpdateLegalMoves(that.CurrentPlayer().ID())
	that.CurrentPlayer().SetActive(true)
	that.RefreshScores()

	return that, nil
}

// ResumeGame rebuilds a game from a saved state and its players, given in
// turn order with their IDs already assigned. Scores, frontier and the
// current player's legal moves are recomputed from the occupant grid.
func ResumeGame(players []*Player, state GameState) (*Game, error) {
	pids := make([]int, len(players))
	for i, player := range players {
		player.SetActive(false)
		pids[i] = player.ID()
	}

	board, err := restoreBoard(state.BoardSize, pids, state.Grid)
	if err != nil {
		return nil, fmt.Errorf("failed to restore board: %w", err)
	}

	if len(players) == 0 || state.TurnCount < 0 || state.TurnCount >= len(players) {
		return nil, fmt.Errorf("%w: turn count %d with %d players", apperror.ErrInvalidConfiguration, state.TurnCount, len(players))
	}

	that := &Game{
		players:   players,
		board:     board,
		boardSize: state.BoardSize,
		turnCount: state.TurnCount,
		passCount: state.PassCount,
		moveCount: state.MoveCount,
		finished:  state.Finished,
		startedAt: state.StartedAt,
	}

	that.board.UpdateLegalMoves(that.CurrentPlayer().ID())
	that.RefreshScores()

	if !that.finished {
		that.CurrentPlayer().SetActive(true)
	}

	return that, nil
}

// State returns the game's restorable form.
func (that *Game) State() GameState {
	return GameState{
		BoardSize: that.boardSize,
		Grid:      that.board.Grid(),
		TurnCount: that.turnCount,
		PassCount: that.passCount,
		MoveCount: that.moveCount,
		Finished:  that.finished,
		StartedAt: that.startedAt,
	}
}

// Players returns the players in turn order.
func (that *Game) Players() []*Player {
	return that.players
}

// Board returns the game board.
func (that *Game) Board() *Board {
	return that.board
}

// BoardSize returns the side length of the game board.
func (that *Game) BoardSize() int {
	return that.boardSize
}

// CurrentPlayer returns the player whose turn it is.
func (that *Game) CurrentPlayer() *Player {
	return that.players[that.turnCount]
}

// WinningPlayer returns the unique highest-scoring player, or nil when two
// or more players tie for the maximum.
func (that *Game) WinningPlayer() *Player {
	return that.winningPlayer
}

// HasWinningPlayer reports whether a unique highest-scoring player exists.
func (that *Game) HasWinningPlayer() bool {
	return that.winningPlayer != nil
}

// MoveCount returns the number of turns played so far.
func (that *Game) MoveCount() int {
	return that.moveCount
}

// PassCount returns the number of consecutive passes.
func (that *Game) PassCount() int {
	return that.passCount
}

// StartedAt returns the game's creation time.
func (that *Game) StartedAt() time.Time {
	return that.startedAt
}

// IsFinished reports whether the game is over.
func (that *Game) IsFinished() bool {
	return that.finished
}

// HasLegalMove reports whether the current player has any legal move.
func (that *Game) HasLegalMove() bool {
	return that.board.HasLegalMove(that.CurrentPlayer().ID())
}

// ApplyMove places the current player's disk at the destination. It is a
// convenience over Board.ApplyMove that also rejects moves on a finished
// game.
func (that *Game) ApplyMove(dest Coord) error {
	if that.finished {
		return apperror.ErrGameFinished
	}

	return that.board.ApplyMove(dest, that.CurrentPlayer().ID())
}

// NextTurn advances to the next player: it refreshes that player's legal
// moves, recomputes scores and the winner, and then either finishes the game
// (a full round of passes, or a saturated board) or reactivates play,
// counting a pass when the new current player has no legal move. Once the
// game is finished, further calls are no-ops so the winner's session win
// count is credited exactly once.
func (that *Game) NextTurn() {
	if that.finished {
		return
	}

	that.CurrentPlayer().SetActive(false)

	that.turnCount = (that.turnCount + 1) % len(that.players)
	that.board.UpdateLegalMoves(that.CurrentPlayer().ID())
	that.RefreshScores()

	if that.passCount >= len(that.players) || that.board.IsFull() {
		that.finished = true

		if that.HasWinningPlayer() {
			that.winningPlayer.IncrementWins()
		}

		return
	}

	that.finished = false
	that.CurrentPlayer().SetActive(true)

	if !that.HasLegalMove() {
		that.passCount++
	} else {
		that.passCount = 0
	}

	that.moveCount++
}

// RefreshScores refreshes every player's current-game total from the board
// and stores the winner: the unique holder of the strict maximum score, or
// nil when the maximum is shared.
func (that *Game) RefreshScores() {
	that.winningPlayer = nil

	best, bestCount := -1, 0
	for _, player := range that.players {
		player.SetScore(that.board.Score(player.ID()))

		switch {
		case player.Score() > best:
			best = player.Score()
			bestCount = 1
			that.winningPlayer = player
		case player.Score() == best:
			bestCount++
		}
	}

	if bestCount != 1 {
		that.winningPlayer = nil
	}
}

func (that *Game) String() string {
	var str strings.Builder

	fmt.Fprintf(&str, "[ Started: %s ] ", that.startedAt.Format(time.DateTime))

	for i, player := range that.players {
		if i > 0 {
			str.WriteString(", ")
		}
		fmt.Fprintf(&str, "%s: %d", player, player.Score())
	}

	fmt.Fprintf(&str, " [ Board size: %d x %d ]", that.boardSize, that.boardSize)

	return str.String()
}
