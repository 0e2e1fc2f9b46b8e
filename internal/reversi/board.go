package reversi

import (
	"fmt"

	"github.com/reversihub/reversi-backend/internal/apperror"
)

// Board is an n×n grid of squares. It owns the per-player legal-move indices
// (destination square → squares flanked by a move there), the running score
// tally and the frontier: every empty square adjacent to at least one
// occupied square. Only frontier squares can ever become legal moves, so the
// frontier bounds the work done per legal-move refresh.
type Board struct {
	size    int
	pids    []int
	squares [][]*Square
	scores  []int

	// frontier holds the empty squares bordering occupied ones. It is
	// maintained incrementally on every occupancy change, never by rescan.
	frontier map[Coord]*Square

	// moves[pid-1] maps each legal destination for that player to the set of
	// squares a move there would flip. Refreshed only by UpdateLegalMoves.
	moves []map[Coord]map[Coord]struct{}
}

// NewBoard creates a board of the given side length for the given player IDs
// in turn order, seeding the central block with one disk per player per row
// in rotated order. Player IDs must be exactly 1..k in some order, and the
// side length a positive multiple of k that fits the seed block.
func NewBoard(size int, pids []int) (*Board, error) {
	if err := validateConfiguration(size, pids); err != nil {
		return nil, err
	}

	that := &Board{
		size:     size,
		pids:     append([]int(nil), pids...),
		scores:   make([]int, len(pids)),
		frontier: make(map[Coord]*Square),
		moves:    make([]map[Coord]map[Coord]struct{}, len(pids)),
	}
	for i := range that.moves {
		that.moves[i] = make(map[Coord]map[Coord]struct{})
	}

	that.squares = make([][]*Square, size)
	for y := 0; y < size; y++ {
		that.squares[y] = make([]*Square, size)
		for x := 0; x < size; x++ {
			that.squares[y][x] = newSquare(x, y)
		}
	}

	that.seed()

	return that, nil
}

func validateConfiguration(size int, pids []int) error {
	k := len(pids)

	if size <= 0 || k == 0 || size%k != 0 {
		return fmt.Errorf("%w: size %d, players %d", apperror.ErrInvalidConfiguration, size, k)
	}

	// The k×k seed block starts at size/2-1 and has to fit on the board.
	if size/2-1+k > size {
		return fmt.Errorf("%w: seed block of %d does not fit on size %d", apperror.ErrInvalidConfiguration, k, size)
	}

	seen := make(map[int]struct{}, k)
	for _, pid := range pids {
		if pid < 1 || pid > k {
			return fmt.Errorf("%w: player id %d out of range 1..%d", apperror.ErrInvalidConfiguration, pid, k)
		}
		if _, ok := seen[pid]; ok {
			return fmt.Errorf("%w: duplicate player id %d", apperror.ErrInvalidConfiguration, pid)
		}
		seen[pid] = struct{}{}
	}

	return nil
}

// seed fills the central k×k block. Row i places the players in turn order
// rotated so that each player appears once per row and once per column,
// which for two players yields the standard Reversi diagonal start. Every
// seeded player starts with a score of k.
func (that *Board) seed() {
	k := len(that.pids)
	origin := that.size/2 - 1

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			square := that.squares[origin+i][origin+j]
			pid := that.pids[(k-1-i+j)%k]

			square.SetPID(pid)
			that.scores[pid-1]++
			that.updateAdjacents(square)
		}
	}
}

// Size returns the side length of the board.
func (that *Board) Size() int {
	return that.size
}

// PIDs returns the player IDs in turn order.
func (that *Board) PIDs() []int {
	return append([]int(nil), that.pids...)
}

// SquareAt returns the square at the given coordinates, or nil if they are
// off the board.
func (that *Board) SquareAt(x, y int) *Square {
	if !that.inBounds(x, y) {
		return nil
	}

	return that.squares[y][x]
}

// Grid returns the occupant IDs as a row-major matrix, EmptyPID for empty
// squares. The matrix is a copy; it is the serializable form of the board.
func (that *Board) Grid() [][]int {
	grid := make([][]int, that.size)
	for y := 0; y < that.size; y++ {
		grid[y] = make([]int, that.size)
		for x := 0; x < that.size; x++ {
			grid[y][x] = that.squares[y][x].PID()
		}
	}

	return grid
}

// Score returns the given player's current score, or -1 if the player ID is
// unknown. Unknown IDs are a query sentinel here, not an error, so display
// code can probe without guarding.
func (that *Board) Score(pid int) int {
	if !that.knownPID(pid) {
		return -1
	}

	return that.scores[pid-1]
}

// LegalMoves returns the destinations currently legal for the given player,
// per the last UpdateLegalMoves call for that player. It returns an empty
// set when the player has no move and nil when the player ID is unknown.
func (that *Board) LegalMoves(pid int) map[Coord]struct{} {
	if !that.knownPID(pid) {
		return nil
	}

	legal := make(map[Coord]struct{}, len(that.moves[pid-1]))
	for dest := range that.moves[pid-1] {
		legal[dest] = struct{}{}
	}

	return legal
}

// FlankedSquares returns the squares that would be flipped if the given
// player moved to the given destination right now, or nil if that move is
// not currently legal.
func (that *Board) FlankedSquares(dest Coord, pid int) map[Coord]struct{} {
	if !that.knownPID(pid) {
		return nil
	}

	flanked, ok := that.moves[pid-1][dest]
	if !ok {
		return nil
	}

	view := make(map[Coord]struct{}, len(flanked))
	for c := range flanked {
		view[c] = struct{}{}
	}

	return view
}

// IsLegal reports whether the given player may move to the given destination.
func (that *Board) IsLegal(dest Coord, pid int) bool {
	if !that.knownPID(pid) {
		return false
	}

	_, ok := that.moves[pid-1][dest]

	return ok
}

// HasLegalMove reports whether the given player has any legal move.
func (that *Board) HasLegalMove(pid int) bool {
	return that.knownPID(pid) && len(that.moves[pid-1]) > 0
}

// IsFull reports whether the board is saturated: no empty square borders an
// occupied one. This is the board-level termination trigger; unreachable
// empty pockets count as saturation in the generalized game.
func (that *Board) IsFull() bool {
	return len(that.frontier) == 0
}

// ApplyMove places the given player's disk at the destination, flips every
// flanked square to that player and moves the flipped points across the
// score tally. The move must be legal per the last UpdateLegalMoves call for
// that player; otherwise ErrIllegalMove is returned and nothing is mutated.
func (that *Board) ApplyMove(dest Coord, pid int) error {
	if !that.knownPID(pid) {
		return fmt.Errorf("%w: invalid player id %d", apperror.ErrIllegalMove, pid)
	}

	flanked, ok := that.moves[pid-1][dest]
	if !ok {
		return fmt.Errorf("%w: square (%d,%d) for player %d", apperror.ErrIllegalMove, dest.X, dest.Y, pid)
	}

	square := that.squares[dest.Y][dest.X]
	square.SetPID(pid)
	that.scores[pid-1]++

	for c := range flanked {
		flipped := that.squares[c.Y][c.X]
		that.scores[flipped.PID()-1]--
		flipped.SetPID(pid)
		that.scores[pid-1]++
	}

	// The filled square is no longer a destination for anyone.
	for i := range that.moves {
		delete(that.moves[i], dest)
	}

	that.updateAdjacents(square)

	return nil
}

// UpdateLegalMoves recomputes the full legal-move index for the given player
// from the current frontier. Out-of-range player IDs are a no-op. For every
// frontier square, every occupied neighbor owned by another player opens a
// direction; the walk along it accumulates candidate flips until it falls
// off the board, hits an empty square (no flank) or reaches one of the
// player's own disks (flank confirmed, runs merged per destination).
func (that *Board) UpdateLegalMoves(pid int) {
	if !that.knownPID(pid) {
		return
	}

	index := that.moves[pid-1]
	for dest := range index {
		delete(index, dest)
	}

	for _, empty := range that.frontier {
		for filled := range empty.FilledAdjacents() {
			if that.squares[filled.Y][filled.X].PID() == pid {
				continue
			}

			dx, dy := filled.X-empty.X, filled.Y-empty.Y

			run := []Coord{filled}
			for x, y := filled.X+dx, filled.Y+dy; that.inBounds(x, y); x, y = x+dx, y+dy {
				next := that.squares[y][x]

				if next.IsEmpty() {
					break
				}

				if next.PID() == pid {
					flanked, ok := index[empty.Coord]
					if !ok {
						flanked = make(map[Coord]struct{}, len(run))
						index[empty.Coord] = flanked
					}
					for _, c := range run {
						flanked[c] = struct{}{}
					}

					break
				}

				run = append(run, next.Coord)
			}
		}
	}
}

// updateAdjacents reconciles the frontier and neighbor caches around a square
// that has just been filled: the square leaves the frontier, each of its
// still-empty neighbors joins it, and those neighbors refresh their
// occupied-neighbor sets from a local scan.
func (that *Board) updateAdjacents(square *Square) {
	delete(that.frontier, square.Coord)

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}

			x, y := square.X+dx, square.Y+dy
			if !that.inBounds(x, y) {
				continue
			}

			adjacent := that.squares[y][x]
			if !adjacent.IsEmpty() {
				continue
			}

			that.frontier[adjacent.Coord] = adjacent
			that.refreshFilledAdjacents(adjacent)
		}
	}
}

// refreshFilledAdjacents rescans the 8-neighborhood of an empty square and
// records every occupied neighbor. The scan is local and idempotent.
func (that *Board) refreshFilledAdjacents(square *Square) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}

			x, y := square.X+dx, square.Y+dy
			if !that.inBounds(x, y) {
				continue
			}

			if !that.squares[y][x].IsEmpty() {
				square.AddFilledAdjacent(Coord{X: x, Y: y})
			}
		}
	}
}

// restoreBoard rebuilds a board from a serialized occupant grid, recomputing
// scores, frontier and adjacency caches by full scan. Legal-move indices are
// left empty; callers refresh the relevant player via UpdateLegalMoves.
func restoreBoard(size int, pids []int, grid [][]int) (*Board, error) {
	if err := validateConfiguration(size, pids); err != nil {
		return nil, err
	}

	if len(grid) != size {
		return nil, fmt.Errorf("%w: grid has %d rows, want %d", apperror.ErrInvalidConfiguration, len(grid), size)
	}

	that := &Board{
		size:     size,
		pids:     append([]int(nil), pids...),
		scores:   make([]int, len(pids)),
		frontier: make(map[Coord]*Square),
		moves:    make([]map[Coord]map[Coord]struct{}, len(pids)),
	}
	for i := range that.moves {
		that.moves[i] = make(map[Coord]map[Coord]struct{})
	}

	that.squares = make([][]*Square, size)
	for y := 0; y < size; y++ {
		if len(grid[y]) != size {
			return nil, fmt.Errorf("%w: grid row %d has %d columns, want %d", apperror.ErrInvalidConfiguration, y, len(grid[y]), size)
		}

		that.squares[y] = make([]*Square, size)
		for x := 0; x < size; x++ {
			that.squares[y][x] = newSquare(x, y)
		}
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pid := grid[y][x]
			if pid == EmptyPID {
				continue
			}
			if !that.knownPID(pid) {
				return nil, fmt.Errorf("%w: unknown occupant %d at (%d,%d)", apperror.ErrInvalidConfiguration, pid, x, y)
			}

			square := that.squares[y][x]
			square.SetPID(pid)
			that.scores[pid-1]++
			that.updateAdjacents(square)
		}
	}

	return that, nil
}

func (that *Board) inBounds(x, y int) bool {
	return x >= 0 && x < that.size && y >= 0 && y < that.size
}

func (that *Board) knownPID(pid int) bool {
	return pid >= 1 && pid <= len(that.pids)
}
