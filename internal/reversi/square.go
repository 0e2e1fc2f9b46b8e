package reversi

// EmptyPID marks a square that no player occupies.
const EmptyPID = 0

// Coord is a stable board coordinate. Squares refer to each other by Coord
// only; the board owns every square and resolves coordinates to squares.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Square is a single board cell: a fixed coordinate, the occupying player ID
// (EmptyPID while unoccupied) and the set of occupied neighboring squares,
// kept current by the board as the surrounding cells fill.
type Square struct {
	Coord

	pid             int
	filledAdjacents map[Coord]struct{}
}

func newSquare(x, y int) *Square {
	return &Square{
		Coord:           Coord{X: x, Y: y},
		pid:             EmptyPID,
		filledAdjacents: make(map[Coord]struct{}),
	}
}

// PID returns the occupying player ID, or EmptyPID.
func (that *Square) PID() int {
	return that.pid
}

// SetPID sets the occupying player ID.
func (that *Square) SetPID(pid int) {
	that.pid = pid
}

// IsEmpty reports whether no player occupies this square.
func (that *Square) IsEmpty() bool {
	return that.pid == EmptyPID
}

// FilledAdjacents returns the coordinates of occupied neighboring squares.
// The returned map is owned by the square; callers must not modify it.
func (that *Square) FilledAdjacents() map[Coord]struct{} {
	return that.filledAdjacents
}

// AddFilledAdjacent records an occupied neighbor. Adding the same coordinate
// twice is a no-op.
func (that *Square) AddFilledAdjacent(c Coord) {
	that.filledAdjacents[c] = struct{}{}
}
