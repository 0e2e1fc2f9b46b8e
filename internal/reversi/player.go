package reversi

import "fmt"

// Player is a passive record of a participant: identity, turn-order ID,
// current-game score and session win tally. Players outlive a single game;
// the score resets per game while the ID and win count persist across a
// session. The active flag tracks whose turn it is for display layers.
type Player struct {
	name      string
	diskColor string

	pid    int
	score  int
	wins   int
	active bool
}

// NewPlayer creates a player with the given display name and disk color
// designator. The turn-order ID is assigned when a game is created.
func NewPlayer(name, diskColor string) *Player {
	return &Player{
		name:      name,
		diskColor: diskColor,
	}
}

// Name returns the player's display name.
func (that *Player) Name() string {
	return that.name
}

// DiskColor returns the disk color designator. Players are ordered by this
// string when turn-order IDs are assigned, so turn order is deterministic
// regardless of input order.
func (that *Player) DiskColor() string {
	return that.diskColor
}

// ID returns the 1-based turn-order ID, which doubles as the numeric marker
// stored in occupied squares.
func (that *Player) ID() int {
	return that.pid
}

// SetID sets the turn-order ID.
func (that *Player) SetID(pid int) {
	that.pid = pid
}

// Score returns the player's current-game total.
func (that *Player) Score() int {
	return that.score
}

// SetScore sets the player's current-game total.
func (that *Player) SetScore(score int) {
	that.score = score
}

// Wins returns the player's session win count.
func (that *Player) Wins() int {
	return that.wins
}

// SetWins sets the session win count, used when restoring a saved session.
func (that *Player) SetWins(wins int) {
	that.wins = wins
}

// IncrementWins credits the player with a won game.
func (that *Player) IncrementWins() {
	that.wins++
}

// IsActive reports whether it is currently this player's turn.
func (that *Player) IsActive() bool {
	return that.active
}

// SetActive marks whether it is this player's turn.
func (that *Player) SetActive(active bool) {
	that.active = active
}

func (that *Player) String() string {
	return fmt.Sprintf("%s (%s)", that.name, that.diskColor)
}
