package entity

import "time"

// GameResult is the archived record of a finished game.
type GameResult struct {
	GameID     string         `json:"game_id"`
	BoardSize  int            `json:"board_size"`
	Winner     string         `json:"winner,omitempty"`
	Scores     map[string]int `json:"scores"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}
