package models

import "time"

// Projection is a season-long fantasy projection imported from an analyst sheet.
type Projection struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	Source        string    `gorm:"index;not null" json:"source"`
	Name          string    `gorm:"not null" json:"name"`
	Position      string    `gorm:"size:4;index;not null" json:"position"`
	Games         int       `json:"games"`
	FantasyPoints float64   `json:"fantasy_points"`
	PositionRank  int       `json:"position_rank"`
	CreatedAt     time.Time `json:"created_at"`
}

// Ranking is one row of an imported draft ranking board.
type Ranking struct {
	ID           uint      `gorm:"primarykey" json:"-"`
	Source       string    `gorm:"index;not null" json:"source"`
	OverallRank  int       `gorm:"not null" json:"overall_rank"`
	Name         string    `gorm:"not null" json:"name"`
	Team         string    `gorm:"size:3" json:"team"`
	Position     string    `gorm:"size:4;index" json:"position,omitempty"`
	PositionRank int       `json:"position_rank,omitempty"`
	ByeWeek      int       `json:"bye_week,omitempty"`
	Injured      bool      `json:"injured"`
	CreatedAt    time.Time `json:"created_at"`
}
