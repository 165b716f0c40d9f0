package nfl

// Game states drive the cache TTL.
const (
	StateScheduled  = "scheduled"
	StateInProgress = "in_progress"
	StateFinal      = "final"
)

// Game is the reshaped box score served to clients.
type Game struct {
	Game    GameHeader `json:"game"`
	Home    TeamSide   `json:"home"`
	Away    TeamSide   `json:"away"`
	Leaders Leaders    `json:"leaders"`
}

type GameHeader struct {
	ID         int    `json:"id"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	State      string `json:"state"`
	Quarter    string `json:"quarter,omitempty"`
	Clock      string `json:"clock,omitempty"`
	Possession string `json:"possession,omitempty"`
	Channel    string `json:"channel,omitempty"`
	Stadium    *Venue `json:"stadium,omitempty"`
}

type Venue struct {
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

type TeamSide struct {
	Team     string       `json:"team"`
	Score    int          `json:"score"`
	Quarters []int        `json:"quarters"`
	Overtime *int         `json:"overtime,omitempty"`
	Totals   *TeamTotals  `json:"totals,omitempty"`
	Players  []PlayerLine `json:"players"`
}

type TeamTotals struct {
	FirstDowns       int    `json:"first_downs"`
	TotalYards       int    `json:"total_yards"`
	PassingYards     int    `json:"passing_yards"`
	RushingYards     int    `json:"rushing_yards"`
	Turnovers        int    `json:"turnovers"`
	Penalties        int    `json:"penalties"`
	PenaltyYards     int    `json:"penalty_yards"`
	TimeOfPossession string `json:"time_of_possession,omitempty"`
	ThirdDowns       string `json:"third_downs,omitempty"`
}

type PlayerLine struct {
	PlayerID         int            `json:"player_id"`
	Name             string         `json:"name"`
	Position         string         `json:"position"`
	Number           int            `json:"number,omitempty"`
	FantasyPoints    float64        `json:"fantasy_points"`
	FantasyPointsPPR float64        `json:"fantasy_points_ppr"`
	Passing          *PassingLine   `json:"passing,omitempty"`
	Rushing          *RushingLine   `json:"rushing,omitempty"`
	Receiving        *ReceivingLine `json:"receiving,omitempty"`
}

type PassingLine struct {
	Completions   int     `json:"completions"`
	Attempts      int     `json:"attempts"`
	Yards         int     `json:"yards"`
	Touchdowns    int     `json:"touchdowns"`
	Interceptions int     `json:"interceptions"`
	Rating        float64 `json:"rating"`
}

type RushingLine struct {
	Attempts   int `json:"attempts"`
	Yards      int `json:"yards"`
	Touchdowns int `json:"touchdowns"`
	Long       int `json:"long"`
}

type ReceivingLine struct {
	Targets    int `json:"targets"`
	Receptions int `json:"receptions"`
	Yards      int `json:"yards"`
	Touchdowns int `json:"touchdowns"`
	Long       int `json:"long"`
}

// Leaders are the top yardage players across both teams.
type Leaders struct {
	Passing   *Leader `json:"passing,omitempty"`
	Rushing   *Leader `json:"rushing,omitempty"`
	Receiving *Leader `json:"receiving,omitempty"`
}

type Leader struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Yards    int    `json:"yards"`
}
