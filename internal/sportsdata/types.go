package sportsdata

// BoxScore is the subset of the vendor's V3 box score payload the service reads.
type BoxScore struct {
	Score       *Score       `json:"Score"`
	TeamGames   []TeamGame   `json:"TeamGames"`
	PlayerGames []PlayerGame `json:"PlayerGames"`
}

// Score is the game header.
type Score struct {
	ScoreID           int             `json:"ScoreID"`
	GameKey           string          `json:"GameKey"`
	Season            int             `json:"Season"`
	SeasonType        int             `json:"SeasonType"`
	Week              int             `json:"Week"`
	Date              string          `json:"Date"`
	Status            string          `json:"Status"`
	AwayTeam          string          `json:"AwayTeam"`
	HomeTeam          string          `json:"HomeTeam"`
	AwayScore         *int            `json:"AwayScore"`
	HomeScore         *int            `json:"HomeScore"`
	AwayScoreQuarter1 *int            `json:"AwayScoreQuarter1"`
	AwayScoreQuarter2 *int            `json:"AwayScoreQuarter2"`
	AwayScoreQuarter3 *int            `json:"AwayScoreQuarter3"`
	AwayScoreQuarter4 *int            `json:"AwayScoreQuarter4"`
	AwayScoreOvertime *int            `json:"AwayScoreOvertime"`
	HomeScoreQuarter1 *int            `json:"HomeScoreQuarter1"`
	HomeScoreQuarter2 *int            `json:"HomeScoreQuarter2"`
	HomeScoreQuarter3 *int            `json:"HomeScoreQuarter3"`
	HomeScoreQuarter4 *int            `json:"HomeScoreQuarter4"`
	HomeScoreOvertime *int            `json:"HomeScoreOvertime"`
	Quarter           string          `json:"Quarter"`
	TimeRemaining     string          `json:"TimeRemaining"`
	Possession        string          `json:"Possession"`
	Down              *int            `json:"Down"`
	Distance          string          `json:"Distance"`
	YardLine          *int            `json:"YardLine"`
	Channel           string          `json:"Channel"`
	HasStarted        bool            `json:"HasStarted"`
	IsInProgress      bool            `json:"IsInProgress"`
	IsOver            bool            `json:"IsOver"`
	Canceled          bool            `json:"Canceled"`
	StadiumDetails    *StadiumDetails `json:"StadiumDetails"`
}

// StadiumDetails describes the venue.
type StadiumDetails struct {
	StadiumID      int    `json:"StadiumID"`
	Name           string `json:"Name"`
	City           string `json:"City"`
	State          string `json:"State"`
	Country        string `json:"Country"`
	PlayingSurface string `json:"PlayingSurface"`
	Type           string `json:"Type"`
}

// TeamGame holds one team's totals for the game.
type TeamGame struct {
	Team                 string  `json:"Team"`
	Opponent             string  `json:"Opponent"`
	HomeOrAway           string  `json:"HomeOrAway"`
	Score                int     `json:"Score"`
	FirstDowns           int     `json:"FirstDowns"`
	OffensiveYards       int     `json:"OffensiveYards"`
	PassingYards         int     `json:"PassingYards"`
	RushingYards         int     `json:"RushingYards"`
	Turnovers            int     `json:"Giveaways"`
	Penalties            int     `json:"Penalties"`
	PenaltyYards         int     `json:"PenaltyYards"`
	TimeOfPossession     string  `json:"TimeOfPossession"`
	ThirdDownConversions int     `json:"ThirdDownConversions"`
	ThirdDownAttempts    int     `json:"ThirdDownAttempts"`
	Sacks                float64 `json:"Sacks"`
}

// PlayerGame holds one player's line for the game.
type PlayerGame struct {
	PlayerID   int    `json:"PlayerID"`
	Name       string `json:"Name"`
	Team       string `json:"Team"`
	Number     int    `json:"Number"`
	Position   string `json:"Position"`
	HomeOrAway string `json:"HomeOrAway"`
	Played     int    `json:"Played"`

	PassingAttempts      float64 `json:"PassingAttempts"`
	PassingCompletions   float64 `json:"PassingCompletions"`
	PassingYards         float64 `json:"PassingYards"`
	PassingTouchdowns    float64 `json:"PassingTouchdowns"`
	PassingInterceptions float64 `json:"PassingInterceptions"`
	PassingRating        float64 `json:"PassingRating"`

	RushingAttempts   float64 `json:"RushingAttempts"`
	RushingYards      float64 `json:"RushingYards"`
	RushingTouchdowns float64 `json:"RushingTouchdowns"`
	RushingLong       float64 `json:"RushingLong"`

	ReceivingTargets    float64 `json:"ReceivingTargets"`
	Receptions          float64 `json:"Receptions"`
	ReceivingYards      float64 `json:"ReceivingYards"`
	ReceivingTouchdowns float64 `json:"ReceivingTouchdowns"`
	ReceivingLong       float64 `json:"ReceivingLong"`

	FumblesLost float64 `json:"FumblesLost"`

	FantasyPoints    float64 `json:"FantasyPoints"`
	FantasyPointsPPR float64 `json:"FantasyPointsPPR"`
}
