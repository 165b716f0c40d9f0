package nfl

import (
	"fmt"
	"sort"
	"strings"

	"gridiron/internal/sportsdata"
)

// Reshape turns a vendor box score into the client-facing Game.
func Reshape(box *sportsdata.BoxScore) *Game {
	s := box.Score
	wentToOT := reachedOvertime(s.Status, s.Quarter)

	game := &Game{
		Game: GameHeader{
			ID:         s.ScoreID,
			Season:     s.Season,
			Week:       s.Week,
			Date:       s.Date,
			Status:     s.Status,
			State:      gameState(s),
			Quarter:    s.Quarter,
			Clock:      s.TimeRemaining,
			Possession: s.Possession,
			Channel:    s.Channel,
		},
		Home: TeamSide{
			Team:     s.HomeTeam,
			Score:    intValue(s.HomeScore),
			Quarters: quarterLine(s.HomeScoreQuarter1, s.HomeScoreQuarter2, s.HomeScoreQuarter3, s.HomeScoreQuarter4),
			Overtime: overtime(s.HomeScoreOvertime, wentToOT),
			Players:  []PlayerLine{},
		},
		Away: TeamSide{
			Team:     s.AwayTeam,
			Score:    intValue(s.AwayScore),
			Quarters: quarterLine(s.AwayScoreQuarter1, s.AwayScoreQuarter2, s.AwayScoreQuarter3, s.AwayScoreQuarter4),
			Overtime: overtime(s.AwayScoreOvertime, wentToOT),
			Players:  []PlayerLine{},
		},
	}

	if st := s.StadiumDetails; st != nil && st.Name != "" {
		game.Game.Stadium = &Venue{Name: st.Name, City: st.City, State: st.State}
	}

	for _, tg := range box.TeamGames {
		switch {
		case strings.EqualFold(tg.Team, s.HomeTeam):
			game.Home.Totals = teamTotals(tg)
		case strings.EqualFold(tg.Team, s.AwayTeam):
			game.Away.Totals = teamTotals(tg)
		}
	}

	var candidates leaderCandidates
	for _, pg := range box.PlayerGames {
		if !hasStats(pg) {
			continue
		}
		line := playerLine(pg)

		team := s.AwayTeam
		if isHome(pg, s) {
			game.Home.Players = append(game.Home.Players, line)
			team = s.HomeTeam
		} else {
			game.Away.Players = append(game.Away.Players, line)
		}
		candidates.consider(pg, team)
	}

	sortPlayers(game.Home.Players)
	sortPlayers(game.Away.Players)
	game.Leaders = candidates.leaders()

	return game
}

func gameState(s *sportsdata.Score) string {
	status := strings.ToLower(s.Status)
	switch {
	case s.IsOver, s.Canceled, status == "final", status == "f/ot", status == "canceled":
		return StateFinal
	case s.IsInProgress, status == "inprogress":
		return StateInProgress
	default:
		return StateScheduled
	}
}

func isHome(pg sportsdata.PlayerGame, s *sportsdata.Score) bool {
	if pg.HomeOrAway != "" {
		return strings.EqualFold(pg.HomeOrAway, "HOME")
	}
	return strings.EqualFold(pg.Team, s.HomeTeam)
}

func hasStats(pg sportsdata.PlayerGame) bool {
	return pg.PassingAttempts != 0 ||
		pg.RushingAttempts != 0 ||
		pg.ReceivingTargets != 0 ||
		pg.Receptions != 0 ||
		pg.FantasyPoints != 0 ||
		pg.FantasyPointsPPR != 0
}

func playerLine(pg sportsdata.PlayerGame) PlayerLine {
	line := PlayerLine{
		PlayerID:         pg.PlayerID,
		Name:             pg.Name,
		Position:         pg.Position,
		Number:           pg.Number,
		FantasyPoints:    pg.FantasyPoints,
		FantasyPointsPPR: pg.FantasyPointsPPR,
	}

	if pg.PassingAttempts != 0 || pg.PassingYards != 0 {
		line.Passing = &PassingLine{
			Completions:   int(pg.PassingCompletions),
			Attempts:      int(pg.PassingAttempts),
			Yards:         int(pg.PassingYards),
			Touchdowns:    int(pg.PassingTouchdowns),
			Interceptions: int(pg.PassingInterceptions),
			Rating:        pg.PassingRating,
		}
	}
	if pg.RushingAttempts != 0 || pg.RushingYards != 0 {
		line.Rushing = &RushingLine{
			Attempts:   int(pg.RushingAttempts),
			Yards:      int(pg.RushingYards),
			Touchdowns: int(pg.RushingTouchdowns),
			Long:       int(pg.RushingLong),
		}
	}
	if pg.ReceivingTargets != 0 || pg.Receptions != 0 || pg.ReceivingYards != 0 {
		line.Receiving = &ReceivingLine{
			Targets:    int(pg.ReceivingTargets),
			Receptions: int(pg.Receptions),
			Yards:      int(pg.ReceivingYards),
			Touchdowns: int(pg.ReceivingTouchdowns),
			Long:       int(pg.ReceivingLong),
		}
	}
	return line
}

func teamTotals(tg sportsdata.TeamGame) *TeamTotals {
	totals := &TeamTotals{
		FirstDowns:       tg.FirstDowns,
		TotalYards:       tg.OffensiveYards,
		PassingYards:     tg.PassingYards,
		RushingYards:     tg.RushingYards,
		Turnovers:        tg.Turnovers,
		Penalties:        tg.Penalties,
		PenaltyYards:     tg.PenaltyYards,
		TimeOfPossession: tg.TimeOfPossession,
	}
	if tg.ThirdDownAttempts > 0 {
		totals.ThirdDowns = fmt.Sprintf("%d/%d", tg.ThirdDownConversions, tg.ThirdDownAttempts)
	}
	return totals
}

// sortPlayers orders by fantasy points, highest first; ties by name.
func sortPlayers(players []PlayerLine) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].FantasyPoints != players[j].FantasyPoints {
			return players[i].FantasyPoints > players[j].FantasyPoints
		}
		return players[i].Name < players[j].Name
	})
}

type leaderCandidates struct {
	passing, rushing, receiving *Leader
}

func (c *leaderCandidates) consider(pg sportsdata.PlayerGame, team string) {
	c.passing = better(c.passing, pg, team, pg.PassingYards)
	c.rushing = better(c.rushing, pg, team, pg.RushingYards)
	c.receiving = better(c.receiving, pg, team, pg.ReceivingYards)
}

func (c *leaderCandidates) leaders() Leaders {
	return Leaders{Passing: c.passing, Rushing: c.rushing, Receiving: c.receiving}
}

func better(current *Leader, pg sportsdata.PlayerGame, team string, yards float64) *Leader {
	if yards <= 0 {
		return current
	}
	if current != nil && current.Yards >= int(yards) {
		return current
	}
	return &Leader{PlayerID: pg.PlayerID, Name: pg.Name, Team: team, Yards: int(yards)}
}

func quarterLine(q ...*int) []int {
	line := make([]int, len(q))
	for i, v := range q {
		line[i] = intValue(v)
	}
	return line
}

// reachedOvertime matches the vendor's "F/OT" status or an "OT" quarter.
func reachedOvertime(status, quarter string) bool {
	return strings.EqualFold(status, "F/OT") || strings.EqualFold(quarter, "OT")
}

// overtime is reported when points were scored in OT or the game reached it.
func overtime(v *int, wentToOT bool) *int {
	if v == nil {
		if wentToOT {
			zero := 0
			return &zero
		}
		return nil
	}
	if *v == 0 && !wentToOT {
		return nil
	}
	return v
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
