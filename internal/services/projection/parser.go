package projection

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gridiron/internal/models"
)

const maxLineSize = 1 << 20

var (
	projectionLine = regexp.MustCompile(`^(QB|RB|WR|TE)\s+(.+)`)

	rankLine   = regexp.MustCompile(`^(\d+)\s*$`)
	playerLine = regexp.MustCompile(`^([A-Za-z'.\-\s]+(?:Jr\.|Sr\.|III|II|IV)?)\s*\(([A-Z]{2,3})\)(\s*O)?$`)
	tagLine    = regexp.MustCompile(`^(QB|RB|WR|TE|K|DST)(\d+)(?:\s+(\d+|-))?`)

	// defensive columns follow the fantasy points and position rank
	defenseMarkers = map[string]bool{"ED": true, "LB": true, "DI": true, "CB": true, "S": true}

	rankingNoise = []string{"out of 5 stars", "Coach", "Tier", "Customize"}
)

const (
	minProjectionTokens = 15
	minStatTokens       = 15
)

// ParseProjections reads one player per line from an analyst projection
// sheet exported as text. Lines that do not look like a player row are skipped.
func ParseProjections(r io.Reader) ([]models.Projection, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows []models.Projection
	for scanner.Scan() {
		if p, ok := parseProjectionLine(scanner.Text()); ok {
			rows = append(rows, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read projections: %w", err)
	}
	return rows, nil
}

func parseProjectionLine(line string) (models.Projection, bool) {
	m := projectionLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return models.Projection{}, false
	}
	position, rest := m[1], m[2]
	if strings.Contains(rest, "Total") {
		return models.Projection{}, false
	}

	parts := strings.Fields(rest)
	if len(parts) < minProjectionTokens {
		return models.Projection{}, false
	}

	// the games column (16 or 17) ends the name
	statsStart := 0
	for i, part := range parts {
		if part == "16" || part == "17" {
			statsStart = i
			break
		}
	}
	if statsStart == 0 {
		return models.Projection{}, false
	}

	name := cleanName(parts[:statsStart])
	stats := parts[statsStart:]
	if name == "" || len(stats) < minStatTokens {
		return models.Projection{}, false
	}

	games, err := strconv.Atoi(stats[0])
	if err != nil {
		return models.Projection{}, false
	}

	points, rank, ok := pointsBeforeDefense(stats)
	if !ok || points <= 0 {
		return models.Projection{}, false
	}

	return models.Projection{
		Name:          name,
		Position:      position,
		Games:         games,
		FantasyPoints: points,
		PositionRank:  rank,
	}, true
}

// cleanName drops stat columns that bled into the name, e.g.
// "Shedeur Sanders 4 139 86".
func cleanName(parts []string) string {
	name := make([]string, 0, len(parts))
	for _, part := range parts {
		if isDigits(part) {
			break
		}
		name = append(name, part)
	}
	return strings.Join(name, " ")
}

func pointsBeforeDefense(stats []string) (float64, int, bool) {
	for i, tok := range stats {
		if !defenseMarkers[tok] || i < 2 {
			continue
		}
		rank, err := strconv.Atoi(stats[i-1])
		if err != nil {
			continue
		}
		points, err := strconv.ParseFloat(stats[i-2], 64)
		if err != nil || math.IsNaN(points) || math.IsInf(points, 0) {
			continue
		}
		return points, rank, true
	}
	return 0, 0, false
}

// ParseRankings reads a draft board pasted as text: a bare overall rank,
// then "Name (TEAM)" with an optional trailing " O" for injured players,
// then a tag such as "QB72\t9" giving position, position rank and bye week.
func ParseRankings(r io.Reader) ([]models.Ranking, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		rows        []models.Ranking
		currentRank int
		hasRank     bool
		lastTagged  = true
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isNoise(line) {
			continue
		}

		if m := rankLine.FindStringSubmatch(line); m != nil {
			rank, err := strconv.Atoi(m[1])
			if err == nil {
				currentRank, hasRank = rank, true
			}
			continue
		}

		if m := playerLine.FindStringSubmatch(line); m != nil && hasRank {
			rows = append(rows, models.Ranking{
				OverallRank: currentRank,
				Name:        strings.TrimSpace(m[1]),
				Team:        m[2],
				Injured:     m[3] != "",
			})
			hasRank = false
			lastTagged = false
			continue
		}

		if m := tagLine.FindStringSubmatch(line); m != nil && !lastTagged && len(rows) > 0 {
			last := &rows[len(rows)-1]
			last.Position = m[1]
			last.PositionRank, _ = strconv.Atoi(m[2])
			if m[3] != "" && m[3] != "-" {
				last.ByeWeek, _ = strconv.Atoi(m[3])
			}
			lastTagged = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rankings: %w", err)
	}
	return rows, nil
}

func isNoise(line string) bool {
	for _, noise := range rankingNoise {
		if strings.Contains(line, noise) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
