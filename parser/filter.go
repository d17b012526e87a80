package parser

import (
	"strings"

	"github.com/lamorinda/sportsball/models"
)

// FilterGames returns, in file order, the rows of division whose Teams cell
// contains team. Divisions compare trimmed and case-insensitively; the team
// is a case-sensitive substring, so "Hawks" also matches "Hawks Blue".
func FilterGames(rows []models.GameRow, division, team string) []models.GameRow {
	division = strings.TrimSpace(division)

	games := []models.GameRow{}
	for _, row := range rows {
		if !strings.EqualFold(strings.TrimSpace(row.Division), division) {
			continue
		}
		if !strings.Contains(row.Teams, team) {
			continue
		}
		games = append(games, row)
	}

	return games
}
