package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lamorinda/sportsball/models"
)

// teamSeparator is the "v" between opponents, e.g. "Hawks v Eagles". It must
// be whitespace-delimited so names like "Cavaliers" are not split.
var teamSeparator = regexp.MustCompile(`\s+v\s+`)

// SplitTeams returns the two opponents of a Teams cell.
func SplitTeams(teams string) (string, string, error) {
	parts := teamSeparator.Split(strings.TrimSpace(teams), -1)
	if len(parts) != 2 {
		return "", "", &models.RowFormatError{
			Field:  ColumnTeams,
			Value:  teams,
			Reason: "expected two teams separated by \" v \"",
		}
	}

	home := strings.TrimSpace(parts[0])
	away := strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return "", "", &models.RowFormatError{
			Field:  ColumnTeams,
			Value:  teams,
			Reason: "empty team name",
		}
	}

	return home, away, nil
}

// BuildIndex groups teams by division. Rows with an empty division or an
// unsplittable Teams cell are skipped and reported in the returned errors.
func BuildIndex(rows []models.GameRow) (models.ScheduleIndex, []error) {
	index := models.ScheduleIndex{}
	var skipped []error

	for _, row := range rows {
		division := strings.TrimSpace(row.Division)
		if division == "" {
			skipped = append(skipped, &models.RowFormatError{
				Line:   row.Line,
				Field:  ColumnDivision,
				Value:  row.Division,
				Reason: "empty division",
			})
			continue
		}

		home, away, err := SplitTeams(row.Teams)
		if err != nil {
			if rowErr, ok := err.(*models.RowFormatError); ok {
				rowErr.Line = row.Line
			}
			skipped = append(skipped, err)
			continue
		}

		index[division] = append(index[division], home, away)
	}

	for division, teams := range index {
		index[division] = uniqueSorted(teams)
	}

	return index, skipped
}

func uniqueSorted(teams []string) []string {
	sort.Strings(teams)

	out := teams[:0]
	for _, team := range teams {
		if len(out) > 0 && team == out[len(out)-1] {
			continue
		}
		out = append(out, team)
	}
	return out
}
