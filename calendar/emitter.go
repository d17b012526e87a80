package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/lamorinda/sportsball/models"
)

const (
	productID     = "-//lamorinda//Sportsball Schedule//EN"
	uidDomain     = "@sportsball"
	gameDuration  = time.Hour
	floatingStamp = "20060102T150405"
)

// uidNamespace scopes the deterministic event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lamorinda/sportsball"))

type Emitter struct {
	name string
	now  func() time.Time
}

func NewEmitter(name string) *Emitter {
	return &Emitter{
		name: name,
		now:  time.Now,
	}
}

// Emit renders one VEVENT per game, in input order. If any game has an
// unparseable date nothing is returned.
func (e *Emitter) Emit(games []models.GameRow) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	if e.name != "" {
		cal.SetXWRCalName(e.name)
	}

	stamp := e.now().UTC()
	seen := make(map[string]int, len(games))

	for _, game := range games {
		start, err := ParseGameTime(game.Date, game.Time, stamp)
		if err != nil {
			return nil, &models.DateParseError{
				Line:  game.Line,
				Value: strings.TrimSpace(game.Date + " " + game.Time),
				Err:   err,
			}
		}
		end := start.Add(gameDuration)

		key := eventKey(game)
		uid := key + uidDomain
		if n := seen[key]; n > 0 {
			// Duplicate rows still need distinct UIDs.
			uid = fmt.Sprintf("%s-%d%s", key, n, uidDomain)
		}
		seen[key]++

		event := cal.AddEvent(uid)
		event.SetDtStampTime(stamp)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(floatingStamp))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(floatingStamp))
		event.SetSummary(Summary(game))
		event.SetDescription(Description(game))
		if loc := strings.TrimSpace(game.Location); loc != "" {
			event.SetLocation(loc)
		}
	}

	return []byte(cal.Serialize()), nil
}

func Summary(game models.GameRow) string {
	return fmt.Sprintf("Game: %s", game.Teams)
}

func Description(game models.GameRow) string {
	return fmt.Sprintf("Location: %s at %s", game.Location, game.Site)
}

// EventUID is stable across refreshes as long as the row content is unchanged,
// so subscribed calendars update events in place.
func EventUID(game models.GameRow) string {
	return eventKey(game) + uidDomain
}

func eventKey(game models.GameRow) string {
	key := strings.Join([]string{
		strings.TrimSpace(game.Division),
		game.Teams,
		game.Date,
		game.Time,
		game.Location,
		game.Site,
	}, "|")
	return uuid.NewSHA1(uidNamespace, []byte(key)).String()
}
