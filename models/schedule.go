package models

import (
	"sort"
	"time"
)

// Snapshot is the latest fetched copy of the schedule spreadsheet export.
type Snapshot struct {
	Data      []byte    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
	Size      int       `json:"size"`
	Checksum  string    `json:"checksum"`
}

type GameRow struct {
	Line     int    `json:"line"`
	Division string `json:"division"`
	Teams    string `json:"teams"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Site     string `json:"site"`
}

// ScheduleIndex maps a trimmed division name to its sorted, deduplicated teams.
type ScheduleIndex map[string][]string

// Divisions returns the division names in ascending order.
func (idx ScheduleIndex) Divisions() []string {
	divisions := make([]string, 0, len(idx))
	for d := range idx {
		divisions = append(divisions, d)
	}
	sort.Strings(divisions)
	return divisions
}

func (idx ScheduleIndex) Teams(division string) []string {
	return idx[division]
}
