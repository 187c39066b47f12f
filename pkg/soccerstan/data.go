package soccerstan

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// TeamMap assigns 1-based model ids to team names. Ids follow the
// sorted order of the unique names so the same set of teams always
// maps the same way regardless of fixture order.
type TeamMap struct {
	ids   map[string]int
	names []string
}

// NewTeamMap builds a TeamMap from the given names, deduplicating and
// sorting them.
func NewTeamMap(names []string) *TeamMap {
	seen := make(map[string]bool)
	var unique []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	sort.Strings(unique)

	ids := make(map[string]int, len(unique))
	for i, name := range unique {
		ids[name] = i + 1
	}
	return &TeamMap{ids: ids, names: unique}
}

// Len returns the number of teams.
func (m *TeamMap) Len() int {
	return len(m.names)
}

// ID returns the 1-based id for a team name, or 0 if unknown.
func (m *TeamMap) ID(name string) int {
	return m.ids[name]
}

// Name returns the team name for a 1-based id.
func (m *TeamMap) Name(id int) (string, error) {
	if id < 1 || id > len(m.names) {
		return "", fmt.Errorf("team id %d out of range [1, %d]", id, len(m.names))
	}
	return m.names[id-1], nil
}

// Names returns all team names in id order.
func (m *TeamMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// ParseMatchesCSV parses a football-data.co.uk results file. Rows
// with blank goal columns are future fixtures and are skipped, as are
// rows too short to hold the required columns.
func ParseMatchesCSV(reader io.Reader) ([]Match, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1 // Allow variable field count

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	// Find column indices from header row
	header := records[0]
	dateCol := findColumn(header, "Date")
	homeTeamCol := findColumn(header, "HomeTeam")
	awayTeamCol := findColumn(header, "AwayTeam")
	homeGoalsCol := findColumn(header, "FTHG") // Full Time Home Goals
	awayGoalsCol := findColumn(header, "FTAG") // Full Time Away Goals

	if homeTeamCol == -1 || awayTeamCol == -1 || homeGoalsCol == -1 || awayGoalsCol == -1 {
		return nil, fmt.Errorf("required columns not found in CSV header")
	}

	var matches []Match
	for _, record := range records[1:] {
		if len(record) <= maxIndex(homeTeamCol, awayTeamCol, homeGoalsCol, awayGoalsCol) {
			continue // Skip malformed rows
		}

		homeTeam := strings.TrimSpace(record[homeTeamCol])
		awayTeam := strings.TrimSpace(record[awayTeamCol])
		if homeTeam == "" || awayTeam == "" {
			continue
		}

		// Blank goals mean the game has not been played yet
		homeGoalsStr := strings.TrimSpace(record[homeGoalsCol])
		awayGoalsStr := strings.TrimSpace(record[awayGoalsCol])
		if homeGoalsStr == "" || awayGoalsStr == "" {
			continue
		}

		homeGoals, err := strconv.Atoi(homeGoalsStr)
		if err != nil {
			continue
		}
		awayGoals, err := strconv.Atoi(awayGoalsStr)
		if err != nil {
			continue
		}

		date := ""
		if dateCol != -1 && len(record) > dateCol {
			date = strings.TrimSpace(record[dateCol])
		}

		matches = append(matches, Match{
			Date:      date,
			HomeTeam:  homeTeam,
			AwayTeam:  awayTeam,
			HomeGoals: homeGoals,
			AwayGoals: awayGoals,
		})
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no completed matches parsed from CSV")
	}

	return matches, nil
}

// BuildData converts parsed matches into the model's observed-data
// block plus the name-to-id map used to report results.
func BuildData(matches []Match) (*Data, *TeamMap, error) {
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no matches provided")
	}

	var names []string
	for _, m := range matches {
		names = append(names, m.HomeTeam, m.AwayTeam)
	}
	teams := NewTeamMap(names)

	homeTeam := make([]int, len(matches))
	awayTeam := make([]int, len(matches))
	homeGoals := make([]int, len(matches))
	awayGoals := make([]int, len(matches))
	for i, m := range matches {
		homeTeam[i] = teams.ID(m.HomeTeam)
		awayTeam[i] = teams.ID(m.AwayTeam)
		homeGoals[i] = m.HomeGoals
		awayGoals[i] = m.AwayGoals
	}

	data, err := NewData(teams.Len(), homeTeam, awayTeam, homeGoals, awayGoals)
	if err != nil {
		return nil, nil, fmt.Errorf("building model data: %w", err)
	}

	return data, teams, nil
}

// findColumn finds the index of a column in the CSV header
func findColumn(header []string, columnName string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), columnName) {
			return i
		}
	}
	return -1
}

func maxIndex(vals ...int) int {
	maxVal := vals[0]
	for _, v := range vals[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}
