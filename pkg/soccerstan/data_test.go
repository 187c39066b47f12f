package soccerstan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsCSV = `Div,Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR
E0,16/08/24,Man United,Fulham,1,0,H
E0,17/08/24,Ipswich,Liverpool,0,2,A
E0,17/08/24,Arsenal,Wolves,2,0,H
E0,18/08/24,Chelsea,Man City,0,2,A
E0,25/05/25,Fulham,Man City,,,
`

func TestParseMatchesCSV(t *testing.T) {
	matches, err := ParseMatchesCSV(strings.NewReader(resultsCSV))
	require.NoError(t, err)

	// The unplayed fixture (blank goals) is dropped
	require.Len(t, matches, 4)

	assert.Equal(t, Match{
		Date:      "16/08/24",
		HomeTeam:  "Man United",
		AwayTeam:  "Fulham",
		HomeGoals: 1,
		AwayGoals: 0,
	}, matches[0])
	assert.Equal(t, "Chelsea", matches[3].HomeTeam)
	assert.Equal(t, 2, matches[3].AwayGoals)
}

func TestParseMatchesCSV_SkipsMalformedRows(t *testing.T) {
	csv := "HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"Leeds,Derby,1,0\n" +
		",Derby,1,0\n" +
		"Leeds,Derby,x,0\n" +
		"Leeds\n"
	matches, err := ParseMatchesCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestParseMatchesCSV_MissingColumns(t *testing.T) {
	_, err := ParseMatchesCSV(strings.NewReader("Div,Date,Home,Away\nE0,1/1/24,A,B\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns")
}

func TestParseMatchesCSV_NoCompletedMatches(t *testing.T) {
	csv := "HomeTeam,AwayTeam,FTHG,FTAG\nLeeds,Derby,,\n"
	_, err := ParseMatchesCSV(strings.NewReader(csv))
	require.Error(t, err)
}

func TestNewTeamMap_SortsAndDeduplicates(t *testing.T) {
	teams := NewTeamMap([]string{"Wolves", "Arsenal", "Chelsea", "Arsenal", "Wolves"})

	require.Equal(t, 3, teams.Len())
	assert.Equal(t, []string{"Arsenal", "Chelsea", "Wolves"}, teams.Names())
	assert.Equal(t, 1, teams.ID("Arsenal"))
	assert.Equal(t, 3, teams.ID("Wolves"))
	assert.Equal(t, 0, teams.ID("Barnsley"))

	name, err := teams.Name(2)
	require.NoError(t, err)
	assert.Equal(t, "Chelsea", name)

	_, err = teams.Name(4)
	require.Error(t, err)
	_, err = teams.Name(0)
	require.Error(t, err)
}

func TestBuildData(t *testing.T) {
	matches, err := ParseMatchesCSV(strings.NewReader(resultsCSV))
	require.NoError(t, err)

	data, teams, err := BuildData(matches)
	require.NoError(t, err)

	assert.Equal(t, 8, data.NTeams)
	assert.Equal(t, 4, data.NGames)

	// Ids reflect sorted team names, independent of fixture order
	assert.Equal(t, teams.ID("Man United"), data.HomeTeam[0])
	assert.Equal(t, teams.ID("Fulham"), data.AwayTeam[0])
	assert.Equal(t, []int{1, 0, 2, 0}, data.HomeGoals)
	assert.Equal(t, []int{0, 2, 0, 2}, data.AwayGoals)

	for g := 0; g < data.NGames; g++ {
		assert.GreaterOrEqual(t, data.HomeTeam[g], 1)
		assert.LessOrEqual(t, data.HomeTeam[g], data.NTeams)
	}
}

func TestBuildData_NoMatches(t *testing.T) {
	_, _, err := BuildData(nil)
	require.Error(t, err)
}
