package soccerstan

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
)

// ParameterSummary describes the posterior of a single scalar.
type ParameterSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// TeamEffectSummary describes the posterior of one team's offense or
// defense strength.
type TeamEffectSummary struct {
	Team string `json:"team"`
	ParameterSummary
}

// Summary holds posterior summaries for every model parameter. Team
// tables are ordered by posterior median, weakest first, the order
// the original credible-interval plots used.
type Summary struct {
	Alpha         float64             `json:"alpha"`
	HomeAdvantage ParameterSummary    `json:"home_advantage"`
	Offense       []TeamEffectSummary `json:"offense"`
	Defense       []TeamEffectSummary `json:"defense"`
	Draws         int                 `json:"draws"`
}

// Summarize computes per-parameter posterior summaries from a fit.
// alpha sets the central credible interval width (0.05 gives 95%).
func Summarize(result *FitResult, teams *TeamMap, alpha float64) (*Summary, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1), got %g", alpha)
	}
	if teams.Len() != result.NTeams {
		return nil, fmt.Errorf("team map has %d teams, fit has %d", teams.Len(), result.NTeams)
	}

	draws := result.Draws()
	if len(draws) == 0 {
		return nil, fmt.Errorf("fit contains no draws")
	}

	nTeams := result.NTeams
	homeAdvantage := make([]float64, len(draws))
	offense := make([][]float64, nTeams)
	defense := make([][]float64, nTeams)
	for t := 0; t < nTeams; t++ {
		offense[t] = make([]float64, len(draws))
		defense[t] = make([]float64, len(draws))
	}

	for i, draw := range draws {
		p, err := ParamsFromVector(nTeams, draw)
		if err != nil {
			return nil, err
		}
		derived := p.Transform()
		homeAdvantage[i] = p.HomeAdvantage
		for t := 0; t < nTeams; t++ {
			offense[t][i] = derived.Offense[t]
			defense[t][i] = derived.Defense[t]
		}
	}

	summary := &Summary{Alpha: alpha, Draws: len(draws)}

	var err error
	summary.HomeAdvantage, err = summarizeDraws(homeAdvantage, alpha)
	if err != nil {
		return nil, fmt.Errorf("summarizing home advantage: %w", err)
	}

	summary.Offense, err = summarizeTeamEffects(offense, teams, alpha)
	if err != nil {
		return nil, fmt.Errorf("summarizing offense: %w", err)
	}
	summary.Defense, err = summarizeTeamEffects(defense, teams, alpha)
	if err != nil {
		return nil, fmt.Errorf("summarizing defense: %w", err)
	}

	return summary, nil
}

func summarizeTeamEffects(effectDraws [][]float64, teams *TeamMap, alpha float64) ([]TeamEffectSummary, error) {
	summaries := make([]TeamEffectSummary, len(effectDraws))
	for t := range effectDraws {
		name, err := teams.Name(t + 1)
		if err != nil {
			return nil, err
		}
		s, err := summarizeDraws(effectDraws[t], alpha)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", name, err)
		}
		summaries[t] = TeamEffectSummary{Team: name, ParameterSummary: s}
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Median < summaries[j].Median
	})
	return summaries, nil
}

func summarizeDraws(draws []float64, alpha float64) (ParameterSummary, error) {
	mean, err := stats.Mean(draws)
	if err != nil {
		return ParameterSummary{}, err
	}
	median, err := stats.Median(draws)
	if err != nil {
		return ParameterSummary{}, err
	}
	lower, err := stats.Percentile(draws, 100*alpha/2)
	if err != nil {
		return ParameterSummary{}, err
	}
	upper, err := stats.Percentile(draws, 100*(1-alpha/2))
	if err != nil {
		return ParameterSummary{}, err
	}
	return ParameterSummary{Mean: mean, Median: median, Lower: lower, Upper: upper}, nil
}
