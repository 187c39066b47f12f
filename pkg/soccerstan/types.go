package soccerstan

import "time"

// Match represents a completed football match parsed from a
// football-data.co.uk results file.
type Match struct {
	Date      string `json:"date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

// Data is the observed-data block of the model: team indices are
// 1-based, all slices have length NGames. It is validated once by
// NewData and treated as immutable afterwards.
type Data struct {
	NTeams    int   `json:"n_teams"`
	NGames    int   `json:"n_games"`
	HomeTeam  []int `json:"home_team"`
	AwayTeam  []int `json:"away_team"`
	HomeGoals []int `json:"home_goals"`
	AwayGoals []int `json:"away_goals"`
}

// Params holds the free parameters of the model. OffenseRaw and
// DefenseRaw have length NTeams-1; the last team's values are derived
// so that each group sums to zero (see Transform).
type Params struct {
	HomeAdvantage float64   `json:"home_advantage"`
	OffenseRaw    []float64 `json:"offense_raw"`
	DefenseRaw    []float64 `json:"defense_raw"`
}

// Derived holds the full-length offense/defense vectors computed
// deterministically from Params on every evaluation.
type Derived struct {
	Offense []float64 `json:"offense"`
	Defense []float64 `json:"defense"`
}

// SamplerOptions configures the random-walk Metropolis driver.
type SamplerOptions struct {
	Chains     int     `json:"chains"`     // Independent chains run concurrently (default: 4)
	Iterations int     `json:"iterations"` // Total iterations per chain, burn-in included (default: 5000)
	BurnIn     int     `json:"burn_in"`    // Leading iterations discarded per chain (default: 1000)
	Thin       int     `json:"thin"`       // Keep every Thin-th post-burn-in draw (default: 1)
	StepSize   float64 `json:"step_size"`  // Std dev of the Gaussian proposal per coordinate (default: 0.05)
	Seed       int64   `json:"seed"`       // Base RNG seed; chain c uses Seed+c (default: 1)
	Debug      bool    `json:"debug"`      // Enable progress output during sampling
}

// DefaultSamplerOptions returns the default sampler configuration.
func DefaultSamplerOptions() SamplerOptions {
	return SamplerOptions{
		Chains:     4,
		Iterations: 5000,
		BurnIn:     1000,
		Thin:       1,
		StepSize:   0.05,
		Seed:       1,
	}
}

// Chain holds the kept draws of a single Metropolis chain. Each draw
// is a flat parameter vector of length ParamDim(data.NTeams).
type Chain struct {
	Draws    [][]float64 `json:"draws"`
	Accepted int         `json:"accepted"`
	Proposed int         `json:"proposed"`
}

// FitResult contains the output of a sampling run.
type FitResult struct {
	Chains         []Chain        `json:"chains"`
	Options        SamplerOptions `json:"options"`
	NTeams         int            `json:"n_teams"`
	ProcessingTime time.Duration  `json:"processing_time"`
}

// Draws returns all kept draws pooled across chains.
func (r *FitResult) Draws() [][]float64 {
	var all [][]float64
	for _, c := range r.Chains {
		all = append(all, c.Draws...)
	}
	return all
}

// AcceptanceRate returns the pooled Metropolis acceptance rate.
func (r *FitResult) AcceptanceRate() float64 {
	accepted, proposed := 0, 0
	for _, c := range r.Chains {
		accepted += c.Accepted
		proposed += c.Proposed
	}
	if proposed == 0 {
		return 0
	}
	return float64(accepted) / float64(proposed)
}
