package soccerstan

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Priors: weakly informative Normals on the team effects, a wide
// Normal on the shared home advantage.
var (
	teamEffectPrior    = distuv.Normal{Mu: 0, Sigma: 10}
	homeAdvantagePrior = distuv.Normal{Mu: 0, Sigma: 100}
)

// NewData builds and validates the observed-data block. NGames is
// taken from the length of homeTeam; the remaining slices must match.
// Malformed data is rejected here, never coerced.
func NewData(nTeams int, homeTeam, awayTeam, homeGoals, awayGoals []int) (*Data, error) {
	d := &Data{
		NTeams:    nTeams,
		NGames:    len(homeTeam),
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}
	if err := validateData(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ParamDim returns the free-parameter dimension for nTeams teams:
// one home advantage plus nTeams-1 raw values per effect group.
func ParamDim(nTeams int) int {
	return 2*(nTeams-1) + 1
}

// NewParams returns an all-zero parameter state for nTeams teams, the
// average-team starting point.
func NewParams(nTeams int) Params {
	return Params{
		OffenseRaw: make([]float64, nTeams-1),
		DefenseRaw: make([]float64, nTeams-1),
	}
}

// ParamsFromVector unpacks a flat vector laid out as
// (home_advantage, offense_raw..., defense_raw...).
func ParamsFromVector(nTeams int, v []float64) (Params, error) {
	if len(v) != ParamDim(nTeams) {
		return Params{}, fmt.Errorf("parameter vector has dimension %d, want %d for %d teams",
			len(v), ParamDim(nTeams), nTeams)
	}
	n := nTeams - 1
	p := Params{
		HomeAdvantage: v[0],
		OffenseRaw:    make([]float64, n),
		DefenseRaw:    make([]float64, n),
	}
	copy(p.OffenseRaw, v[1:1+n])
	copy(p.DefenseRaw, v[1+n:])
	return p, nil
}

// Vector packs the parameters into a flat vector, the inverse of
// ParamsFromVector.
func (p Params) Vector() []float64 {
	v := make([]float64, 0, 2*len(p.OffenseRaw)+1)
	v = append(v, p.HomeAdvantage)
	v = append(v, p.OffenseRaw...)
	v = append(v, p.DefenseRaw...)
	return v
}

func (p Params) check(nTeams int) error {
	if len(p.OffenseRaw) != nTeams-1 || len(p.DefenseRaw) != nTeams-1 {
		return fmt.Errorf("raw effect vectors have lengths %d/%d, want %d for %d teams",
			len(p.OffenseRaw), len(p.DefenseRaw), nTeams-1, nTeams)
	}
	return nil
}

// Transform computes the derived full-length offense/defense vectors.
// The last element of each is the negated sum of the raw values, so
// both vectors sum to zero for any raw input. This pins down the one
// degree of freedom per group that the likelihood cannot identify.
func (p Params) Transform() Derived {
	return Derived{
		Offense: sumToZero(p.OffenseRaw),
		Defense: sumToZero(p.DefenseRaw),
	}
}

func sumToZero(raw []float64) []float64 {
	full := make([]float64, len(raw)+1)
	sum := 0.0
	for i, r := range raw {
		full[i] = r
		sum += r
	}
	full[len(raw)] = -sum
	return full
}

// checkShape catches a hand-built Data whose slices disagree with
// NGames, so the evaluation loops below cannot index past an array.
// Full element validation stays in NewData.
func (d *Data) checkShape() error {
	if len(d.HomeTeam) != d.NGames || len(d.AwayTeam) != d.NGames ||
		len(d.HomeGoals) != d.NGames || len(d.AwayGoals) != d.NGames {
		return fmt.Errorf("data arrays have lengths %d/%d/%d/%d, want n_games %d",
			len(d.HomeTeam), len(d.AwayTeam), len(d.HomeGoals), len(d.AwayGoals), d.NGames)
	}
	return nil
}

// teamIndexes returns the 0-based team indexes for game g.
func teamIndexes(data *Data, g int) (ht, at int, err error) {
	ht = data.HomeTeam[g] - 1
	at = data.AwayTeam[g] - 1
	if ht < 0 || ht >= data.NTeams {
		return 0, 0, ValidationError{
			Field:   fmt.Sprintf("home_team[%d]", g),
			Message: fmt.Sprintf("team index %d out of range [1, %d]", data.HomeTeam[g], data.NTeams),
		}
	}
	if at < 0 || at >= data.NTeams {
		return 0, 0, ValidationError{
			Field:   fmt.Sprintf("away_team[%d]", g),
			Message: fmt.Sprintf("team index %d out of range [1, %d]", data.AwayTeam[g], data.NTeams),
		}
	}
	return ht, at, nil
}

// ExpectedGoals computes the Poisson rates for every game under the
// given parameters. Home advantage enters the home side's rate only.
func ExpectedGoals(data *Data, p Params) (home, away []float64, err error) {
	if err := p.check(data.NTeams); err != nil {
		return nil, nil, err
	}
	if err := data.checkShape(); err != nil {
		return nil, nil, err
	}
	derived := p.Transform()
	home = make([]float64, data.NGames)
	away = make([]float64, data.NGames)
	for g := 0; g < data.NGames; g++ {
		ht, at, err := teamIndexes(data, g)
		if err != nil {
			return nil, nil, err
		}
		home[g] = math.Exp(derived.Offense[ht] + derived.Defense[at] + p.HomeAdvantage)
		away[g] = math.Exp(derived.Offense[at] + derived.Defense[ht])
	}
	return home, away, nil
}

// Evaluate computes the joint log-density of the model at the given
// parameters: Normal priors on all derived team effects and on the
// home advantage, plus the Poisson likelihood of both scores of every
// game. It is a pure function of (data, params); a degenerate rate
// from an extreme proposal yields -Inf rather than an error, which
// the inference engine must treat as a rejected proposal.
func Evaluate(data *Data, p Params) (float64, Derived, error) {
	if err := p.check(data.NTeams); err != nil {
		return 0, Derived{}, err
	}
	if err := data.checkShape(); err != nil {
		return 0, Derived{}, err
	}

	derived := p.Transform()

	logDensity := homeAdvantagePrior.LogProb(p.HomeAdvantage)
	for t := 0; t < data.NTeams; t++ {
		logDensity += teamEffectPrior.LogProb(derived.Offense[t])
		logDensity += teamEffectPrior.LogProb(derived.Defense[t])
	}

	for g := 0; g < data.NGames; g++ {
		ht, at, err := teamIndexes(data, g)
		if err != nil {
			return 0, Derived{}, err
		}
		lambdaHome := math.Exp(derived.Offense[ht] + derived.Defense[at] + p.HomeAdvantage)
		lambdaAway := math.Exp(derived.Offense[at] + derived.Defense[ht])
		logDensity += poissonLogPMF(lambdaHome, data.HomeGoals[g])
		logDensity += poissonLogPMF(lambdaAway, data.AwayGoals[g])
	}

	return logDensity, derived, nil
}

// EvaluateVector is Evaluate over a flat parameter vector, the form an
// inference engine proposes.
func EvaluateVector(data *Data, v []float64) (float64, Derived, error) {
	p, err := ParamsFromVector(data.NTeams, v)
	if err != nil {
		return 0, Derived{}, err
	}
	return Evaluate(data, p)
}

// poissonLogPMF returns log P(X = k) for X ~ Poisson(lambda). The pmf
// is undefined at a non-positive or non-finite rate; those cases
// propagate as -Inf instead of panicking so the caller can reject the
// proposal that produced them.
func poissonLogPMF(lambda float64, k int) float64 {
	if k < 0 || lambda <= 0 || math.IsInf(lambda, 0) || math.IsNaN(lambda) {
		return math.Inf(-1)
	}
	return distuv.Poisson{Lambda: lambda}.LogProb(float64(k))
}
