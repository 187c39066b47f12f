package soccerstan

import (
	"fmt"
	"strings"
)

// ValidationError represents a single precondition violation in the
// observed data, identifying the offending field and index.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// validateData checks the observed-data block against the model's
// preconditions. Violations are collected rather than reported one at
// a time so a caller sees every malformed field at once.
func validateData(d *Data) error {
	var errors []ValidationError

	if d.NTeams < 1 {
		errors = append(errors, ValidationError{
			Field:   "n_teams",
			Message: fmt.Sprintf("must be at least 1, got %d", d.NTeams),
		})
	}
	if d.NGames < 1 {
		errors = append(errors, ValidationError{
			Field:   "n_games",
			Message: fmt.Sprintf("must be at least 1, got %d", d.NGames),
		})
	}

	arrays := []struct {
		field  string
		length int
	}{
		{"home_team", len(d.HomeTeam)},
		{"away_team", len(d.AwayTeam)},
		{"home_goals", len(d.HomeGoals)},
		{"away_goals", len(d.AwayGoals)},
	}
	for _, a := range arrays {
		if a.length != d.NGames {
			errors = append(errors, ValidationError{
				Field:   a.field,
				Message: fmt.Sprintf("length %d does not match n_games %d", a.length, d.NGames),
			})
		}
	}

	// Element checks only make sense once the lengths agree
	if len(errors) == 0 {
		for g := 0; g < d.NGames; g++ {
			if d.HomeTeam[g] < 1 || d.HomeTeam[g] > d.NTeams {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("home_team[%d]", g),
					Message: fmt.Sprintf("team index %d out of range [1, %d]", d.HomeTeam[g], d.NTeams),
				})
			}
			if d.AwayTeam[g] < 1 || d.AwayTeam[g] > d.NTeams {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("away_team[%d]", g),
					Message: fmt.Sprintf("team index %d out of range [1, %d]", d.AwayTeam[g], d.NTeams),
				})
			}
			if d.HomeGoals[g] < 0 {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("home_goals[%d]", g),
					Message: fmt.Sprintf("goal count must not be negative, got %d", d.HomeGoals[g]),
				})
			}
			if d.AwayGoals[g] < 0 {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("away_goals[%d]", g),
					Message: fmt.Sprintf("goal count must not be negative, got %d", d.AwayGoals[g]),
				})
			}
		}
	}

	if len(errors) > 0 {
		return ValidationErrors{Errors: errors}
	}

	return nil
}

// validateSamplerOptions checks sampler configuration before a run.
func validateSamplerOptions(opts SamplerOptions) error {
	var errors []ValidationError

	if opts.Chains < 1 {
		errors = append(errors, ValidationError{
			Field:   "chains",
			Message: fmt.Sprintf("must be at least 1, got %d", opts.Chains),
		})
	}
	if opts.Iterations < 1 {
		errors = append(errors, ValidationError{
			Field:   "iterations",
			Message: fmt.Sprintf("must be at least 1, got %d", opts.Iterations),
		})
	}
	if opts.BurnIn < 0 || opts.BurnIn >= opts.Iterations {
		errors = append(errors, ValidationError{
			Field:   "burn_in",
			Message: fmt.Sprintf("must be in [0, iterations), got %d with %d iterations", opts.BurnIn, opts.Iterations),
		})
	}
	if opts.Thin < 1 {
		errors = append(errors, ValidationError{
			Field:   "thin",
			Message: fmt.Sprintf("must be at least 1, got %d", opts.Thin),
		})
	}
	if opts.StepSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "step_size",
			Message: fmt.Sprintf("must be positive, got %g", opts.StepSize),
		})
	}

	if len(errors) > 0 {
		return ValidationErrors{Errors: errors}
	}

	return nil
}
