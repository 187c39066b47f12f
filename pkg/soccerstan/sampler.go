package soccerstan

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sample draws from the model posterior with random-walk Metropolis.
// Chains run concurrently, each with its own RNG seeded from
// opts.Seed, so results are reproducible for a fixed seed and chain
// count. A non-finite log-density at a proposal counts as a
// rejection; the chain never leaves the finite region it started in.
func Sample(ctx context.Context, data *Data, opts SamplerOptions) (*FitResult, error) {
	startTime := time.Now()

	if err := validateData(data); err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	if opts == (SamplerOptions{}) {
		opts = DefaultSamplerOptions()
	}
	if err := validateSamplerOptions(opts); err != nil {
		return nil, fmt.Errorf("invalid sampler options: %w", err)
	}

	if opts.Debug {
		fmt.Printf("Sampling %d chains x %d iterations (%d burn-in, thin %d) over %d parameters...\n",
			opts.Chains, opts.Iterations, opts.BurnIn, opts.Thin, ParamDim(data.NTeams))
	}

	chains := make([]Chain, opts.Chains)
	g, ctx := errgroup.WithContext(ctx)
	for c := 0; c < opts.Chains; c++ {
		c := c
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.Seed + int64(c)))
			chain, err := runChain(ctx, data, opts, rng)
			if err != nil {
				return fmt.Errorf("chain %d: %w", c, err)
			}
			chains[c] = chain
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &FitResult{
		Chains:         chains,
		Options:        opts,
		NTeams:         data.NTeams,
		ProcessingTime: time.Since(startTime),
	}

	if opts.Debug {
		fmt.Printf("Sampling complete: %d draws, acceptance rate %.3f, %v\n",
			len(result.Draws()), result.AcceptanceRate(), result.ProcessingTime)
	}

	return result, nil
}

// runChain runs one Metropolis chain from the all-zero starting
// point (the average-team state, which always has finite density).
func runChain(ctx context.Context, data *Data, opts SamplerOptions, rng *rand.Rand) (Chain, error) {
	dim := ParamDim(data.NTeams)
	current := NewParams(data.NTeams).Vector()
	currentLogDensity, _, err := EvaluateVector(data, current)
	if err != nil {
		return Chain{}, err
	}

	kept := (opts.Iterations - opts.BurnIn + opts.Thin - 1) / opts.Thin
	chain := Chain{Draws: make([][]float64, 0, kept)}
	proposal := make([]float64, dim)

	for iter := 0; iter < opts.Iterations; iter++ {
		if iter%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Chain{}, err
			}
		}

		for i := range proposal {
			proposal[i] = current[i] + rng.NormFloat64()*opts.StepSize
		}

		proposalLogDensity, _, err := EvaluateVector(data, proposal)
		if err != nil {
			return Chain{}, err
		}

		chain.Proposed++
		if acceptProposal(rng, currentLogDensity, proposalLogDensity) {
			copy(current, proposal)
			currentLogDensity = proposalLogDensity
			chain.Accepted++
		}

		if iter >= opts.BurnIn && (iter-opts.BurnIn)%opts.Thin == 0 {
			draw := make([]float64, dim)
			copy(draw, current)
			chain.Draws = append(chain.Draws, draw)
		}
	}

	return chain, nil
}

// acceptProposal applies the Metropolis rule. Non-finite proposal
// densities (overflowed rates, NaN from a wild proposal) are always
// rejected, which is how numerical degeneracy in Evaluate surfaces.
func acceptProposal(rng *rand.Rand, currentLogDensity, proposalLogDensity float64) bool {
	if math.IsNaN(proposalLogDensity) || math.IsInf(proposalLogDensity, 0) {
		return false
	}
	if proposalLogDensity >= currentLogDensity {
		return true
	}
	return rng.Float64() < math.Exp(proposalLogDensity-currentLogDensity)
}
