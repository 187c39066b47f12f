package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/DerrickHiggins/soccerstan/pkg/soccerstan"
)

func main() {
	var (
		dataFile   = flag.String("data", "", "Path to football-data.co.uk results CSV")
		fetchData  = flag.Bool("fetch-data", false, "Download results CSV from football-data.co.uk instead of fitting")
		division   = flag.String("division", "E0", "football-data.co.uk division code (E0, E1, E2, E3)")
		season     = flag.String("season", "2425", "Season code, e.g. 2425 for 2024-25")
		outFile    = flag.String("out", "", "Output path for fetched CSV (default <division>-<season>.csv)")
		chains     = flag.Int("chains", 4, "Number of Metropolis chains")
		iterations = flag.Int("iterations", 5000, "Iterations per chain, burn-in included")
		burnIn     = flag.Int("burnin", 1000, "Burn-in iterations per chain")
		thin       = flag.Int("thin", 1, "Keep every n-th post-burn-in draw")
		stepSize   = flag.Float64("step", 0.05, "Proposal step size")
		seed       = flag.Int64("seed", 1, "Base RNG seed")
		alpha      = flag.Float64("alpha", 0.05, "Credible interval alpha (0.05 = 95%)")
		debug      = flag.Bool("debug", false, "Enable debug output during sampling")
	)
	flag.Parse()

	fmt.Printf("Soccerstan: Bayesian Poisson match model\n")
	fmt.Printf("========================================\n\n")

	if *fetchData {
		path := *outFile
		if path == "" {
			path = fmt.Sprintf("%s-%s.csv", *division, *season)
		}
		if err := FetchResultsCSV(*division, *season, path); err != nil {
			log.Fatalf("Failed to fetch results: %v", err)
		}
		return
	}

	if *dataFile == "" {
		log.Fatalf("No data file specified (use -data results.csv, or -fetch-data to download one)")
	}

	f, err := os.Open(*dataFile)
	if err != nil {
		log.Fatalf("Failed to open data file: %v", err)
	}
	defer f.Close()

	matches, err := soccerstan.ParseMatchesCSV(f)
	if err != nil {
		log.Fatalf("Failed to parse matches: %v", err)
	}

	data, teams, err := soccerstan.BuildData(matches)
	if err != nil {
		log.Fatalf("Failed to build model data: %v", err)
	}
	fmt.Printf("Loaded %d completed matches across %d teams\n\n", data.NGames, data.NTeams)

	opts := soccerstan.SamplerOptions{
		Chains:     *chains,
		Iterations: *iterations,
		BurnIn:     *burnIn,
		Thin:       *thin,
		StepSize:   *stepSize,
		Seed:       *seed,
		Debug:      *debug,
	}
	result, err := soccerstan.Sample(context.Background(), data, opts)
	if err != nil {
		log.Fatalf("Sampling failed: %v", err)
	}

	summary, err := soccerstan.Summarize(result, teams, *alpha)
	if err != nil {
		log.Fatalf("Failed to summarize posterior: %v", err)
	}

	displaySummary(summary)
}

func displaySummary(summary *soccerstan.Summary) {
	level := 100 * (1 - summary.Alpha)
	fmt.Printf("Posterior summary (%d draws, %.0f%% credible intervals)\n\n", summary.Draws, level)

	h := summary.HomeAdvantage
	fmt.Printf("home_advantage: mean %+.3f  median %+.3f  [%+.3f, %+.3f]\n\n", h.Mean, h.Median, h.Lower, h.Upper)

	displayTeamTable("offense", summary.Offense)
	displayTeamTable("defense", summary.Defense)
}

func displayTeamTable(name string, effects []soccerstan.TeamEffectSummary) {
	fmt.Printf("%s\n", name)
	fmt.Printf("%-24s %8s %8s %20s\n", "team", "mean", "median", "interval")
	for _, e := range effects {
		fmt.Printf("%-24s %+8.3f %+8.3f   [%+.3f, %+.3f]\n", e.Team, e.Mean, e.Median, e.Lower, e.Upper)
	}
	fmt.Printf("\n")
}
