package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"fxchart-service/internal/domain"
	"fxchart-service/internal/infrastructure/recordjson"

	"github.com/spf13/cobra"
)

// drift describes one synthetic pair: the sell price moves linearly from
// Start to End with uniform noise, and buy sits a random spread below it.
type drift struct {
	From, To             string
	Start, End, Noise    float64
	SpreadMin, SpreadMax float64
}

var defaultDrifts = []drift{
	{From: "Chaos Orb", To: "Divine Orb", Start: 70, End: 160, Noise: 2, SpreadMin: 1, SpreadMax: 4},
	{From: "Divine Orb", To: "Mirror of Kalandra", Start: 200, End: 1000, Noise: 20, SpreadMin: 5, SpreadMax: 20},
}

type genOptions struct {
	Start time.Time
	Step  time.Duration
	Steps int
	Seed  int64
}

// generate returns every point of the first pair followed by every point of
// the second, matching the layout of the reference dataset.
func generate(opts genOptions, drifts []drift) []domain.QuoteRecord {
	rng := rand.New(rand.NewSource(opts.Seed))
	out := make([]domain.QuoteRecord, 0, len(drifts)*opts.Steps)
	for _, d := range drifts {
		for i := 0; i < opts.Steps; i++ {
			frac := 0.0
			if opts.Steps > 1 {
				frac = float64(i) / float64(opts.Steps-1)
			}
			sell := round2(d.Start + (d.End-d.Start)*frac + uniform(rng, -d.Noise, d.Noise))
			buy := round2(sell - uniform(rng, d.SpreadMin, d.SpreadMax))
			out = append(out, domain.QuoteRecord{
				Time:         opts.Start.Add(time.Duration(i) * opts.Step).UTC(),
				FromCurrency: d.From,
				ToCurrency:   d.To,
				SellPrice:    domain.Price(sell),
				BuyPrice:     domain.Price(buy),
			})
		}
	}
	return out
}

func uniform(rng *rand.Rand, lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
func round2(v float64) float64                       { return math.Round(v*100) / 100 }

func writeRecords(w io.Writer, records []domain.QuoteRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recordjson.FromDomainList(records))
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic two-pair dataset as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		startStr, _ := cmd.Flags().GetString("start")
		step, _ := cmd.Flags().GetDuration("step")
		steps, _ := cmd.Flags().GetInt("steps")
		seed, _ := cmd.Flags().GetInt64("seed")

		start, err := recordjson.ParseTime(startStr)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		if steps <= 0 || step <= 0 {
			return fmt.Errorf("--steps and --step must be positive")
		}
		records := generate(genOptions{Start: start, Step: step, Steps: steps, Seed: seed}, defaultDrifts)

		w := cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := writeRecords(w, records); err != nil {
			return err
		}
		if out != "" && out != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(records), out)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("out", "o", "market_data.json", "output file, - for stdout")
	generateCmd.Flags().String("start", "2025-10-22T00:00:00Z", "time of the first point")
	generateCmd.Flags().Duration("step", 10*time.Minute, "spacing between points")
	generateCmd.Flags().Int("steps", 144, "points per pair")
	generateCmd.Flags().Int64("seed", time.Now().UnixNano(), "random seed")
}
