// Package simulation runs Monte Carlo reinsurance analysis over a snapshot of
// the active policy book: an empirical portfolio loss distribution, VaR and
// tail metrics, and a retention table with a recommended retention level.
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
)

// Policy is one row of the policy book snapshot the simulator consumes. The
// book is already filtered to policies active as of the simulation month.
type Policy struct {
	ID           string
	ProductCode  api.ProductCode
	Band         api.RiskBand
	PremiumCents api.Currency
}

// Input is one simulation request plus the execution parameters that do not
// affect the result.
type Input struct {
	AsOfMonth     string
	ScenarioCount int
	RetentionGrid []api.Currency
	Reinsurance   api.ReinsuranceParams
	Seed          int64

	// Workers caps the scenario parallelism. Zero means GOMAXPROCS. The
	// result is identical for any value.
	Workers int
}

// bandLossModel is the per-policy loss model: a Bernoulli loss frequency by
// risk band, and a lognormal severity whose mean is the policy premium times
// the band's scale. Only the aggregate outputs are contractual; the model
// itself is a calibration choice.
type bandLossModel struct {
	Frequency float64
	Scale     float64
}

var bandLoss = map[api.RiskBand]bandLossModel{
	api.RiskBandA: {Frequency: 0.005, Scale: 3.0},
	api.RiskBandB: {Frequency: 0.010, Scale: 3.5},
	api.RiskBandC: {Frequency: 0.020, Scale: 4.0},
	api.RiskBandD: {Frequency: 0.035, Scale: 4.5},
	api.RiskBandE: {Frequency: 0.060, Scale: 5.0},
}

// severitySigma is the lognormal shape parameter shared by all bands.
const severitySigma = 1.3

// Simulate runs the full analysis. Two calls with the same Input fields
// (Workers aside) and book produce bit-identical results.
func Simulate(ctx context.Context, in Input, book []Policy) (api.PortfolioResult, error) {
	if err := in.validate(); err != nil {
		return api.PortfolioResult{}, err
	}

	losses := make([]float64, in.ScenarioCount)

	workers := in.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > in.ScenarioCount {
		workers = in.ScenarioCount
	}

	// Contiguous index ranges; each scenario seeds its own generator, so the
	// partitioning is invisible in the output.
	g, ctx := errgroup.WithContext(ctx)
	chunk := (in.ScenarioCount + workers - 1) / workers
	for start := 0; start < in.ScenarioCount; start += chunk {
		start, end := start, start+chunk
		if end > in.ScenarioCount {
			end = in.ScenarioCount
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				losses[i] = scenarioLoss(scenarioSeed(in.Seed, i), book)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return api.PortfolioResult{}, err
	}

	sorted := append([]float64{}, losses...)
	sort.Float64s(sorted)

	var95 := percentile(sorted, 0.95)
	var99 := percentile(sorted, 0.99)

	table := retentionTable(losses, in.RetentionGrid, in.Reinsurance)
	recommended := recommend(table)

	return api.PortfolioResult{
		AsOfMonth:      in.AsOfMonth,
		ScenarioCount:  in.ScenarioCount,
		PolicyCount:    len(book),
		Seed:           in.Seed,
		Var95:          api.Currency(domain.RoundHalfUp(var95)),
		Var99:          api.Currency(domain.RoundHalfUp(var99)),
		TailVar99:      api.Currency(domain.RoundHalfUp(tailMean(sorted, var99))),
		RetentionTable: table,
		Recommended:    recommended,
	}, nil
}

func (in Input) validate() error {
	if _, err := domain.ParseMonth(in.AsOfMonth); err != nil {
		return api.NewAppError(
			fmt.Errorf("as_of_month must be in YYYY-MM form, got %q", in.AsOfMonth),
			api.ErrorSimulationInput, api.CategoryUser)
	}
	if in.ScenarioCount < 1 {
		return api.NewAppError(
			fmt.Errorf("scenario_count must be positive, got %d", in.ScenarioCount),
			api.ErrorSimulationInput, api.CategoryUser)
	}
	if max := domain.Env.MaxScenarioCount; in.ScenarioCount > max {
		return api.NewAppError(
			fmt.Errorf("scenario_count %d exceeds the limit of %d", in.ScenarioCount, max),
			api.ErrorSimulationScenarioLimit, api.CategoryUser)
	}
	if len(in.RetentionGrid) == 0 {
		return api.NewAppError(
			fmt.Errorf("retention_grid must not be empty"),
			api.ErrorSimulationInput, api.CategoryUser)
	}
	for _, r := range in.RetentionGrid {
		if r < 0 {
			return api.NewAppError(
				fmt.Errorf("retention levels must not be negative, got %s", r),
				api.ErrorSimulationInput, api.CategoryUser)
		}
	}
	if in.Reinsurance.RateOnLine < 0 || in.Reinsurance.Load < 0 {
		return api.NewAppError(
			fmt.Errorf("reinsurance rate_on_line and load must not be negative"),
			api.ErrorSimulationInput, api.CategoryUser)
	}
	return nil
}

// scenarioLoss draws one total portfolio loss, in fractional cents. Policies
// are consumed in book order from the scenario's own generator.
func scenarioLoss(seed int64, book []Policy) float64 {
	rng := rand.New(rand.NewSource(seed))

	var total float64
	for _, p := range book {
		model, ok := bandLoss[p.Band]
		if !ok || p.PremiumCents <= 0 {
			continue
		}
		if rng.Float64() >= model.Frequency {
			continue
		}
		mean := float64(p.PremiumCents) * model.Scale
		mu := math.Log(mean) - severitySigma*severitySigma/2
		total += math.Exp(mu + severitySigma*rng.NormFloat64())
	}
	return total
}

// percentile interpolates linearly between order statistics at q*(n-1).
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// tailMean averages the losses at or above the threshold. With the threshold
// taken from the same distribution the set is never empty, which is what
// guarantees tailvar99 >= var99.
func tailMean(sorted []float64, threshold float64) float64 {
	first := sort.SearchFloat64s(sorted, threshold)
	if first >= len(sorted) {
		return threshold
	}
	var sum float64
	for _, v := range sorted[first:] {
		sum += v
	}
	return sum / float64(len(sorted)-first)
}

// retentionTable evaluates each retention level independently, preserving
// grid order in the output.
func retentionTable(losses []float64, grid []api.Currency, re api.ReinsuranceParams) []api.RetentionEntry {
	n := float64(len(losses))

	var uncapped float64
	for _, l := range losses {
		uncapped += l
	}
	expectedLoss := uncapped / n

	table := make([]api.RetentionEntry, len(grid))
	for i, retention := range grid {
		r := float64(retention)

		var retained, ceded float64
		for _, l := range losses {
			if l > r {
				retained += r
				ceded += l - r
			} else {
				retained += l
			}
		}
		retained /= n
		ceded /= n

		premium := ceded * re.RateOnLine * (1 + re.Load)

		table[i] = api.RetentionEntry{
			Retention:          retention,
			ExpectedLoss:       api.Currency(domain.RoundHalfUp(expectedLoss)),
			ExpectedCeded:      api.Currency(domain.RoundHalfUp(ceded)),
			ReinsurancePremium: api.Currency(domain.RoundHalfUp(premium)),
			ExpectedNet:        api.Currency(domain.RoundHalfUp(retained + premium)),
		}
	}
	return table
}

// recommend picks the entry with the minimum expected net cost, ties broken
// by the smallest retention.
func recommend(table []api.RetentionEntry) api.Recommendation {
	best := table[0]
	for _, e := range table[1:] {
		if e.ExpectedNet < best.ExpectedNet ||
			(e.ExpectedNet == best.ExpectedNet && e.Retention < best.Retention) {
			best = e
		}
	}
	return api.Recommendation{
		Retention:   best.Retention,
		ExpectedNet: best.ExpectedNet,
		Rationale:   fmt.Sprintf("minimum expected net cost of %s", best.ExpectedNet),
	}
}
