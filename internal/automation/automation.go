package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/sim"
	"github.com/san-kum/rdsim/internal/storage"
)

// Scenario defines a scripted sequence of steps run on one simulator.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	SampleEvery int            `yaml:"sample_every"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is applied in order: restart, preset, mode, params, drops, then ticks.
type ScenarioStep struct {
	Restart     bool               `yaml:"restart"`
	Preset      string             `yaml:"preset"`
	Mode        string             `yaml:"mode"`
	Params      map[string]float64 `yaml:"params"`
	Drops       []Drop             `yaml:"drops"`
	RandomDrops int                `yaml:"random_drops"`
	Ticks       int                `yaml:"ticks"`
	SaveAs      string             `yaml:"save_as"`
}

type Drop struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Runner executes scenarios against a simulator. Store may be nil, in
// which case save_as is ignored.
type Runner struct {
	Sim    *sim.Simulator
	Store  *storage.Store
	Config *config.Config
	Log    *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

// RunScenario executes all steps and returns one result per step that ticks.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]*sim.Result, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))
	s := r.Sim

	for i, step := range scenario.Steps {
		r.logger().Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "preset", step.Preset, "ticks", step.Ticks)

		if step.Restart {
			s.Restart()
		}
		if step.Preset != "" {
			if err := s.ApplyPreset(step.Preset); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		p := s.Params()
		if step.Mode != "" {
			mode, err := dynamo.ParseMode(step.Mode)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			p.Mode = mode
		}
		for k, v := range step.Params {
			if err := p.SetParam(k, v); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if err := s.SetParams(p); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		for _, d := range step.Drops {
			s.Drop(d.X, d.Y, d.Radius)
		}
		for n := 0; n < step.RandomDrops; n++ {
			s.RandomDrop()
		}

		if step.Ticks <= 0 {
			continue
		}

		result, err := s.Run(ctx, step.Ticks, scenario.SampleEvery)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if step.SaveAs != "" && r.Store != nil {
			cfg := r.Config
			if cfg == nil {
				cfg = config.DefaultConfig()
			}
			cols, rows := s.Grid().Dimensions()
			runID, err := r.Store.Save(step.SaveAs, cfg, cols, rows, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			r.logger().Info("run saved", "id", runID)
		}
	}

	return results, nil
}

// ParameterSweep varies one parameter linearly across Steps values.
type ParameterSweep struct {
	Param   string  `yaml:"param"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Steps   int     `yaml:"steps"`
	Ticks   int     `yaml:"ticks"`
	Preset  string  `yaml:"preset"`
	Workers int     `yaml:"workers"`
	Seed    uint64  `yaml:"seed"`
}

type SweepResult struct {
	Value    float64 `csv:"value" json:"value"`
	MeanB    float64 `csv:"mean_b" json:"mean_b"`
	StdB     float64 `csv:"std_b" json:"std_b"`
	Coverage float64 `csv:"coverage" json:"coverage"`
	Activity float64 `csv:"activity" json:"activity"`
	Err      string  `csv:"error" json:"error,omitempty"`
}

func LoadSweep(path string) (*ParameterSweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sweep ParameterSweep
	if err := yaml.Unmarshal(data, &sweep); err != nil {
		return nil, err
	}
	return &sweep, nil
}

func (sw *ParameterSweep) Values() []float64 {
	if sw.Steps <= 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	vals := make([]float64, sw.Steps)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals
}

// RunSweep runs every value concurrently through a sim.Ensemble. Values that
// fail validation are reported in SweepResult.Err instead of aborting the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, base dynamo.Params, opts sim.Options) ([]SweepResult, error) {
	if sweep.Ticks <= 0 {
		return nil, fmt.Errorf("sweep ticks must be positive, got %d", sweep.Ticks)
	}

	if sweep.Preset != "" {
		pr, err := config.Lookup(sweep.Preset)
		if err != nil {
			return nil, err
		}
		pr.Apply(&base)
	}

	values := sweep.Values()
	results := make([]SweepResult, len(values))
	jobs := make([]sim.Job, 0, len(values))
	index := make([]int, 0, len(values))

	for i, v := range values {
		results[i].Value = v
		p := base
		if err := p.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			results[i].Err = err.Error()
			continue
		}
		jobs = append(jobs, sim.Job{
			Name:   fmt.Sprintf("%s=%.4f", sweep.Param, v),
			Params: p,
			Ticks:  sweep.Ticks,
			Seed:   sweep.Seed + uint64(i),
		})
		index = append(index, i)
	}

	workers := sweep.Workers
	if workers <= 0 {
		workers = len(jobs)
	}

	runs, err := sim.NewEnsemble(opts, workers).Run(ctx, jobs, sweep.Ticks)
	if err != nil {
		return nil, err
	}

	for k, run := range runs {
		i := index[k]
		final := run.Final()
		results[i].MeanB = final.MeanB
		results[i].StdB = final.StdB
		results[i].Coverage = final.Coverage
		results[i].Activity = run.Metrics["activity"]
	}

	return results, nil
}

// MonteCarloConfig repeats one configuration with random drops under different seeds.
type MonteCarloConfig struct {
	Params       dynamo.Params
	Preset       string
	NumTrials    int
	Ticks        int
	DropInterval time.Duration
	Seed         uint64
}

type MonteCarloResult struct {
	TrialID  int     `csv:"trial" json:"trial"`
	Seed     uint64  `csv:"seed" json:"seed"`
	MeanB    float64 `csv:"mean_b" json:"mean_b"`
	Coverage float64 `csv:"coverage" json:"coverage"`
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, opts sim.Options) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	opts.RandomDrops = true
	if cfg.DropInterval > 0 {
		opts.DropInterval = cfg.DropInterval
	}

	jobs := make([]sim.Job, cfg.NumTrials)
	for trial := range jobs {
		jobs[trial] = sim.Job{
			Name:   fmt.Sprintf("trial-%d", trial),
			Params: cfg.Params,
			Preset: cfg.Preset,
			Ticks:  cfg.Ticks,
			Seed:   seed + uint64(trial),
		}
	}

	runs, err := sim.NewEnsemble(opts, cfg.NumTrials).Run(ctx, jobs, cfg.Ticks)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, run := range runs {
		final := run.Final()
		results[i] = MonteCarloResult{
			TrialID:  i,
			Seed:     jobs[i].Seed,
			MeanB:    final.MeanB,
			Coverage: final.Coverage,
		}
	}
	return results, nil
}

// MonteCarloStats returns the mean and sample standard deviation of final coverage.
func MonteCarloStats(results []MonteCarloResult) (mean, std float64) {
	if len(results) == 0 {
		return 0, 0
	}
	cov := make([]float64, len(results))
	for i, r := range results {
		cov[i] = r.Coverage
	}
	if len(cov) == 1 {
		return cov[0], 0
	}
	return stat.MeanStdDev(cov, nil)
}
