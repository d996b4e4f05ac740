package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/rdsim/internal/dynamo"
)

// Preset is a named set of reaction-diffusion rates.
type Preset struct {
	DiffusionA float64 `yaml:"diffusion_a" json:"diffusion_a"`
	DiffusionB float64 `yaml:"diffusion_b" json:"diffusion_b"`
	Feed       float64 `yaml:"feed" json:"feed"`
	Kill       float64 `yaml:"kill" json:"kill"`
}

var Presets = map[string]Preset{
	"coral":    {DiffusionA: 1.50, DiffusionB: 2.00, Feed: 0.031, Kill: 0.048},
	"wormhole": {DiffusionA: 1.56, DiffusionB: 1.55, Feed: 0.048, Kill: 0.041},
	"eddy":     {DiffusionA: 1.50, DiffusionB: 1.70, Feed: 0.035, Kill: 0.043},
	"swirl":    {DiffusionA: 1.16, DiffusionB: 2.00, Feed: 0.17, Kill: 0.014},
	"maze":     {DiffusionA: 1.53, DiffusionB: 1.80, Feed: 0.083, Kill: 0.186},
}

// Apply overwrites only the diffusion and rate fields of p.
func (pr Preset) Apply(p *dynamo.Params) {
	p.DiffusionA = pr.DiffusionA
	p.DiffusionB = pr.DiffusionB
	p.Feed = pr.Feed
	p.Kill = pr.Kill
}

func normalize(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
}

func GetPreset(name string) *Preset {
	pr, ok := Presets[normalize(name)]
	if !ok {
		return nil
	}
	return &pr
}

func Lookup(name string) (Preset, error) {
	pr := GetPreset(name)
	if pr == nil {
		return Preset{}, fmt.Errorf("%w: %q (available: %s)", dynamo.ErrUnknownPreset, name, strings.Join(ListPresets(), ", "))
	}
	return *pr, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetName returns the registry key for a user-supplied preset name.
func PresetName(name string) string {
	return normalize(name)
}
