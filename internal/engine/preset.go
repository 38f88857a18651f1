package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DifficultyPreset bundles the engine options and search limits for one
// skill level, plus the humanizer knobs that make the lower levels play
// plausibly bad moves instead of merely slow ones.
type DifficultyPreset struct {
	Name             string    `yaml:"name"`
	SkillLevel       int       `yaml:"skill_level"`
	Elo              int       `yaml:"elo"`
	Threads          int       `yaml:"threads"`
	HashMB           int       `yaml:"hash_mb"`
	MoveTimeMillis   int       `yaml:"move_time_ms"`
	DepthCap         int       `yaml:"depth_cap"`
	MultiPV          int       `yaml:"multipv"`
	PrimaryChoices   int       `yaml:"primary_choices"`
	CandidateWeights []float64 `yaml:"candidate_weights"`
	EvalNoise        int       `yaml:"eval_noise"`
}

// MinSkill and MaxSkill bound the accepted difficulty range.
const (
	MinSkill = 0
	MaxSkill = 4
)

const defaultThreads = 2

var defaultPresets = map[int]DifficultyPreset{
	0: {
		Name:             "Beginner",
		SkillLevel:       0,
		Elo:              600,
		Threads:          defaultThreads,
		HashMB:           16,
		MoveTimeMillis:   60,
		DepthCap:         5,
		MultiPV:          5,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.5, 0.3, 0.2},
		EvalNoise:        80,
	},
	1: {
		Name:             "Easy",
		SkillLevel:       1,
		Elo:              800,
		Threads:          defaultThreads,
		HashMB:           24,
		MoveTimeMillis:   100,
		DepthCap:         8,
		MultiPV:          5,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.7, 0.2, 0.1},
		EvalNoise:        45,
	},
	2: {
		Name:             "Intermediate",
		SkillLevel:       7,
		Elo:              1200,
		Threads:          defaultThreads,
		HashMB:           48,
		MoveTimeMillis:   200,
		DepthCap:         12,
		MultiPV:          5,
		PrimaryChoices:   3,
		CandidateWeights: []float64{0.7, 0.2, 0.1},
		EvalNoise:        25,
	},
	3: {
		Name:             "Hard",
		SkillLevel:       16,
		Elo:              1650,
		Threads:          defaultThreads,
		HashMB:           96,
		MoveTimeMillis:   350,
		DepthCap:         20,
		MultiPV:          2,
		PrimaryChoices:   2,
		CandidateWeights: []float64{0.85, 0.15},
		EvalNoise:        5,
	},
	4: {
		Name:             "Impossible",
		SkillLevel:       20,
		Elo:              0,
		Threads:          4,
		HashMB:           128,
		MoveTimeMillis:   500,
		DepthCap:         30,
		MultiPV:          1,
		PrimaryChoices:   1,
		CandidateWeights: []float64{1.0},
		EvalNoise:        0,
	},
}

// GetPreset returns the preset for a skill level 0..4.
func GetPreset(skill int) (DifficultyPreset, error) {
	p, ok := defaultPresets[skill]
	if !ok {
		return DifficultyPreset{}, fmt.Errorf("skill %d out of range %d-%d", skill, MinSkill, MaxSkill)
	}
	p.CandidateWeights = append([]float64(nil), p.CandidateWeights...)
	return p, nil
}

// SkillName returns the display label for a skill level, or "Unknown".
func SkillName(skill int) string {
	if p, ok := defaultPresets[skill]; ok {
		return p.Name
	}
	return "Unknown"
}

// LoadPresetOverrides merges a YAML file over the built-in presets. The file
// maps skill levels to partial presets; absent fields keep their defaults.
func LoadPresetOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read preset file: %w", err)
	}
	var overrides map[int]presetOverride
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse preset file: %w", err)
	}
	for skill, ov := range overrides {
		base, ok := defaultPresets[skill]
		if !ok {
			return fmt.Errorf("preset file: skill %d out of range %d-%d", skill, MinSkill, MaxSkill)
		}
		merged := ov.apply(base)
		if err := ValidatePreset(merged); err != nil {
			return fmt.Errorf("preset file: skill %d: %w", skill, err)
		}
		defaultPresets[skill] = merged
	}
	return nil
}

type presetOverride struct {
	Name             *string   `yaml:"name"`
	SkillLevel       *int      `yaml:"skill_level"`
	Elo              *int      `yaml:"elo"`
	Threads          *int      `yaml:"threads"`
	HashMB           *int      `yaml:"hash_mb"`
	MoveTimeMillis   *int      `yaml:"move_time_ms"`
	DepthCap         *int      `yaml:"depth_cap"`
	MultiPV          *int      `yaml:"multipv"`
	PrimaryChoices   *int      `yaml:"primary_choices"`
	CandidateWeights []float64 `yaml:"candidate_weights"`
	EvalNoise        *int      `yaml:"eval_noise"`
}

func (ov presetOverride) apply(base DifficultyPreset) DifficultyPreset {
	out := base
	out.CandidateWeights = append([]float64(nil), base.CandidateWeights...)
	if ov.Name != nil {
		out.Name = *ov.Name
	}
	if ov.SkillLevel != nil {
		out.SkillLevel = *ov.SkillLevel
	}
	if ov.Elo != nil {
		out.Elo = *ov.Elo
	}
	if ov.Threads != nil {
		out.Threads = *ov.Threads
	}
	if ov.HashMB != nil {
		out.HashMB = *ov.HashMB
	}
	if ov.MoveTimeMillis != nil {
		out.MoveTimeMillis = *ov.MoveTimeMillis
	}
	if ov.DepthCap != nil {
		out.DepthCap = *ov.DepthCap
	}
	if ov.MultiPV != nil {
		out.MultiPV = *ov.MultiPV
	}
	if ov.PrimaryChoices != nil {
		out.PrimaryChoices = *ov.PrimaryChoices
	}
	if len(ov.CandidateWeights) > 0 {
		out.CandidateWeights = append([]float64(nil), ov.CandidateWeights...)
	}
	if ov.EvalNoise != nil {
		out.EvalNoise = *ov.EvalNoise
	}
	return out
}

// ValidatePreset checks that a preset is internally consistent.
func ValidatePreset(p DifficultyPreset) error {
	switch {
	case p.SkillLevel < 0 || p.SkillLevel > 20:
		return fmt.Errorf("skill level %d out of range 0-20", p.SkillLevel)
	case p.Threads <= 0:
		return fmt.Errorf("threads must be > 0: %d", p.Threads)
	case p.HashMB <= 0:
		return fmt.Errorf("hash size must be > 0: %d", p.HashMB)
	case p.MultiPV <= 0:
		return fmt.Errorf("multipv must be > 0: %d", p.MultiPV)
	case p.PrimaryChoices <= 0:
		return fmt.Errorf("primary choices must be > 0: %d", p.PrimaryChoices)
	case p.PrimaryChoices > p.MultiPV:
		return fmt.Errorf("primary choices (%d) must not exceed multipv (%d)", p.PrimaryChoices, p.MultiPV)
	case len(p.CandidateWeights) < p.PrimaryChoices:
		return fmt.Errorf("candidate weights (%d) must cover primary choices (%d)", len(p.CandidateWeights), p.PrimaryChoices)
	}

	sum := 0.0
	for i := 0; i < p.PrimaryChoices; i++ {
		w := p.CandidateWeights[i]
		if w < 0 {
			return fmt.Errorf("candidate weight at index %d is negative: %f", i, w)
		}
		sum += w
	}
	if sum == 0 {
		return fmt.Errorf("candidate weights sum to zero")
	}
	if p.MoveTimeMillis < 0 {
		return fmt.Errorf("move time must be >= 0: %d", p.MoveTimeMillis)
	}
	if p.DepthCap < 0 {
		return fmt.Errorf("depth cap must be >= 0: %d", p.DepthCap)
	}
	if p.EvalNoise < 0 {
		return fmt.Errorf("eval noise must be >= 0: %d", p.EvalNoise)
	}
	if p.Elo < 0 {
		return fmt.Errorf("elo must be >= 0: %d", p.Elo)
	}
	if p.MoveTimeMillis == 0 && p.DepthCap == 0 {
		return fmt.Errorf("preset %s does not define search limits", p.Name)
	}
	return nil
}
