// Package config loads editor and engine settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/structview/pkg/engine"
	"github.com/chazu/structview/pkg/logging"
	"github.com/chazu/structview/pkg/merge"
	"github.com/chazu/structview/pkg/plane"
	"github.com/chazu/structview/pkg/snap"
	"github.com/chazu/structview/pkg/tessellate"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid settings")

// Rotation holds the working plane rotation settings.
type Rotation struct {
	TapAngle      float64 `json:"tapAngle" yaml:"tap_angle"`
	MinSpeed      float64 `json:"minSpeed" yaml:"min_speed"`
	MaxSpeed      float64 `json:"maxSpeed" yaml:"max_speed"`
	RampSeconds   float64 `json:"rampSeconds" yaml:"ramp_seconds"`
	SnapInterval  float64 `json:"snapInterval" yaml:"snap_interval"`
	SnapThreshold float64 `json:"snapThreshold" yaml:"snap_threshold"`
}

// Settings is the full configuration file.
type Settings struct {
	SnapRadius         float64            `json:"snapRadius" yaml:"snap_radius"`
	GridSize           float64            `json:"gridSize" yaml:"grid_size"`
	MergeTolerance     float64            `json:"mergeTolerance" yaml:"merge_tolerance"`
	PlaneTolerance     float64            `json:"planeTolerance" yaml:"plane_tolerance"`
	NearPlaneTolerance float64            `json:"nearPlaneTolerance" yaml:"near_plane_tolerance"`
	AngleTolerance     float64            `json:"angleTolerance" yaml:"angle_tolerance"`
	Rotation           Rotation           `json:"rotation" yaml:"rotation"`
	Preview            tessellate.Options `json:"preview" yaml:"preview"`
	Log                logging.Config     `json:"log" yaml:"log"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		SnapRadius:         snap.DefaultOptions.SnapRadius,
		GridSize:           snap.DefaultOptions.GridSize,
		MergeTolerance:     merge.DefaultTolerance,
		PlaneTolerance:     plane.DefaultOnPlaneThreshold,
		NearPlaneTolerance: plane.DefaultNearPlaneTolerance,
		AngleTolerance:     snap.DefaultAngleTolerance,
		Rotation: Rotation{
			TapAngle:      plane.TapAngle,
			MinSpeed:      plane.DefaultSpeedRamp.Min,
			MaxSpeed:      plane.DefaultSpeedRamp.Max,
			RampSeconds:   plane.DefaultSpeedRamp.Ramp,
			SnapInterval:  plane.DefaultAngleSnap.Interval,
			SnapThreshold: plane.DefaultAngleSnap.Threshold,
		},
		Preview: tessellate.DefaultOptions,
		Log:     logging.DefaultConfig,
	}
}

// Load decodes YAML from r on top of the defaults and validates the result.
// Keys missing from the document keep their default values.
func Load(r io.Reader) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile reads settings from path.
func LoadFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate rejects non-positive tolerances and inverted speed ramps.
func (s Settings) Validate() error {
	positive := []struct {
		key string
		v   float64
	}{
		{"snap_radius", s.SnapRadius},
		{"merge_tolerance", s.MergeTolerance},
		{"plane_tolerance", s.PlaneTolerance},
		{"near_plane_tolerance", s.NearPlaneTolerance},
		{"angle_tolerance", s.AngleTolerance},
		{"rotation.tap_angle", s.Rotation.TapAngle},
		{"rotation.min_speed", s.Rotation.MinSpeed},
		{"rotation.snap_interval", s.Rotation.SnapInterval},
		{"preview.strut_radius", s.Preview.StrutRadius},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalid, p.key, p.v)
		}
	}
	if s.GridSize < 0 {
		return fmt.Errorf("%w: grid_size must not be negative, got %g", ErrInvalid, s.GridSize)
	}
	if s.Rotation.MaxSpeed < s.Rotation.MinSpeed {
		return fmt.Errorf("%w: rotation.max_speed %g is below min_speed %g",
			ErrInvalid, s.Rotation.MaxSpeed, s.Rotation.MinSpeed)
	}
	if s.Rotation.SnapThreshold < 0 {
		return fmt.Errorf("%w: rotation.snap_threshold must not be negative", ErrInvalid)
	}
	if s.NearPlaneTolerance < s.PlaneTolerance {
		return fmt.Errorf("%w: near_plane_tolerance %g is below plane_tolerance %g",
			ErrInvalid, s.NearPlaneTolerance, s.PlaneTolerance)
	}
	return nil
}

// SnapOptions returns the 3D snap settings.
func (s Settings) SnapOptions() snap.Options {
	return snap.Options{
		SnapRadius:     s.SnapRadius,
		GridSize:       s.GridSize,
		PlaneTolerance: s.PlaneTolerance,
	}
}

// SnapOptions2D returns the 2D snap settings. lastNode enables guides.
func (s Settings) SnapOptions2D(lastNode *orb.Point) snap.Options2D {
	return snap.Options2D{
		SnapRadius:     s.SnapRadius,
		GridSize:       s.GridSize,
		LastNode:       lastNode,
		AngleTolerance: s.AngleTolerance,
	}
}

// RotationRamp returns the held-key speed ramp.
func (s Settings) RotationRamp() plane.SpeedRamp {
	return plane.SpeedRamp{Min: s.Rotation.MinSpeed, Max: s.Rotation.MaxSpeed, Ramp: s.Rotation.RampSeconds}
}

// AngleSnap returns the rotation snap increments.
func (s Settings) AngleSnap() plane.AngleSnap {
	return plane.AngleSnap{Interval: s.Rotation.SnapInterval, Threshold: s.Rotation.SnapThreshold}
}

// EngineOptions configures a script engine to match the settings.
func (s Settings) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithMergeTolerance(s.MergeTolerance),
		engine.WithAngleSnap(s.AngleSnap()),
	}
}
