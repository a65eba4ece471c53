package warp

import (
	"fmt"
	"math"
)

const (
	// FocusScale is reported for a point exactly on the focus.
	FocusScale = 1.0
	// OutsideScale is reported for points at or beyond the lens radius.
	// Region Outside distinguishes it from an in-lens scale of 1.
	OutsideScale = 1.0
	// MaxScale caps radius growth near the focus.
	MaxScale = 10.0
)

// FisheyeConfig configures a Fisheye lens.
type FisheyeConfig struct {
	Radius         float64
	Distortion     float64
	FocusX, FocusY float64
	UpdatePosition bool
	UpdateRadius   bool
	Track          bool
}

// DefaultFisheyeConfig mirrors the lens used by the demo scenes.
func DefaultFisheyeConfig() FisheyeConfig {
	return FisheyeConfig{
		Radius:         100,
		Distortion:     2,
		UpdatePosition: true,
		UpdateRadius:   true,
	}
}

// Fisheye magnifies the region around a focus point.
type Fisheye struct {
	cfg    FisheyeConfig
	focusX float64
	focusY float64
	k0, k1 float64
}

func NewFisheye(cfg FisheyeConfig) (*Fisheye, error) {
	if !(cfg.Radius > 0) || math.IsInf(cfg.Radius, 0) {
		return nil, fmt.Errorf("fisheye radius must be positive and finite, got %v", cfg.Radius)
	}
	if cfg.Distortion == 0 || math.IsNaN(cfg.Distortion) || math.IsInf(cfg.Distortion, 0) {
		return nil, fmt.Errorf("fisheye distortion must be non-zero and finite, got %v", cfg.Distortion)
	}

	e := math.Exp(cfg.Distortion)
	return &Fisheye{
		cfg:    cfg,
		focusX: cfg.FocusX,
		focusY: cfg.FocusY,
		k0:     cfg.Radius * e / (e - 1),
		k1:     cfg.Distortion / cfg.Radius,
	}, nil
}

func (f *Fisheye) Focus() (x, y float64) { return f.focusX, f.focusY }
func (f *Fisheye) Radius() float64       { return f.cfg.Radius }

// SetFocus moves the lens regardless of tracking.
func (f *Fisheye) SetFocus(x, y float64) {
	f.focusX, f.focusY = x, y
}

// TrackTarget moves the focus when the lens follows the pointer.
func (f *Fisheye) TrackTarget(x, y float64) {
	if f.cfg.Track {
		f.SetFocus(x, y)
	}
}

// ReleaseTarget leaves the lens where the pointer left it.
func (f *Fisheye) ReleaseTarget() {}

func (f *Fisheye) Apply(x, y float64) Point {
	dx := x - f.focusX
	dy := y - f.focusY
	d := math.Sqrt(dx*dx + dy*dy)

	if d == 0 {
		return Point{X: x, Y: y, Scale: FocusScale, Region: AtFocus}
	}
	if d >= f.cfg.Radius {
		return Point{X: x, Y: y, Scale: OutsideScale, Region: Outside}
	}

	k := (f.k0*(1-math.Exp(-d*f.k1))/d)*0.75 + 0.25

	p := Point{X: x, Y: y, Scale: 1, Region: Inside}
	if f.cfg.UpdatePosition {
		p.X = f.focusX + dx*k
		p.Y = f.focusY + dy*k
	}
	if f.cfg.UpdateRadius {
		p.Scale = math.Min(k, MaxScale)
	}
	return p
}
