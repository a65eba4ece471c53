package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestParticles_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Particles)
		wantErr error
	}{
		{"valid", func(p *Particles) {}, nil},
		{"zero mass", func(p *Particles) { p.Mass[1] = 0 }, ErrInvalidConfig},
		{"negative mass", func(p *Particles) { p.Mass[2] = -1 }, ErrInvalidConfig},
		{"fixed zero mass", func(p *Particles) { p.Mass[0] = 0; p.Fixed[0] = true }, nil},
		{"short buffer", func(p *Particles) { p.Radius = p.Radius[:2] }, ErrDimensionMismatch},
		{"NaN radius", func(p *Particles) { p.Radius[0] = math.NaN() }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticles(3)
			for i := range p.Mass {
				p.Mass[i] = 1
				p.Radius[i] = 1
			}
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParticles_CheckFinite(t *testing.T) {
	p := NewParticles(4)
	if _, _, ok := p.CheckFinite(); !ok {
		t.Fatal("zeroed store reported non-finite")
	}

	p.Prev[5] = math.Inf(1)
	buf, idx, ok := p.CheckFinite()
	if ok {
		t.Fatal("expected non-finite value to be detected")
	}
	if buf != BufferPrevious || idx != 2 {
		t.Errorf("got buffer %s particle %d, want previous position particle 2", buf, idx)
	}

	p.Prev[5] = 0
	p.Acc[0] = math.NaN()
	buf, idx, _ = p.CheckFinite()
	if buf != BufferAcceleration || idx != 0 {
		t.Errorf("got buffer %s particle %d, want acceleration particle 0", buf, idx)
	}
}

func TestParticles_PlaceAndVelocity(t *testing.T) {
	p := NewParticles(2)
	p.Place(1, 3, 4)

	if x, y := p.Position(1); x != 3 || y != 4 {
		t.Errorf("Position = (%v, %v), want (3, 4)", x, y)
	}
	if vx, vy := p.Velocity(1); vx != 0 || vy != 0 {
		t.Errorf("placed particle should be at rest, got (%v, %v)", vx, vy)
	}

	p.Pos[2] = 5
	if vx, _ := p.Velocity(1); vx != 2 {
		t.Errorf("Velocity x = %v, want 2", vx)
	}
}

func TestInvariantError(t *testing.T) {
	err := &InvariantError{Step: 150, Time: 1.5, Particle: 7, Buffer: BufferPosition, Phase: "integration"}
	expected := "step 150 (t=1.5000): non-finite position of particle 7 after integration"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("InvariantError should unwrap to ErrInvalidState")
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8} {
		var seen [101]int32
		ParallelFor(len(seen), workers, 4, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, c)
			}
		}
	}
}
