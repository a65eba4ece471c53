package metrics

import (
	"math"

	"github.com/san-kum/bhverlet/internal/dynamo"
)

// Activity is the mean per-step displacement of mobile particles, averaged
// over the observed steps. It falls towards zero as the system settles.
type Activity struct {
	name    string
	sum     float64
	samples int
}

func NewActivity() *Activity {
	return &Activity{
		name: "activity",
	}
}

func (a *Activity) Name() string {
	return a.name
}

func (a *Activity) Observe(p *dynamo.Particles, t float64) {
	moved, mobile := 0.0, 0
	for i := 0; i < p.N; i++ {
		if p.Fixed[i] {
			continue
		}
		vx, vy := p.Velocity(i)
		moved += math.Hypot(vx, vy)
		mobile++
	}
	if mobile > 0 {
		a.sum += moved / float64(mobile)
	}
	a.samples++
}

func (a *Activity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Activity) Reset() {
	a.sum = 0
	a.samples = 0
}
