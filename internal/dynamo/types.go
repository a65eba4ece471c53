package dynamo

// Metric accumulates a scalar diagnostic over the steps of a run.
type Metric interface {
	Name() string
	Observe(p *Particles, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(p *Particles, t float64)
}

// Tracker is implemented by components whose anchor follows an externally
// driven target such as the pointer.
type Tracker interface {
	TrackTarget(x, y float64)
	ReleaseTarget()
}
