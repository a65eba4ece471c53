package forces_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhverlet/internal/dynamo"
	"github.com/san-kum/bhverlet/internal/forces"
)

func mustRadial(p forces.Params) *forces.Radial {
	r, err := forces.NewRadial(p)
	Expect(err).NotTo(HaveOccurred())
	return r
}

func evaluate(p forces.Primitive, x, y float64) [2]float64 {
	fx, fy := p.Evaluate(x, y)
	return [2]float64{fx, fy}
}

var _ = Describe("Radial", func() {
	It("is zero beyond its radius", func() {
		r := mustRadial(forces.Params{Name: "ring", AnchorX: 100, AnchorY: 100, Radius: 50, Strength: 2, Damping: 1})
		for _, pt := range [][2]float64{{151, 100}, {100, 30}, {0, 0}, {140, 140}} {
			Expect(evaluate(r, pt[0], pt[1])).To(Equal([2]float64{0, 0}))
		}
	})

	It("is zero at the anchor", func() {
		r := mustRadial(forces.Params{Name: "core", AnchorX: 10, AnchorY: 10, Radius: 5, Strength: 1, Damping: 1})
		Expect(evaluate(r, 10, 10)).To(Equal([2]float64{0, 0}))
	})

	It("scales the anchor-to-point vector by (R-d)·s·α/d", func() {
		// d = 4: magnitude (10-4)*3*0.5/4 = 2.25 applied to (4, 0)
		r := mustRadial(forces.Params{Name: "push", Radius: 10, Strength: 3, Damping: 0.5})
		f := evaluate(r, 4, 0)
		Expect(f[0]).To(BeNumerically("~", 9.0, 1e-12))
		Expect(f[1]).To(Equal(0.0))

		pull := mustRadial(forces.Params{Name: "pull", Radius: 10, Strength: -3, Damping: 0.5})
		Expect(evaluate(pull, 4, 0)[0]).To(BeNumerically("~", -9.0, 1e-12))
	})

	It("does nothing while disabled", func() {
		r := mustRadial(forces.Params{Name: "push", Radius: 10, Strength: 1, Damping: 1})
		r.SetEnabled(false)
		Expect(r.Enabled()).To(BeFalse())
		Expect(evaluate(r, 3, 4)).To(Equal([2]float64{0, 0}))
	})

	It("follows the pointer when tracking", func() {
		r := mustRadial(forces.Params{Name: "pointer", Radius: 100, Strength: 3, Damping: 1, Track: true})
		var _ dynamo.Tracker = r

		Expect(evaluate(r, 10, 0)[0]).To(BeZero(), "waits for a target")

		r.TrackTarget(50, 50)
		x, y := r.Anchor()
		Expect([]float64{x, y}).To(Equal([]float64{50, 50}))
		Expect(evaluate(r, 60, 50)[0]).To(BeNumerically(">", 0))

		r.ReleaseTarget()
		Expect(evaluate(r, 60, 50)[0]).To(BeZero())
	})

	It("ignores the pointer when not tracking", func() {
		r := mustRadial(forces.Params{Name: "fixed", AnchorX: 1, AnchorY: 2, Radius: 10, Strength: 1, Damping: 1})
		r.TrackTarget(50, 50)
		r.ReleaseTarget()
		x, y := r.Anchor()
		Expect([]float64{x, y}).To(Equal([]float64{1, 2}))
		Expect(evaluate(r, 3, 2)[0]).NotTo(BeZero())
	})

	It("rejects bad parameters", func() {
		_, err := forces.NewRadial(forces.Params{Name: "bad", Radius: 0})
		Expect(err).To(HaveOccurred())
		_, err = forces.NewRadial(forces.Params{Name: "nan", Radius: 1, Strength: math.NaN()})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Linear", func() {
	It("acts along its axis within the band", func() {
		l, err := forces.NewLinear(forces.Params{Name: "floor", AnchorY: 100, Radius: 40, Strength: 1, Damping: 1}, forces.AxisY)
		Expect(err).NotTo(HaveOccurred())

		f := evaluate(l, 999, 90)
		Expect(f[0]).To(BeZero())
		Expect(f[1]).To(BeNumerically("~", -30.0, 1e-12))

		Expect(evaluate(l, 5, 150)).To(Equal([2]float64{0, 0}), "outside the band")
		Expect(evaluate(l, 5, 100)[1]).To(BeZero(), "zero distance")

		lx, err := forces.NewLinear(forces.Params{Name: "wall", Radius: 10, Strength: 2, Damping: 1}, forces.AxisX)
		Expect(err).NotTo(HaveOccurred())
		f = evaluate(lx, 5, 77)
		Expect(f[0]).To(BeNumerically("~", 10.0, 1e-12))
		Expect(f[1]).To(BeZero())
	})

	DescribeTable("ParseAxis",
		func(in string, want forces.Axis, ok bool) {
			a, err := forces.ParseAxis(in)
			if !ok {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(want))
		},
		Entry("x", "x", forces.AxisX, true),
		Entry("default", "", forces.AxisY, true),
		Entry("unknown", "z", forces.AxisY, false),
	)
})

var _ = Describe("Spec", func() {
	It("builds a radial by default", func() {
		prim, err := forces.Spec{Params: forces.Params{Name: "r", Radius: 10, Strength: 1, Damping: 1}}.Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(prim).To(BeAssignableToTypeOf(&forces.Radial{}))
		Expect(prim.Enabled()).To(BeTrue())
	})

	It("builds a disabled linear", func() {
		prim, err := forces.Spec{Kind: forces.KindLinear, Axis: forces.AxisX, Disabled: true, Params: forces.Params{Name: "l", Radius: 10, Strength: 1, Damping: 1}}.Build()
		Expect(err).NotTo(HaveOccurred())
		lin, ok := prim.(*forces.Linear)
		Expect(ok).To(BeTrue())
		Expect(lin.Axis).To(Equal(forces.AxisX))
		Expect(prim.Enabled()).To(BeFalse())
	})

	It("rejects unknown kinds and bad parameters", func() {
		_, err := forces.Spec{Kind: "vortex", Params: forces.Params{Name: "v", Radius: 10}}.Build()
		Expect(err).To(HaveOccurred())
		_, err = forces.Spec{Params: forces.Params{Name: "bad", Radius: -1}}.Build()
		Expect(err).To(HaveOccurred())
	})
})
