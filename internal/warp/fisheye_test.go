package warp_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhverlet/internal/warp"
)

var _ = Describe("Fisheye", func() {
	var lens *warp.Fisheye

	BeforeEach(func() {
		cfg := warp.DefaultFisheyeConfig()
		cfg.FocusX, cfg.FocusY = 50, 50
		var err error
		lens, err = warp.NewFisheye(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("leaves the focus in place with the focus scale", func() {
		p := lens.Apply(50, 50)
		Expect(p.X).To(Equal(50.0))
		Expect(p.Y).To(Equal(50.0))
		Expect(p.Scale).To(Equal(warp.FocusScale))
		Expect(p.Region).To(Equal(warp.AtFocus))
	})

	It("reports the outside sentinel at or beyond the radius", func() {
		for _, pt := range [][2]float64{{150, 50}, {50, 200}, {0, 0}} {
			p := lens.Apply(pt[0], pt[1])
			Expect(p.X).To(Equal(pt[0]))
			Expect(p.Y).To(Equal(pt[1]))
			Expect(p.Scale).To(Equal(warp.OutsideScale))
			Expect(p.Region).To(Equal(warp.Outside))
		}
	})

	It("magnifies points inside the lens", func() {
		p := lens.Apply(60, 50)
		Expect(p.Region).To(Equal(warp.Inside))
		Expect(p.X).To(BeNumerically(">", 60.0))
		Expect(p.Y).To(BeNumerically("~", 50.0, 1e-12))
		Expect(p.Scale).To(BeNumerically(">", 1.0))
		Expect(p.Scale).To(BeNumerically("<=", warp.MaxScale))

		e := math.Exp(2.0)
		k0 := 100 * e / (e - 1)
		k := (k0*(1-math.Exp(-10*0.02))/10)*0.75 + 0.25
		Expect(p.X).To(BeNumerically("~", 50+10*k, 1e-9))
	})

	It("is close to the identity just inside the edge", func() {
		p := lens.Apply(50+99.999, 50)
		Expect(p.Scale).To(BeNumerically("~", 1.0, 1e-3))
		Expect(p.X).To(BeNumerically("~", 50+99.999, 1e-2))
	})

	It("honours the position and radius flags", func() {
		cfg := warp.DefaultFisheyeConfig()
		cfg.UpdatePosition = false
		cfg.UpdateRadius = false
		f, err := warp.NewFisheye(cfg)
		Expect(err).NotTo(HaveOccurred())

		p := f.Apply(10, 0)
		Expect(p.X).To(Equal(10.0))
		Expect(p.Scale).To(Equal(1.0))
		Expect(p.Region).To(Equal(warp.Inside))
	})

	It("follows the pointer only when tracking", func() {
		cfg := warp.DefaultFisheyeConfig()
		f, _ := warp.NewFisheye(cfg)
		f.TrackTarget(30, 40)
		x, y := f.Focus()
		Expect(x).To(Equal(0.0))
		Expect(y).To(Equal(0.0))

		cfg.Track = true
		f, _ = warp.NewFisheye(cfg)
		f.TrackTarget(30, 40)
		x, y = f.Focus()
		Expect(x).To(Equal(30.0))
		Expect(y).To(Equal(40.0))

		f.ReleaseTarget()
		x, _ = f.Focus()
		Expect(x).To(Equal(30.0), "release keeps the last focus")
	})

	It("rejects a zero radius or distortion", func() {
		_, err := warp.NewFisheye(warp.FisheyeConfig{Radius: 0, Distortion: 2})
		Expect(err).To(HaveOccurred())
		_, err = warp.NewFisheye(warp.FisheyeConfig{Radius: 10, Distortion: 0})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Identity", func() {
	It("returns the point unchanged as outside", func() {
		Expect(warp.Identity{}.Apply(3, 4)).To(Equal(warp.Point{X: 3, Y: 4, Scale: 1, Region: warp.Outside}))
	})
})
