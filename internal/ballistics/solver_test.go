package ballistics

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
)

func mustRotation(elevation float64, units dim3.AngularMeasure) dim3.Rotation {
	r, err := dim3.NewRotation(elevation, 0, units)
	Expect(err).NotTo(HaveOccurred())
	return r
}

func mustSolver(p Projectile, cfg Config) *Solver {
	s, err := New(p, cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

// Mk 262 (5.56mm) on a G7 table.
func mk262() Projectile {
	return Projectile{
		Area: AreaFromDiameter(0.0057),
		Mass: 0.005,
		Drag: drag.G7(),
		BC:   0.181,
	}
}

// 9mm NATO on a G1 table.
func nineMM() Projectile {
	return Projectile{
		Area: AreaFromDiameter(0.00901),
		Mass: 0.008,
		Drag: drag.G1(),
		BC:   0.089,
	}
}

var _ = Describe("Solver", func() {
	Describe("New", func() {
		It("rejects projectiles without area, mass or drag model", func() {
			p := mk262()
			p.Area = 0
			_, err := New(p, DefaultConfig())
			Expect(err).To(MatchError(ErrInvalidProjectile))

			p = mk262()
			p.Mass = -1
			_, err = New(p, DefaultConfig())
			Expect(err).To(MatchError(ErrInvalidProjectile))

			p = mk262()
			p.Drag = nil
			_, err = New(p, DefaultConfig())
			Expect(err).To(MatchError(ErrInvalidProjectile))
		})

		It("rejects non-positive environment constants", func() {
			cfg := DefaultConfig()
			cfg.Density = 0
			_, err := New(mk262(), cfg)
			Expect(err).To(MatchError(ErrInvalidConfig))

			cfg = DefaultConfig()
			cfg.FineStep = 0
			_, err = New(mk262(), cfg)
			Expect(err).To(MatchError(ErrInvalidConfig))
		})

		It("defaults to the sea-level standard atmosphere", func() {
			cfg := DefaultConfig()
			Expect(cfg.Density).To(Equal(1.225))
			Expect(cfg.SoundSpeed).To(Equal(340.3))
			Expect(cfg.Gravity).To(Equal(-9.80665))
			Expect(cfg.FineStep).To(Equal(1e-5))
		})
	})

	Describe("Acceleration", func() {
		It("is gravity alone at rest", func() {
			s := mustSolver(mk262(), DefaultConfig())
			a, err := s.Acceleration(dim3.Vec{})
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(dim3.Vec{0, StandardGravity, 0}))
		})

		It("applies ½ρv²·Cd·A/m against the velocity", func() {
			cfg := DefaultConfig()
			cfg.Gravity = 0
			s := mustSolver(mk262(), cfg)

			v := dim3.Vec{0, 0, -680.6}
			a, err := s.Acceleration(v)
			Expect(err).NotTo(HaveOccurred())

			cd, _ := drag.G7().CoefficientOfDrag(2.0)
			want := 0.5 * cfg.Density * 680.6 * 680.6 * cd * mk262().Area / mk262().Mass
			Expect(a[0]).To(BeZero())
			Expect(a[1]).To(BeZero())
			Expect(a[2]).To(BeNumerically("~", want, 1e-9))
		})

		It("propagates drag table range errors", func() {
			narrow, err := drag.NewTabular([]drag.Row{{Mach: 0, CD: 0.1}, {Mach: 1, CD: 0.2}})
			Expect(err).NotTo(HaveOccurred())
			p := mk262()
			p.Drag = narrow
			s := mustSolver(p, DefaultConfig())

			_, err = s.Acceleration(dim3.Vec{500, 0, 0})
			var rangeErr *drag.RangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
		})

		It("fails fast on a NaN velocity", func() {
			s := mustSolver(mk262(), DefaultConfig())
			_, err := s.Acceleration(dim3.Vec{math.NaN(), 0, 0})
			Expect(err).To(MatchError(drag.ErrOutOfRange))
		})
	})

	Describe("Launch", func() {
		It("elevates the muzzle velocity", func() {
			v := Launch(838, mustRotation(1.8, dim3.NATOMil))
			Expect(v.Magnitude()).To(BeNumerically("~", 838, 1e-9))
			Expect(v[1]).To(BeNumerically("~", 1.4808, 1e-3))
			Expect(v[2]).To(BeZero())
		})
	})

	Describe("markers", func() {
		It("builds down-range planes", func() {
			planes := MeterMarkers(50, 100)
			Expect(planes).To(HaveLen(2))
			Expect(MarkerDistance(planes[1])).To(Equal(100.0))
			Expect(planes[0].Altitude(dim3.Vec{49, 3, 0})).To(BeNumerically("<", 0))
			Expect(planes[0].Altitude(dim3.Vec{51, -3, 0})).To(BeNumerically(">", 0))
		})

		It("defaults to one marker per meter up to 1 km", func() {
			planes := MeterMarkers1km()
			Expect(planes).To(HaveLen(1001))
			Expect(MarkerDistance(planes[0])).To(Equal(0.0))
			Expect(MarkerDistance(planes[1000])).To(Equal(1000.0))
		})

		It("spaces range markers evenly", func() {
			Expect(RangeMarkers(0, 100, 25)).To(HaveLen(5))
			Expect(RangeMarkers(0, 100, 0)).To(BeEmpty())
			Expect(RangeMarkers(10, 0, 1)).To(BeEmpty())
		})

		It("refuses ranges with more than MaxRangeMarkers planes", func() {
			Expect(RangeMarkers(0, 1000, 1e-9)).To(BeEmpty())
			Expect(RangeMarkers(0, math.Inf(1), 1)).To(BeEmpty())
			Expect(RangeMarkers(0, MaxRangeMarkers-1, 1)).To(HaveLen(MaxRangeMarkers))
		})
	})

	It("computes kinetic energy", func() {
		Expect(KineticEnergy(0.005, dim3.Vec{800, 0, 0})).To(BeNumerically("~", 1600, 1e-9))
	})
})

var _ = Describe("Rows", func() {
	It("flattens crossings into a range table", func() {
		c := Crossing{
			Marker: MeterMarkers(100)[0],
			Sample: Sample{T: 0.125, V: dim3.Vec{3, 4, 0}, P: dim3.Vec{100.004, -0.25, 0}},
		}
		rows := Rows([]Crossing{c}, 2)
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Distance).To(Equal(100.0))
		Expect(rows[0].Time).To(Equal(0.125))
		Expect(rows[0].Speed).To(Equal(5.0))
		Expect(rows[0].Energy).To(Equal(25.0))
		Expect(rows[0].Drop()).To(Equal(-0.25))
	})
})
