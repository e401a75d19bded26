package ballistics

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
)

func drain(tab *Tabulator, limit int) []Crossing {
	var out []Crossing
	for len(out) < limit && tab.Next() {
		out = append(out, tab.Crossing())
	}
	return out
}

var _ = Describe("Tabulator", func() {
	Context("Mk 262 at 838 m/s, 1.8 mil", func() {
		var (
			solver *Solver
			v0, p0 dim3.Vec
		)

		BeforeEach(func() {
			solver = mustSolver(mk262(), DefaultConfig())
			v0 = Launch(838, mustRotation(1.8, dim3.NATOMil))
			p0 = dim3.Vec{0, -0.066, 0}
		})

		It("crosses 50, 100, 200 and 400 m where expected", func() {
			tab := solver.Tabulate(v0, p0, 0, MeterMarkers(50, 100, 200, 400))
			got := drain(tab, 10)
			Expect(tab.Err()).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(4))

			expected := []struct {
				distance        float64
				t, tTol         float64
				drop, dropTol   float64
				speed, speedTol float64
			}{
				{50, 0.061, 0.001, 0, 0.01, 796, 10},
				{100, 0.1246, 0.002, 0.037, 0.01, 768.4, 3},
				{200, 0.2608, 0.002, -0.027, 0.01, 702.1, 3},
				{400, 0.5743, 0.003, -0.795, 0.02, 579.7, 3},
			}
			for i, e := range expected {
				c := got[i]
				Expect(MarkerDistance(c.Marker)).To(Equal(e.distance))
				Expect(c.Sample.T).To(BeNumerically("~", e.t, e.tTol), "time at %v m", e.distance)
				Expect(c.Sample.P[1]).To(BeNumerically("~", e.drop, e.dropTol), "drop at %v m", e.distance)
				Expect(c.Sample.Speed()).To(BeNumerically("~", e.speed, e.speedTol), "speed at %v m", e.distance)
			}
		})

		It("reports each crossing within a centimetre past its marker", func() {
			got := drain(solver.Tabulate(v0, p0, 0, RangeMarkers(10, 300, 10)), 100)
			Expect(got).To(HaveLen(30))
			prevT := math.Inf(-1)
			for _, c := range got {
				alt := c.Marker.Altitude(c.Sample.P)
				Expect(alt).To(BeNumerically(">=", 0))
				Expect(alt).To(BeNumerically("<", 0.01))
				Expect(c.Sample.T).To(BeNumerically(">", prevT))
				prevT = c.Sample.T
			}
		})

		It("ends with the range error once the projectile leaves the table", func() {
			var rows []drag.Row
			for _, r := range drag.G7().Rows() {
				if r.Mach >= 2.0 {
					rows = append(rows, r)
				}
			}
			supersonic, err := drag.NewTabular(rows)
			Expect(err).NotTo(HaveOccurred())
			p := mk262()
			p.Drag = supersonic
			solver = mustSolver(p, DefaultConfig())

			got, err := solver.Table(context.Background(), v0, p0, 0, MeterMarkers(100, 500))
			Expect(got).To(HaveLen(1))
			Expect(MarkerDistance(got[0].Marker)).To(Equal(100.0))

			var rangeErr *drag.RangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
			Expect(err).To(MatchError(drag.ErrOutOfRange))
		})
	})

	Context("9mm at 360 m/s, 1.65 mil", func() {
		var (
			solver *Solver
			v0, p0 dim3.Vec
		)

		BeforeEach(func() {
			solver = mustSolver(nineMM(), DefaultConfig())
			v0 = Launch(360, mustRotation(1.65, dim3.NATOMil))
			p0 = dim3.Vec{0, -0.014, 0}
		})

		It("pairs the muzzle marker with the launch state", func() {
			got := drain(solver.Tabulate(v0, p0, 0, MeterMarkers1km()), 1)
			Expect(got).To(HaveLen(1))
			Expect(got[0].Sample).To(Equal(Sample{T: 0, V: v0, P: p0}))
		})

		It("emits a crossing per meter and loses speed along the way", func() {
			got := drain(solver.Tabulate(v0, p0, 0, MeterMarkers1km()), 101)
			Expect(got).To(HaveLen(101))
			Expect(got[100].Sample.P[0]).To(BeNumerically("<", 101))
			Expect(got[9].Sample.V[0]).To(BeNumerically("<", v0[0]-1))
			Expect(got[100].Sample.T).To(BeNumerically("~", 0.3106, 0.002))
		})

		It("skips markers behind the muzzle", func() {
			got := drain(solver.Tabulate(v0, p0, 0, MeterMarkers(-5, 50)), 10)
			Expect(got).To(HaveLen(1))
			Expect(MarkerDistance(got[0].Marker)).To(Equal(50.0))
		})

		It("drains coincident markers against one sample", func() {
			got := drain(solver.Tabulate(v0, p0, 0, MeterMarkers(20, 20, 20)), 10)
			Expect(got).To(HaveLen(3))
			Expect(got[1].Sample).To(Equal(got[0].Sample))
			Expect(got[2].Sample).To(Equal(got[0].Sample))
		})

		It("yields nothing and never integrates without markers", func() {
			tab := solver.Tabulate(v0, p0, 0, nil)
			Expect(tab.Next()).To(BeFalse())
			Expect(tab.Err()).NotTo(HaveOccurred())
			Expect(tab.coarse.Steps()).To(BeZero())
			Expect(tab.Remaining()).To(BeZero())
		})

		It("does not share the caller's marker slice", func() {
			markers := MeterMarkers(10, 20)
			tab := solver.Tabulate(v0, p0, 0, markers)
			drain(tab, 10)
			Expect(markers).To(HaveLen(2))
			Expect(MarkerDistance(markers[0])).To(Equal(10.0))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			got, err := solver.Table(ctx, v0, p0, 0, MeterMarkers1km())
			Expect(got).To(BeEmpty())
			Expect(err).To(MatchError(context.Canceled))
		})

		It("gives up on markers a vertical shot never reaches", func() {
			up := Launch(838, mustRotation(1600, dim3.NATOMil))
			tab := solver.Tabulate(up, p0, 0, MeterMarkers(100)).Horizon(30)
			Expect(tab.Next()).To(BeFalse())
			Expect(tab.Err()).NotTo(HaveOccurred())
			Expect(tab.Remaining()).To(Equal(1))
			Expect(tab.prior.T).To(BeNumerically(">=", 30))
		})

		It("collects a short table", func() {
			got, err := solver.Table(context.Background(), v0, p0, 0, RangeMarkers(0, 50, 25))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))
		})
	})
})
