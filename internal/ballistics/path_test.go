package ballistics

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballistix/internal/dim3"
	"github.com/san-kum/ballistix/internal/drag"
)

var _ = Describe("Path", func() {
	var solver *Solver

	BeforeEach(func() {
		solver = mustSolver(nineMM(), DefaultConfig())
	})

	It("starts exactly at the initial state without integrating", func() {
		v0 := dim3.Vec{360, 1, 0}
		p0 := dim3.Vec{0, -0.014, 0}

		path := solver.Path(v0, p0, 2.5, 0)
		Expect(path.Next()).To(BeTrue())
		Expect(path.Sample()).To(Equal(Sample{T: 2.5, V: v0, P: p0}))
		Expect(path.Steps()).To(BeZero())
	})

	It("slows a horizontal, drag-only shot on every sample", func() {
		cfg := DefaultConfig()
		cfg.Gravity = 0
		solver = mustSolver(nineMM(), cfg)

		path := solver.Path(dim3.Vec{360, 0, 0}, dim3.Vec{}, 0, 0)
		Expect(path.Next()).To(BeTrue())
		prev := path.Sample()
		for i := 1; i < 10; i++ {
			Expect(path.Next()).To(BeTrue())
			s := path.Sample()
			Expect(s.T).To(BeNumerically(">", prev.T))
			Expect(s.V[0]).To(BeNumerically("<", prev.V[0]))
			Expect(s.V[1]).To(BeZero())
			Expect(s.P[0]).To(BeNumerically(">", prev.P[0]))
			prev = s
		}
	})

	It("advances position by the trapezoidal rule", func() {
		path := solver.Path(dim3.Vec{360, 5, 0}, dim3.Vec{1, 2, 3}, 0, 0)
		Expect(path.Next()).To(BeTrue())
		prev := path.Sample()
		for i := 0; i < 5; i++ {
			Expect(path.Next()).To(BeTrue())
			s := path.Sample()
			want := prev.P.Add(s.V.Add(prev.V).Scale(0.5).Scale(s.T - prev.T))
			Expect(s.P).To(Equal(want))
			prev = s
		}
	})

	It("honours the step cap", func() {
		path := solver.Path(dim3.Vec{360, 0, 0}, dim3.Vec{}, 0, 1e-4)
		Expect(path.Next()).To(BeTrue())
		prev := path.Sample()
		for i := 0; i < 50; i++ {
			Expect(path.Next()).To(BeTrue())
			Expect(path.Sample().T - prev.T).To(BeNumerically("<=", 1e-4*(1+1e-9)))
			prev = path.Sample()
		}
	})

	It("ends with the drag model's range error", func() {
		narrow, err := drag.NewTabular([]drag.Row{{Mach: 0, CD: 0.2}, {Mach: 0.5, CD: 0.2}})
		Expect(err).NotTo(HaveOccurred())
		p := nineMM()
		p.Drag = narrow
		solver = mustSolver(p, DefaultConfig())

		path := solver.Path(dim3.Vec{360, 0, 0}, dim3.Vec{}, 0, 0)
		Expect(path.Next()).To(BeTrue())
		Expect(path.Next()).To(BeFalse())

		var rangeErr *drag.RangeError
		Expect(errors.As(path.Err(), &rangeErr)).To(BeTrue())
		Expect(rangeErr.Max).To(Equal(0.5))
		Expect(path.Next()).To(BeFalse())
	})

	It("ignores the ballistic coefficient", func() {
		a, b := nineMM(), nineMM()
		b.BC = 10 * a.BC
		pa := mustSolver(a, DefaultConfig()).Path(dim3.Vec{360, 0, 0}, dim3.Vec{}, 0, 0)
		pb := mustSolver(b, DefaultConfig()).Path(dim3.Vec{360, 0, 0}, dim3.Vec{}, 0, 0)
		for i := 0; i < 10; i++ {
			Expect(pa.Next()).To(BeTrue())
			Expect(pb.Next()).To(BeTrue())
			Expect(pa.Sample()).To(Equal(pb.Sample()))
		}
	})
})
