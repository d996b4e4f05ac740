package sim

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/physics"
	"github.com/san-kum/rdsim/internal/render"
)

func testOptions() Options {
	return Options{
		Width:   60,
		Height:  45,
		Backend: compute.NewSerialBackend(),
		Logger:  slog.New(slog.DiscardHandler),
		Seed:    1,
		Clock:   StepClock(time.Unix(0, 0), time.Second/60),
	}
}

type recordingSurface struct {
	frames int
	last   *render.Frame
	err    error
}

func (r *recordingSurface) Present(f *render.Frame) error {
	r.frames++
	r.last = f.Clone()
	return r.err
}

var _ = Describe("Simulator", func() {
	var (
		s *Simulator
		p dynamo.Params
	)

	BeforeEach(func() {
		p = dynamo.DefaultParams()
		var err error
		s, err = New(p, testOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("derives the grid from display size and resolution", func() {
			cols, rows := s.Grid().Dimensions()
			Expect(cols).To(Equal(20))
			Expect(rows).To(Equal(15))
		})

		It("seeds a central drop", func() {
			_, b := s.Grid().Get(10, 7)
			Expect(b).To(Equal(1.0))
			a, b := s.Grid().Get(0, 0)
			Expect(a).To(Equal(1.0))
			Expect(b).To(Equal(0.0))
		})

		It("rejects invalid parameters", func() {
			bad := dynamo.DefaultParams()
			bad.Kill = -1
			_, err := New(bad, testOptions())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects a resolution larger than the display", func() {
			bad := dynamo.DefaultParams()
			bad.Resolution = 100
			_, err := New(bad, testOptions())
			Expect(errors.Is(err, dynamo.ErrInvalidResolution)).To(BeTrue())
		})
	})

	Describe("Reinit", func() {
		It("is idempotent", func() {
			s.Reinit()
			first := s.Grid().Clone()
			s.Drop(2, 2, 3)
			s.Reinit()
			Expect(s.Grid().Equal(first)).To(BeTrue())
		})

		It("resets the tick counter", func() {
			s.Step()
			s.Step()
			Expect(s.TickCount()).To(Equal(2))
			s.Restart()
			Expect(s.TickCount()).To(Equal(0))
		})
	})

	Describe("SetParams", func() {
		It("rejects the whole update when one field is invalid", func() {
			next := s.Params()
			next.Feed = 0.05
			next.TimeStep = 0
			err := s.SetParams(next)
			Expect(errors.Is(err, dynamo.ErrInvalidTimeStep)).To(BeTrue())
			Expect(s.Params()).To(Equal(p))
		})

		It("rebuilds the grid when the resolution changes", func() {
			next := s.Params()
			next.Resolution = 5
			Expect(s.SetParams(next)).To(Succeed())
			cols, rows := s.Grid().Dimensions()
			Expect(cols).To(Equal(12))
			Expect(rows).To(Equal(9))
			w, h := s.FrameSize()
			Expect(w).To(Equal(60))
			Expect(h).To(Equal(45))
		})

		It("keeps the grid when only rates change", func() {
			s.Drop(1, 1, 2)
			before := s.Grid().Clone()
			Expect(s.SetParam("feed", 0.04)).To(Succeed())
			Expect(s.Grid().Equal(before)).To(BeTrue())
			Expect(s.Params().Feed).To(Equal(0.04))
		})

		It("re-derives colors for the renderer", func() {
			next := s.Params()
			next.ColorA = dynamo.RGB{9, 8, 7}
			Expect(s.SetParams(next)).To(Succeed())
			f := s.Render()
			Expect(f.RGBAAt(0, 0).R).To(Equal(uint8(9)))
		})
	})

	Describe("ApplyPreset", func() {
		It("overwrites only the four rates and reseeds", func() {
			s.Drop(1, 1, 2)
			s.Step()
			Expect(s.ApplyPreset("maze")).To(Succeed())

			got := s.Params()
			Expect(got.DiffusionA).To(Equal(1.53))
			Expect(got.DiffusionB).To(Equal(1.8))
			Expect(got.Feed).To(Equal(0.083))
			Expect(got.Kill).To(Equal(0.186))
			Expect(got.TimeStep).To(Equal(p.TimeStep))
			Expect(got.Mode).To(Equal(p.Mode))
			Expect(s.TickCount()).To(Equal(0))
			Expect(s.Preset()).To(Equal("maze"))

			_, b := s.Grid().Get(1, 1)
			Expect(b).To(Equal(0.0))
		})

		It("reports unknown presets", func() {
			err := s.ApplyPreset("nebula")
			Expect(errors.Is(err, dynamo.ErrUnknownPreset)).To(BeTrue())
			Expect(s.Params()).To(Equal(p))
		})

		It("forgets the preset label once rates are edited", func() {
			Expect(s.ApplyPreset("coral")).To(Succeed())
			Expect(s.SetParam("kill", 0.05)).To(Succeed())
			Expect(s.Preset()).To(BeEmpty())
		})

		It("cycles through presets in order", func() {
			Expect(s.CyclePreset()).To(Equal("coral"))
			Expect(s.CyclePreset()).To(Equal("eddy"))
		})
	})

	Describe("drops", func() {
		It("uses the default radius when none is given", func() {
			s.Reinit()
			n := s.Drop(3, 3, 0)
			Expect(n).To(Equal(physics.Inject(physics.NewGrid(20, 15), 3, 3, p.DropRadius)))
		})

		It("maps pixel coordinates to cells", func() {
			s.DropAtPixel(4.5, 40)
			_, b := s.Grid().Get(1, 13)
			Expect(b).To(Equal(1.0))
		})

		It("applies immediately while paused", func() {
			s.Pause()
			s.Drop(2, 2, 1)
			_, b := s.Grid().Get(2, 2)
			Expect(b).To(Equal(1.0))
		})

		It("places random drops inside the grid", func() {
			s.Reinit()
			Expect(s.RandomDrop()).To(BeNumerically(">", 0))
		})

		It("fires scheduled drops after the interval", func() {
			build := func(random bool) *Simulator {
				opts := testOptions()
				opts.Width, opts.Height = 300, 300
				opts.RandomDrops = random
				opts.DropInterval = 100 * time.Millisecond
				sim, err := New(p, opts)
				Expect(err).NotTo(HaveOccurred())
				return sim
			}
			withDrops, without := build(true), build(false)

			// 60 Hz virtual clock: the seventh tick passes 100ms.
			for i := 0; i < 6; i++ {
				withDrops.Step()
				without.Step()
			}
			Expect(withDrops.Grid().Equal(without.Grid())).To(BeTrue())

			withDrops.Step()
			without.Step()
			Expect(withDrops.Grid().Equal(without.Grid())).To(BeFalse())
		})
	})

	Describe("Tick", func() {
		It("renders frames of cols*res by rows*res with opaque alpha", func() {
			f, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Width).To(Equal(60))
			Expect(f.Height).To(Equal(45))
			for k := 3; k < len(f.Pix); k += 4 {
				Expect(f.Pix[k]).To(Equal(uint8(255)))
			}
		})

		It("presents to every surface", func() {
			a, b := &recordingSurface{}, &recordingSurface{}
			s.AddSurface(a)
			s.AddSurface(b)
			_, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(a.frames).To(Equal(1))
			Expect(b.frames).To(Equal(1))
		})

		It("wraps surface errors", func() {
			boom := errors.New("boom")
			s.AddSurface(&recordingSurface{err: boom})
			_, err := s.Tick()
			Expect(errors.Is(err, boom)).To(BeTrue())
		})

		It("does not step while paused but still renders", func() {
			s.Pause()
			before := s.Grid().Clone()
			f, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(f).NotTo(BeNil())
			Expect(s.Grid().Equal(before)).To(BeTrue())
			Expect(s.TickCount()).To(Equal(0))

			Expect(s.TogglePause()).To(BeFalse())
			_, err = s.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.TickCount()).To(Equal(1))
		})

		It("skips the whole tick when parameters are invalid", func() {
			s.params.Feed = math.NaN()
			before := s.Grid().Clone()
			f, err := s.Tick()
			Expect(f).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(s.Grid().Equal(before)).To(BeTrue())
		})

		It("keeps every concentration in [0,1]", func() {
			next := s.Params()
			next.DiffusionA, next.DiffusionB, next.TimeStep = 40, 60, 3
			Expect(s.SetParams(next)).To(Succeed())
			for i := 0; i < 30; i++ {
				_, err := s.Tick()
				Expect(err).NotTo(HaveOccurred())
			}
			for _, c := range s.Grid().Cells() {
				Expect(c.A).To(BeNumerically(">=", 0))
				Expect(c.A).To(BeNumerically("<=", 1))
				Expect(c.B).To(BeNumerically(">=", 0))
				Expect(c.B).To(BeNumerically("<=", 1))
			}
		})
	})

	Describe("visual controls", func() {
		It("cycles the render mode", func() {
			Expect(s.CycleMode()).To(Equal(dynamo.ModeSubtract))
			Expect(s.CycleMode()).To(Equal(dynamo.ModeA))
		})

		It("randomizes the palette through SetParams", func() {
			before := s.Params()
			s.RandomizePalette()
			Expect(s.Params().ColorB).NotTo(Equal(before.ColorB))
		})
	})

	Describe("Resize", func() {
		It("rebuilds only when the cell count changes", func() {
			s.Drop(2, 2, 1)
			Expect(s.Resize(61, 46)).To(Succeed())
			_, b := s.Grid().Get(2, 2)
			Expect(b).To(Equal(1.0))

			Expect(s.Resize(90, 90)).To(Succeed())
			cols, rows := s.Grid().Dimensions()
			Expect(cols).To(Equal(30))
			Expect(rows).To(Equal(30))
		})
	})

	Describe("Run", func() {
		It("samples statistics and reports metrics", func() {
			for _, m := range metrics.Default() {
				s.AddMetric(m)
			}
			res, err := s.Run(context.Background(), 25, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(25))
			Expect(res.Samples).To(HaveLen(4))
			Expect(res.Final().Tick).To(Equal(25))
			Expect(res.Metrics).To(HaveKey("coverage"))
			Expect(res.Metrics["mean_b"]).To(BeNumerically(">", 0))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, 100, 1)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Canceled).To(BeTrue())
			Expect(res.Ticks).To(Equal(0))
		})

		It("rejects non-positive tick counts", func() {
			_, err := s.Run(context.Background(), 0, 1)
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs jobs concurrently and matches a serial run", func() {
		opts := testOptions()
		opts.Clock = nil
		e := NewEnsemble(opts, 2)

		jobs := []Job{
			{Name: "coral", Params: dynamo.DefaultParams(), Preset: "coral", Ticks: 20},
			{Name: "maze", Params: dynamo.DefaultParams(), Preset: "maze", Ticks: 20},
			{Name: "plain", Params: dynamo.DefaultParams(), Ticks: 20},
		}
		results, err := e.Run(context.Background(), jobs, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[1].Preset).To(Equal("maze"))

		ref, err := New(dynamo.DefaultParams(), testOptions())
		Expect(err).NotTo(HaveOccurred())
		refRes, err := ref.Run(context.Background(), 20, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(results[2].Final()).To(Equal(refRes.Final()))
	})

	It("propagates errors from bad jobs", func() {
		e := NewEnsemble(testOptions(), 1)
		_, err := e.Run(context.Background(), []Job{{Name: "bad", Params: dynamo.DefaultParams(), Preset: "nope", Ticks: 5}}, 1)
		Expect(errors.Is(err, dynamo.ErrUnknownPreset)).To(BeTrue())
	})
})
