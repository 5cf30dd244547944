package spikegen

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	"github.com/DHRUVJ2003/brian2/metrics"
	"github.com/DHRUVJ2003/brian2/sim"
)

type recordingHook struct {
	ctxs []sim.HookCtx
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

func newTestRegistry() *sim.WarningRegistry {
	logger, _ := logrustest.NewNullLogger()
	return sim.NewWarningRegistry(logger)
}

var _ = Describe("Comp", func() {
	var (
		logHook  *logrustest.Hook
		registry *sim.WarningRegistry
		gen      *Comp
	)

	BeforeEach(func() {
		l, h := logrustest.NewNullLogger()
		logHook = h
		registry = sim.NewWarningRegistry(l)

		var err error
		gen, err = MakeBuilder().
			WithNeuronCount(5).
			WithDT(0.001).
			WithSpikes(
				[]int32{2, 0, 1},
				[]sim.VTimeInSec{0.003, 0.001, 0.002}).
			WithWarningRegistry(registry).
			Build("Gen")
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("SetSpikes", func() {
		It("should replace the schedule and discard the old one", func() {
			err := gen.SetSpikes(
				[]int32{4}, []sim.VTimeInSec{0.004}, NoPeriod, false)

			Expect(err).ToNot(HaveOccurred())
			Expect(gen.NumSpikes()).To(Equal(1))
			Expect(gen.NeuronIndex()).To(Equal([]int32{4}))
			Expect(gen.SpikeTime()).To(Equal([]sim.VTimeInSec{0.004}))
			Expect(gen.SpikeNumber()).To(Equal([]int32{0}))
		})

		It("should sort the new spikes by time, then neuron", func() {
			err := gen.SetSpikes(
				[]int32{3, 1, 2},
				[]sim.VTimeInSec{0.002, 0.002, 0.001},
				NoPeriod, false)

			Expect(err).ToNot(HaveOccurred())
			Expect(gen.NeuronIndex()).To(Equal([]int32{2, 1, 3}))
			Expect(gen.SpikeTime()).To(Equal(
				[]sim.VTimeInSec{0.001, 0.002, 0.002}))
		})

		It("should validate against the existing neuron count", func() {
			err := gen.SetSpikes(
				[]int32{9}, []sim.VTimeInSec{0.001}, NoPeriod, false)

			var aErr *ArgumentError
			Expect(errors.As(err, &aErr)).To(BeTrue())
			Expect(aErr.Reason).To(ContainSubstring("[0, 5)"))
		})

		It("should leave the schedule unchanged when validation fails", func() {
			err := gen.SetSpikes(
				[]int32{9}, []sim.VTimeInSec{0.001}, NoPeriod, false)

			Expect(err).To(HaveOccurred())
			Expect(gen.NumSpikes()).To(Equal(3))
			Expect(gen.NeuronIndex()).To(Equal([]int32{0, 1, 2}))
			Expect(gen.SpikeTime()).To(Equal(
				[]sim.VTimeInSec{0.001, 0.002, 0.003}))
		})

		It("should draw a fresh schedule identity", func() {
			before := gen.ScheduleID()

			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.001}, NoPeriod, false)

			Expect(err).ToNot(HaveOccurred())
			Expect(gen.ScheduleID()).ToNot(Equal(before))
		})

		It("should not touch the cursor until the next run start", func() {
			gen.Clock().SetTime(0.01)
			Expect(gen.BeforeRun()).To(Succeed())
			Expect(gen.Cursor()).To(Equal(3))

			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.02}, NoPeriod, false)

			Expect(err).ToNot(HaveOccurred())
			Expect(gen.Cursor()).To(Equal(3))

			Expect(gen.BeforeRun()).To(Succeed())
			Expect(gen.Cursor()).To(Equal(0))
		})

		It("should invoke the schedule-replaced hook", func() {
			hook := &recordingHook{}
			gen.AcceptHook(hook)

			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.004}, NoPeriod, false)

			Expect(err).ToNot(HaveOccurred())
			Expect(hook.ctxs).To(HaveLen(1))
			Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(HookPosScheduleReplaced))

			update := hook.ctxs[0].Item.(ScheduleUpdate)
			Expect(update.NumSpikes).To(Equal(1))
			Expect(update.ScheduleID).To(Equal(gen.ScheduleID()))
		})
	})

	Describe("BeforeRun", func() {
		It("should pass a clean schedule at time zero", func() {
			Expect(gen.BeforeRun()).To(Succeed())
			Expect(gen.Cursor()).To(Equal(0))
			Expect(logHook.Entries).To(BeEmpty())
		})

		It("should skip spikes before the run start and warn once", func() {
			gen.Clock().SetTime(0.01)

			Expect(gen.BeforeRun()).To(Succeed())

			Expect(gen.Cursor()).To(Equal(3))
			Expect(logHook.Entries).To(HaveLen(1))
			Expect(logHook.LastEntry().Message).To(ContainSubstring(
				"3 spike times earlier"))
			Expect(logHook.LastEntry().Message).To(ContainSubstring(
				"t = 0.01s"))
		})

		It("should place the cursor on the first due spike", func() {
			gen.Clock().SetTime(0.0025)

			Expect(gen.BeforeRun()).To(Succeed())

			Expect(gen.Cursor()).To(Equal(1))
			Expect(logHook.Entries).To(HaveLen(1))
		})

		It("should not move the cursor when the schedule is clean", func() {
			Expect(gen.BeforeRun()).To(Succeed())

			gen.Clock().SetTime(0.01)

			Expect(gen.BeforeRun()).To(Succeed())
			Expect(gen.Cursor()).To(Equal(0))
			Expect(logHook.Entries).To(BeEmpty())
		})

		It("should reject same-neuron spikes in one bin", func() {
			err := gen.SetSpikes(
				[]int32{0, 0},
				[]sim.VTimeInSec{0.0005, 0.0007},
				NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())

			err = gen.BeforeRun()

			var cErr *CollisionError
			Expect(errors.As(err, &cErr)).To(BeTrue())
			Expect(cErr.Neuron).To(Equal(int32(0)))
			Expect(cErr.Bin).To(Equal(int64(0)))
			Expect(cErr.DT).To(BeNumerically("==", 0.001))
			Expect(err.Error()).To(ContainSubstring(
				"spikes more than once during a time step"))
		})

		It("should allow different neurons in one bin", func() {
			err := gen.SetSpikes(
				[]int32{0, 1},
				[]sim.VTimeInSec{0.0005, 0.0007},
				NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())

			Expect(gen.BeforeRun()).To(Succeed())
		})

		It("should re-scan for collisions when dt changes", func() {
			err := gen.SetSpikes(
				[]int32{0, 0},
				[]sim.VTimeInSec{0.0005, 0.0015},
				NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())
			Expect(gen.BeforeRun()).To(Succeed())

			gen.Clock().SetDT(0.002)

			err = gen.BeforeRun()

			var cErr *CollisionError
			Expect(errors.As(err, &cErr)).To(BeTrue())
		})

		It("should reject a period smaller than dt", func() {
			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.0001}, 0.0005, false)
			Expect(err).ToNot(HaveOccurred())

			err = gen.BeforeRun()

			var pErr *PeriodAlignmentError
			Expect(errors.As(err, &pErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("smaller than its dt"))
		})

		It("should reject a period misaligned with dt", func() {
			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.001}, 0.0025, false)
			Expect(err).ToNot(HaveOccurred())

			err = gen.BeforeRun()

			var pErr *PeriodAlignmentError
			Expect(errors.As(err, &pErr)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(
				"not an integer multiple of its dt"))
		})

		It("should accept a period equal to dt", func() {
			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.0005}, 0.001, false)
			Expect(err).ToNot(HaveOccurred())

			Expect(gen.BeforeRun()).To(Succeed())
		})

		It("should accept a period that is a whole number of bins", func() {
			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.001}, 0.002, false)
			Expect(err).ToNot(HaveOccurred())

			Expect(gen.BeforeRun()).To(Succeed())
		})

		It("should keep the known blind spot below two bins", func() {
			// A period between dt and 2*dt maps to a single bin, and
			// every bin count is divisible by one, so the sampled check
			// cannot see the misalignment. Documented limitation.
			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.0005}, 0.0015, false)
			Expect(err).ToNot(HaveOccurred())

			Expect(gen.BeforeRun()).To(Succeed())
		})

		It("should check the period even when nothing changed", func() {
			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.001}, 0.004, false)
			Expect(err).ToNot(HaveOccurred())
			Expect(gen.BeforeRun()).To(Succeed())

			gen.Clock().SetDT(0.005)

			err = gen.BeforeRun()

			var pErr *PeriodAlignmentError
			Expect(errors.As(err, &pErr)).To(BeTrue())
		})

		It("should reject a zero period at run start", func() {
			empty, err := MakeBuilder().
				WithNeuronCount(2).
				WithDT(0.001).
				WithPeriod(0).
				Build("GenZ")
			Expect(err).ToNot(HaveOccurred())

			err = empty.BeforeRun()

			var pErr *PeriodAlignmentError
			Expect(errors.As(err, &pErr)).To(BeTrue())
		})

		It("should warn once per schedule across failing runs", func() {
			err := gen.SetSpikes(
				[]int32{0, 0},
				[]sim.VTimeInSec{0.0005, 0.0007},
				NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())
			gen.Clock().SetTime(0.01)

			Expect(gen.BeforeRun()).ToNot(Succeed())
			Expect(gen.BeforeRun()).ToNot(Succeed())

			Expect(logHook.Entries).To(HaveLen(1))
		})

		It("should warn again after the schedule is replaced", func() {
			gen.Clock().SetTime(0.01)
			Expect(gen.BeforeRun()).To(Succeed())
			Expect(logHook.Entries).To(HaveLen(1))

			err := gen.SetSpikes(
				[]int32{0}, []sim.VTimeInSec{0.001}, NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())

			Expect(gen.BeforeRun()).To(Succeed())
			Expect(logHook.Entries).To(HaveLen(2))
		})

		It("should invoke the run-start hook", func() {
			hook := &recordingHook{}
			gen.AcceptHook(hook)
			gen.Clock().SetTime(0.0025)

			Expect(gen.BeforeRun()).To(Succeed())

			Expect(hook.ctxs).To(HaveLen(1))
			Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(HookPosRunStart))

			start := hook.ctxs[0].Item.(RunStart)
			Expect(start.Cursor).To(Equal(1))
			Expect(start.Skipped).To(Equal(1))
			Expect(start.DT).To(BeNumerically("==", 0.001))
		})
	})

	Describe("cursor and spike space", func() {
		It("should let the runtime advance the cursor", func() {
			gen.SetCursor(2)
			Expect(gen.Cursor()).To(Equal(2))

			gen.SetCursor(gen.NumSpikes())
			Expect(gen.Cursor()).To(Equal(3))
		})

		It("should panic on a cursor outside [0, NumSpikes]", func() {
			Expect(func() { gen.SetCursor(-1) }).To(Panic())
			Expect(func() { gen.SetCursor(4) }).To(Panic())
		})

		It("should expose the filled prefix of the spike space", func() {
			space := gen.SpikeSpace()
			Expect(space).To(HaveLen(6))

			space[0] = 1
			space[1] = 3
			space[5] = 2

			Expect(gen.Spikes()).To(Equal([]int32{1, 3}))
		})
	})

	Describe("metrics", func() {
		var (
			ctrl *gomock.Controller
			sink *MockSink
			mGen *Comp
		)

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			sink = NewMockSink(ctrl)

			var err error
			mGen, err = MakeBuilder().
				WithNeuronCount(5).
				WithDT(0.001).
				WithSpikes([]int32{0}, []sim.VTimeInSec{0.001}).
				WithWarningRegistry(newTestRegistry()).
				WithMetricsSink(sink).
				Build("GenM")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should count a completed run start", func() {
			sink.EXPECT().RunStarted()

			Expect(mGen.BeforeRun()).To(Succeed())
		})

		It("should count skipped spikes", func() {
			mGen.Clock().SetTime(0.01)

			sink.EXPECT().RunStarted()
			sink.EXPECT().SpikesSkipped(1)

			Expect(mGen.BeforeRun()).To(Succeed())
		})

		It("should count schedule replacements", func() {
			sink.EXPECT().ScheduleReplaced(2)

			err := mGen.SetSpikes(
				[]int32{0, 1},
				[]sim.VTimeInSec{0.001, 0.002},
				NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should count failed argument validation", func() {
			sink.EXPECT().ValidationFailed(metrics.KindArgument)

			err := mGen.SetSpikes(
				[]int32{9}, []sim.VTimeInSec{0.001}, NoPeriod, false)
			Expect(err).To(HaveOccurred())
		})

		It("should count failed collision scans", func() {
			sink.EXPECT().ScheduleReplaced(2)
			err := mGen.SetSpikes(
				[]int32{0, 0},
				[]sim.VTimeInSec{0.0005, 0.0007},
				NoPeriod, false)
			Expect(err).ToNot(HaveOccurred())

			sink.EXPECT().ValidationFailed(metrics.KindCollision)

			Expect(mGen.BeforeRun()).ToNot(Succeed())
		})
	})
})
