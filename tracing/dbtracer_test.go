package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	"go.uber.org/mock/gomock"

	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/DHRUVJ2003/brian2/spikegen"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		recorder   *MockDataRecorder
		tracer     *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		recorder = NewMockDataRecorder(mockCtrl)

		recorder.EXPECT().CreateTable("spike_schedules", gomock.Any())
		recorder.EXPECT().CreateTable("run_starts", gomock.Any())

		tracer = NewDBTracer(timeTeller, recorder)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record schedule replacements with the simulated time", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(0.002))
		recorder.EXPECT().InsertData("spike_schedules", scheduleTableEntry{
			ScheduleID: "sched-1",
			Generator:  "Gen",
			NumSpikes:  3,
			Period:     0.01,
			ReplacedAt: 0.002,
		})

		tracer.ScheduleReplaced("Gen", spikegen.ScheduleUpdate{
			ScheduleID: "sched-1",
			NumSpikes:  3,
			Period:     0.01,
		})
	})

	It("should record run starts", func() {
		recorder.EXPECT().InsertData("run_starts", runStartTableEntry{
			ScheduleID: "sched-1",
			Generator:  "Gen",
			Now:        0.01,
			DT:         0.001,
			Cursor:     2,
			Skipped:    2,
		})

		tracer.RunStarted("Gen", spikegen.RunStart{
			ScheduleID: "sched-1",
			Now:        0.01,
			DT:         0.001,
			Cursor:     2,
			Skipped:    2,
		})
	})
})
