package worker

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/history/inmemory"
	"github.com/papercomputeco/aiscore/pkg/logger"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

func testJob(score float64) Job {
	res := testutils.NewTestResult(detect.Sapling, score)
	return Job{Surface: "api", Result: res, StartedAt: res.Timestamp.Add(-400 * time.Millisecond)}
}

var _ = Describe("Worker Pool", func() {
	var (
		driver    *inmemory.Driver
		publisher *testutils.MockPublisher
		ctx       context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		publisher = &testutils.MockPublisher{}
		ctx = context.Background()
	})

	Describe("NewPool", func() {
		It("requires at least one sink", func() {
			_, err := NewPool(&Config{Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
		})

		It("applies defaults", func() {
			cfg := &Config{History: driver}
			wp, err := NewPool(cfg)
			Expect(err).NotTo(HaveOccurred())
			defer wp.Close()

			Expect(cfg.NumWorkers).To(Equal(defaultNumWorkers))
			Expect(cfg.QueueSize).To(Equal(defaultJobQueueSize))
		})
	})

	Describe("Enqueue", func() {
		It("stores a record and publishes an event", func() {
			wp, err := NewPool(&Config{History: driver, Publisher: publisher, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(testJob(0.8))).To(BeTrue())
			wp.Close()

			recs, err := driver.List(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].AIScore).To(Equal(0.8))
			Expect(recs[0].Duration).To(Equal(400 * time.Millisecond))

			events := publisher.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Source.Surface).To(Equal("api"))
			Expect(events[0].Source.Provider).To(Equal("sapling"))
		})

		It("rejects jobs without a result", func() {
			wp, err := NewPool(&Config{History: driver})
			Expect(err).NotTo(HaveOccurred())
			defer wp.Close()

			Expect(wp.Enqueue(Job{Surface: "cli"})).To(BeFalse())
		})

		It("drops jobs when the queue is full", func() {
			wp := &Pool{
				config: &Config{History: driver},
				queue:  make(chan Job, 1),
				logger: logger.Nop(),
			}

			Expect(wp.Enqueue(testJob(0.1))).To(BeTrue())
			Expect(wp.Enqueue(testJob(0.2))).To(BeFalse())
		})

		It("keeps publishing when the history store fails", func() {
			failing := &testutils.MockHistoryDriver{FailPut: true}
			wp, err := NewPool(&Config{History: failing, Publisher: publisher})
			Expect(err).NotTo(HaveOccurred())

			Expect(wp.Enqueue(testJob(0.5))).To(BeTrue())
			wp.Close()

			Expect(failing.Puts()).To(Equal(0))
			Expect(publisher.Events()).To(HaveLen(1))
		})

		It("drains every queued job on Close", func() {
			wp, err := NewPool(&Config{History: driver, NumWorkers: 3})
			Expect(err).NotTo(HaveOccurred())

			for range 25 {
				Expect(wp.Enqueue(testJob(0.3))).To(BeTrue())
			}
			wp.Close()

			recs, err := driver.List(ctx, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).To(HaveLen(25))
		})

		It("tolerates Close being called twice", func() {
			wp, err := NewPool(&Config{History: driver})
			Expect(err).NotTo(HaveOccurred())
			wp.Close()
			wp.Close()
		})
	})
})
