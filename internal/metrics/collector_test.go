package metrics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wcountd/load-balancer/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		collector = metrics.NewCollector(64, log)
		ctx, cancel = context.WithCancel(context.Background())
		collector.Start(ctx)
	})

	AfterEach(func() {
		cancel()
	})

	It("should process emitted events asynchronously", func() {
		collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Timestamp: time.Now()})
		collector.Emit(metrics.MetricEvent{Type: metrics.EventCacheHit, Timestamp: time.Now()})
		collector.Emit(metrics.MetricEvent{Type: metrics.EventBackendSelected, Timestamp: time.Now(), Backend: "server1"})

		Eventually(func() int64 {
			return collector.Snapshot("round-robin").TotalRequests
		}).Should(Equal(int64(1)))

		Eventually(func() int64 {
			return collector.Snapshot("round-robin").CacheHits
		}).Should(Equal(int64(1)))

		Eventually(func() int64 {
			return collector.Snapshot("round-robin").Backends["server1"].Selections
		}).Should(Equal(int64(1)))
	})

	It("should record health transitions", func() {
		collector.Emit(metrics.MetricEvent{Type: metrics.EventHealthChanged, Backend: "server2", Healthy: false})

		Eventually(func() bool {
			snap := collector.Snapshot("round-robin")
			bm, ok := snap.Backends["server2"]
			return ok && !bm.Healthy
		}).Should(BeTrue())
	})

	It("should not block the caller when the buffer is full", func() {
		small := metrics.NewCollector(1, slog.New(slog.NewTextHandler(os.Stdout, nil)))
		// Collector not started: the buffer fills and further emits drop.
		for i := 0; i < 10; i++ {
			small.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived})
		}
	})
})
