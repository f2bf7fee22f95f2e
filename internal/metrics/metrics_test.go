package metrics_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wcountd/load-balancer/internal/metrics"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	It("should count requests and cache activity", func() {
		m.IncrementRequests()
		m.IncrementRequests()
		m.IncrementCacheHits()
		m.IncrementCacheMisses()

		snap := m.Snapshot("round-robin")
		Expect(snap.TotalRequests).To(Equal(int64(2)))
		Expect(snap.CacheHits).To(Equal(int64(1)))
		Expect(snap.CacheMisses).To(Equal(int64(1)))
		Expect(snap.Algorithm).To(Equal("round-robin"))
	})

	It("should aggregate per-backend counters", func() {
		m.RecordBackendSelection("server1")
		m.RecordBackendSelection("server1")
		m.IncrementFailovers("server1")
		m.UpdateHealthStatus("server1", false)

		snap := m.Snapshot("least-connections")
		Expect(snap.Backends).To(HaveKey("server1"))
		Expect(snap.Backends["server1"].Selections).To(Equal(int64(2)))
		Expect(snap.Backends["server1"].Failovers).To(Equal(int64(1)))
		Expect(snap.Backends["server1"].Healthy).To(BeFalse())
	})

	It("should compute response percentiles and status codes", func() {
		for i := 1; i <= 100; i++ {
			m.RecordResponse("server1", time.Duration(i)*time.Millisecond, 200)
		}
		m.RecordResponse("server1", time.Second, 502)

		snap := m.Snapshot("round-robin")
		bm := snap.Backends["server1"]
		Expect(bm.P50Response).To(BeNumerically(">", 0))
		Expect(bm.P99Response).To(BeNumerically(">=", bm.P50Response))
		Expect(bm.StatusCodes[200]).To(Equal(int64(100)))
		Expect(bm.StatusCodes[502]).To(Equal(int64(1)))
	})
})
