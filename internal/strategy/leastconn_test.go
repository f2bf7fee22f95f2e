package strategy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wcountd/load-balancer/internal/backend"
	"github.com/wcountd/load-balancer/internal/strategy"
)

var _ = Describe("Leastconn", func() {
	var (
		strat    strategy.Strategy
		backends []*backend.Backend
	)

	BeforeEach(func() {
		strat = strategy.NewLeastConnStrategy()

		backends = []*backend.Backend{
			backend.New("server1", mustParseURL("http://localhost:8081")),
			backend.New("server2", mustParseURL("http://localhost:8082")),
			backend.New("server3", mustParseURL("http://localhost:8083")),
		}
	})

	Describe("SelectBackend", func() {
		It("should select the backend with the fewest active connections", func() {
			backends[0].IncrementConn()
			backends[0].IncrementConn()
			backends[2].IncrementConn()

			Expect(strat.SelectBackend(backends)).To(Equal(backends[1]))
		})

		It("should prefer an idle backend over a loaded one", func() {
			backends[0].IncrementConn()
			backends[0].IncrementConn()

			Expect(strat.SelectBackend(backends)).To(Equal(backends[1]))
		})

		It("should break ties by lowest registry index", func() {
			Expect(strat.SelectBackend(backends)).To(Equal(backends[0]))

			backends[0].IncrementConn()
			backends[1].IncrementConn()
			backends[2].IncrementConn()

			Expect(strat.SelectBackend(backends)).To(Equal(backends[0]))
		})

		It("should skip unhealthy backends", func() {
			backends[0].SetHealthy(false)
			backends[1].IncrementConn()
			backends[1].IncrementConn()

			Expect(strat.SelectBackend(backends)).To(Equal(backends[2]))
		})

		It("should return nil when no backend is healthy", func() {
			for _, b := range backends {
				b.SetHealthy(false)
			}
			Expect(strat.SelectBackend(backends)).To(BeNil())
		})

		It("should return nil for an empty backend list", func() {
			Expect(strat.SelectBackend([]*backend.Backend{})).To(BeNil())
		})

		It("should track reservations made between selections", func() {
			first := strat.SelectBackend(backends)
			first.IncrementConn()

			second := strat.SelectBackend(backends)
			Expect(second).NotTo(Equal(first))
		})
	})
})
