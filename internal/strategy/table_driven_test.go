package strategy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wcountd/load-balancer/internal/backend"
	"github.com/wcountd/load-balancer/internal/strategy"
)

var _ = Describe("Table-Driven Strategy Tests", func() {
	newBackends := func() []*backend.Backend {
		return []*backend.Backend{
			backend.New("server1", mustParseURL("http://localhost:8081")),
			backend.New("server2", mustParseURL("http://localhost:8082")),
			backend.New("server3", mustParseURL("http://localhost:8083")),
		}
	}

	DescribeTable("All strategies can be instantiated",
		func(createStrat func() strategy.Strategy) {
			Expect(createStrat()).NotTo(BeNil())
		},
		Entry("Round Robin", func() strategy.Strategy { return strategy.NewRoundRobinStrategy() }),
		Entry("Least Connections", func() strategy.Strategy { return strategy.NewLeastConnStrategy() }),
	)

	DescribeTable("All strategies select from healthy backends only",
		func(createStrat func() strategy.Strategy) {
			strat := createStrat()
			backends := newBackends()
			backends[0].SetHealthy(false)

			for i := 0; i < 20; i++ {
				selected := strat.SelectBackend(backends)
				Expect(selected).NotTo(BeNil())
				Expect(selected).NotTo(Equal(backends[0]))
			}
		},
		Entry("Round Robin", func() strategy.Strategy { return strategy.NewRoundRobinStrategy() }),
		Entry("Least Connections", func() strategy.Strategy { return strategy.NewLeastConnStrategy() }),
	)

	DescribeTable("All strategies stop selecting a demoted backend until it recovers",
		func(createStrat func() strategy.Strategy) {
			strat := createStrat()
			backends := newBackends()

			backends[1].SetHealthy(false)
			for i := 0; i < 12; i++ {
				selected := strat.SelectBackend(backends)
				Expect(selected).NotTo(Equal(backends[1]))
				selected.IncrementConn()
			}

			backends[1].SetHealthy(true)
			seen := make(map[string]bool)
			for i := 0; i < 12; i++ {
				selected := strat.SelectBackend(backends)
				seen[selected.Name()] = true
				selected.IncrementConn()
			}
			Expect(seen).To(HaveKey("server2"))
		},
		Entry("Round Robin", func() strategy.Strategy { return strategy.NewRoundRobinStrategy() }),
		Entry("Least Connections", func() strategy.Strategy { return strategy.NewLeastConnStrategy() }),
	)
})
