package backend_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wcountd/load-balancer/internal/backend"
)

var _ = Describe("Registry", func() {
	var registry *backend.Registry

	BeforeEach(func() {
		registry = backend.NewRegistry([]*backend.Backend{
			backend.New("server1", mustParseURL("http://localhost:8081")),
			backend.New("server2", mustParseURL("http://localhost:8082")),
			backend.New("server3", mustParseURL("http://localhost:8083")),
		})
	})

	It("should list all backends in stable order", func() {
		names := backendNames(registry.List())
		Expect(names).To(Equal([]string{"server1", "server2", "server3"}))
		Expect(registry.Len()).To(Equal(3))
	})

	It("should never shrink when all backends are unhealthy", func() {
		registry.MarkUnhealthy("server1")
		registry.MarkUnhealthy("server2")
		registry.MarkUnhealthy("server3")

		Expect(registry.Healthy()).To(BeEmpty())
		Expect(registry.Len()).To(Equal(3))
		Expect(registry.List()).To(HaveLen(3))
	})

	Describe("Healthy", func() {
		It("should return healthy backends in list order", func() {
			registry.MarkUnhealthy("server2")

			names := backendNames(registry.Healthy())
			Expect(names).To(Equal([]string{"server1", "server3"}))
		})
	})

	Describe("health transitions", func() {
		It("should report state changes", func() {
			Expect(registry.MarkUnhealthy("server1")).To(BeTrue())
			Expect(registry.MarkUnhealthy("server1")).To(BeFalse())
			Expect(registry.MarkHealthy("server1")).To(BeTrue())
		})

		It("should ignore unknown backends", func() {
			Expect(registry.MarkUnhealthy("server9")).To(BeFalse())
			Expect(registry.MarkHealthy("server9")).To(BeFalse())
		})
	})

	Describe("load accounting", func() {
		It("should adjust the named backend's connection count", func() {
			registry.IncrementLoad("server2")
			registry.IncrementLoad("server2")
			registry.DecrementLoad("server2")

			b, ok := registry.Get("server2")
			Expect(ok).To(BeTrue())
			Expect(b.ActiveConnections()).To(Equal(1))
		})
	})
})

func backendNames(backends []*backend.Backend) []string {
	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, b.Name())
	}
	return names
}
