// Package handler implements the client-facing HTTP surface of the
// balancer: word-count submission and the operator cache-flush endpoint.
package handler
