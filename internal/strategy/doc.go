// Package strategy defines the scheduling policy interface and implements
// the two supported algorithms:
//
//   - Round Robin: cyclic distribution across the configured backends
//   - Least Connections: routes to the healthy backend with the fewest
//     active connections, lowest registry index on ties
//
// The active strategy is fixed at startup; switching requires a restart.
package strategy
