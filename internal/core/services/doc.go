// Package services implements the driving port interfaces.
// Services contain the core search logic and orchestrate
// calls to driven ports (adapters).
//
// The enrichment fan-out is bounded with errgroup and queries are checked
// with validator struct tags; the services never talk HTTP themselves.
package services
