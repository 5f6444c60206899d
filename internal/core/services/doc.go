// Package services implements the driving port interfaces.
// Services contain the core clustering logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO dependencies. The whole pipeline is
// synchronous: each stage's output is the next stage's only input.
package services
