// Package dynamo provides the core simulation primitives for ODE systems.
//
// The package defines the interfaces and value types shared by the rest of
// the module:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator] and [AdaptiveIntegrator]: numerical steppers
//   - [Trajectory]: immutable sequence of states aligned with a time grid
//   - [TimeGrid]: linspace-style sample times over [0, duration]
//
// # Errors
//
// Configuration problems are reported as [*ConfigError] and match
// [ErrInvalidConfig] with errors.Is. Failures during integration are reported
// as [*SimulationError], which unwraps to [ErrInvalidState] or
// [ErrStepTooSmall].
package dynamo
