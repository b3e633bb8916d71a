// Package physics provides the dynamical model simulated by pendsim.
//
// [Pendulum] implements [dynamo.System], reducing the second-order equation
// theta'' = -(g/L) sin(theta) to the first-order system (theta, omega).
// It also implements [dynamo.Hamiltonian] and [dynamo.Configurable]:
//
//	p := physics.NewPendulum()
//	if h, ok := dynamo.System(p).(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
