// Package physics implements the Gray-Scott reaction-diffusion engine.
//
// The package owns the numerical state and the operators that change it:
//
//   - [Grid]: two concentration buffers on a periodic cols x rows lattice
//   - [Stepper]: one explicit Euler step of the reaction-diffusion equations
//   - [Inject]: deposits chemical B inside a disk (a "drop")
//   - [Seed]: resets the grid and places the initial central drop
//
// # Update Rule
//
// The Laplacian uses a 3x3 stencil with weights -1 (center), 0.2 (orthogonal)
// and 0.05 (diagonal), wrapping at the edges. For each cell:
//
//	a' = a + (DA*(0.8/DT)*lapA - a*b*b + F*(1-a)) * DT
//	b' = b + (DB*(0.8/DT)*lapB + a*b*b - (K+F)*b) * DT
//
// Both results are clamped to [0, 1] and written to the next buffer; the
// buffers are swapped once the whole lattice has been updated.
//
// # Example
//
//	g := physics.NewGrid(200, 200)
//	physics.Seed(g)
//	st := physics.NewStepper(nil)
//	st.Step(g, physics.RatesFrom(dynamo.DefaultParams()))
package physics
