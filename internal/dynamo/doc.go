// Package dynamo provides the core value types shared by the reaction-diffusion engine.
//
// The package defines the parameter set read by every tick of the simulation:
//
//   - [Params]: diffusion rates, feed/kill rates, time step, grid resolution
//     and the visual settings used by the color mapper
//   - [Mode]: which chemical the renderer shows (A, B, blend, subtract)
//   - [RGB]: an 8-bit color triple
//
// # Validation
//
// [Params.Validate] reports the first violated bound as a [*ParamError]
// wrapping one of the package sentinel errors, so callers can test with
// errors.Is:
//
//	p := dynamo.DefaultParams()
//	p.Feed = 2
//	if err := p.Validate(); errors.Is(err, dynamo.ErrParameterBounds) {
//		// reject the whole update
//	}
//
// # Thread Safety
//
// Params is a plain value. Copy it freely; nothing in this package holds state.
package dynamo
