// Package physics implements the roulette ball/rotor simulator.
//
// An [Engine] owns one spin from launch to pocket capture. Construction takes
// an immutable [layout.Layout] shared by all engines and a tuning
// [config.Config]; the caller then drives it frame by frame:
//
//	eng, _ := physics.New(layout.DefaultEuropean(), config.DefaultConfig(), physics.WithSeed(123))
//	eng.Launch(true)
//	for eng.Rolling() {
//	    eng.Step()
//	}
//	n := eng.ResultNumber()
//
// Step advances one fixed tick independent of wall-clock time, split into
// sub-steps that shrink near the pocket ring. Each sub-step runs, in order:
// rotor advance, tilt noise, angular friction, radial forces, radial
// integration against the table edge, ring walls, pocket grooves, mid-section
// wall relief, vertical bounce, angular integration, freeze and the stop test.
//
// Pockets ride on the rotor, so every pocket test works on the rotor-relative
// angle theta - rotor.
//
// # Thread Safety
//
// Engine methods must be called from one goroutine. SetConfig is the one
// exception: it may be called from any goroutine and takes effect at the
// start of the next Step.
package physics
