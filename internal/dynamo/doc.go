// Package dynamo provides the numeric primitives shared by the wheel simulator.
//
// The package is deliberately small and dependency free so that every other
// package can import it:
//
//   - angle helpers working in the canonical counter-clockwise frame
//     ([WrapAngle], [WrapDeg], [AngleDelta])
//   - [Source]: the random source injected into engines
//   - [State]: flat telemetry vector recorded by the runner
//   - [ParallelFor]: chunked worker helper used by ensembles
//
// # Example
//
//	src := dynamo.NewSeededSource(123)
//	d := dynamo.AngleDelta(0.01, 2*math.Pi-0.01) // +0.02, not -2π+0.02
//
// # Thread Safety
//
// Sources are NOT thread-safe. Each engine owns its own source; ensembles
// create one per run.
package dynamo
