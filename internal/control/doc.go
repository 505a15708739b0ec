// Package control sets the generator load in dynamic chain-speed mode.
//
//   - [Governor]: PID on chain speed, output is load in newtons (>= 0)
//   - [FreeWheel]: zero load
//
// # Usage
//
//	ctrl := control.New(control.Gains{Kp: 20000, Ki: 5000}, 0.3)
//	load := ctrl.Compute(dynamo.State{v}, t)[0]
package control
