// Package physics holds the environment constants, the [Floater] record and
// the per-floater force model of the kinetic power plant.
//
// All force functions are pure:
//
//	fb := physics.BuoyantForce(1000, 0.04)          // 392.4 N
//	fd := physics.DragForce(1000, 0.8, 0.1, 0.3)     // opposes +v
//	fn := physics.NetVerticalForce(floater, 1000)    // positive = upward
//
// Direction is always explicit: buoyancy is returned positive and applied
// upward by the caller, drag carries the sign opposing the velocity.
package physics
