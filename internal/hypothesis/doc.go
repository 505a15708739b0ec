// Package hypothesis implements the three experimental effects layered on
// top of the baseline force model.
//
//   - H1 ([ApplyH1]): nanobubble void fraction lowers the density and drag
//     of the water on the descending side.
//   - H2 ([IsothermalEnergyIdeal] and friends): heat drawn from the water
//     while injected air expands on the way up, expressed as an average
//     extra upward force.
//   - H3 ([TotalInjectionPulse]): the torque surge at the moment of air
//     injection, a buoyancy step plus the reaction of the expelled jet.
//
// Every function is pure and rejects contract violations with a
// *simerr.ConfigError instead of returning a non-physical number.
package hypothesis
