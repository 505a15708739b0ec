// Package analysis inspects the time series of a finished run.
//
//   - [TorqueSpectrum]: frequency content of the sprocket torque; the
//     dominant line is the injection rate
//   - [NewPortrait]: pairs two series for a scatter view, e.g. torque
//     against chain speed in dynamic mode
//
// # Example
//
//	spec, err := analysis.TorqueSpectrum(result.Series.NetTorque, result.Dt)
//	fmt.Printf("pulse rate %.3f Hz\n", spec.DominantFrequency)
package analysis
