package physics

const (
	Gravity             = 9.81     // m/s²
	AtmosphericPressure = 101325.0 // Pa
	WaterDensity        = 1000.0   // kg/m³
	AirDensity          = 1.225    // kg/m³
	GasConstant         = 8.314    // J/(mol·K)
	WaterSpecificHeat   = 4186.0   // J/(kg·K)
	AirHeatCapacity     = 1.4      // γ for dry air
	ReferenceWaterTemp  = 293.15   // K

	// ColumnHeight is the fixed height of the water column the floaters
	// travel through.
	ColumnHeight = 20.0 // m
)

// HydrostaticPressure is the absolute pressure at depth below the free
// surface of a fluid with density rho.
func HydrostaticPressure(rho, depth float64) float64 {
	return AtmosphericPressure + rho*Gravity*depth
}
