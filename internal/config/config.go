package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kppsim/internal/physics"
)

const (
	DefaultFloaterCount     = 40
	DefaultVolume           = 0.04
	DefaultShellMass        = 5.0
	DefaultArea             = 0.1
	DefaultDragCoefficient  = 0.8
	DefaultSprocketRadius   = 1.0
	DefaultChainSpeed       = 0.3
	DefaultEfficiency       = 0.9
	DefaultFillTime         = 0.5
	DefaultVentTime         = 0.5
	DefaultCompressorEff    = 0.85
	DefaultJetVelocity      = 2.0
	DefaultDt               = 0.05
	DefaultNumCycles        = 1
	DefaultVoidFraction     = 0.2
	DefaultDragReduction    = 0.1
	DefaultHeatExchangeRate = 1.0

	// MaxFloaters and MaxSteps bound the work and memory of a single run.
	MaxFloaters = 1000
	MaxSteps    = 2_000_000
)

// Params is the complete configuration of one run. It is treated as
// read-only once validated; every run gets its own copy.
type Params struct {
	Floater     FloaterConfig     `yaml:"floater" json:"floater"`
	Environment EnvironmentConfig `yaml:"environment" json:"environment"`
	Drivetrain  DrivetrainConfig  `yaml:"drivetrain" json:"drivetrain"`
	Injection   InjectionConfig   `yaml:"injection" json:"injection"`
	H1          H1Config          `yaml:"h1" json:"h1"`
	H2          H2Config          `yaml:"h2" json:"h2"`
	H3          H3Config          `yaml:"h3" json:"h3"`
	Simulation  SimulationConfig  `yaml:"simulation" json:"simulation"`
}

type FloaterConfig struct {
	Count            int     `yaml:"count" json:"count"`
	Volume           float64 `yaml:"volume" json:"volume"`                         // m³
	ShellMass        float64 `yaml:"shell_mass" json:"shell_mass"`                 // kg
	CrossSectionArea float64 `yaml:"cross_section_area" json:"cross_section_area"` // m²
	DragCoefficient  float64 `yaml:"drag_coefficient" json:"drag_coefficient"`
}

type EnvironmentConfig struct {
	ColumnHeight     float64 `yaml:"column_height" json:"column_height"` // fixed at 20 m
	WaterDensity     float64 `yaml:"water_density" json:"water_density"`
	AirDensity       float64 `yaml:"air_density" json:"air_density"`
	WaterTemperature float64 `yaml:"water_temperature" json:"water_temperature"` // K
}

type DrivetrainConfig struct {
	SprocketRadius       float64 `yaml:"sprocket_radius" json:"sprocket_radius"`
	ChainSpeed           float64 `yaml:"chain_speed" json:"chain_speed"` // fixed speed, or target in dynamic mode
	GearboxEfficiency    float64 `yaml:"gearbox_efficiency" json:"gearbox_efficiency"`
	ClutchEfficiency     float64 `yaml:"clutch_efficiency" json:"clutch_efficiency"`
	FlywheelEfficiency   float64 `yaml:"flywheel_efficiency" json:"flywheel_efficiency"`
	GeneratorEfficiency  float64 `yaml:"generator_efficiency" json:"generator_efficiency"`
	FlywheelTimeConstant float64 `yaml:"flywheel_time_constant" json:"flywheel_time_constant"` // s
	FlywheelInertia      float64 `yaml:"flywheel_inertia" json:"flywheel_inertia"`             // kg·m², dynamic mode
}

type InjectionConfig struct {
	FillTime             float64 `yaml:"fill_time" json:"fill_time"`
	VentTime             float64 `yaml:"vent_time" json:"vent_time"`
	AirVolume            float64 `yaml:"air_volume" json:"air_volume"` // 0 = floater volume
	Pressure             float64 `yaml:"pressure" json:"pressure"`     // 0 = bottom hydrostatic pressure
	CompressorEfficiency float64 `yaml:"compressor_efficiency" json:"compressor_efficiency"`
	Compression          string  `yaml:"compression" json:"compression"` // isothermal | adiabatic
	HeatCapacityRatio    float64 `yaml:"heat_capacity_ratio" json:"heat_capacity_ratio"`
}

type H1Config struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	VoidFraction  float64 `yaml:"void_fraction" json:"void_fraction"`
	DragReduction float64 `yaml:"drag_reduction" json:"drag_reduction"`
}

type H2Config struct {
	Enabled                bool    `yaml:"enabled" json:"enabled"`
	HeatExchangeEfficiency float64 `yaml:"heat_exchange_efficiency" json:"heat_exchange_efficiency"`
	ReservoirMass          float64 `yaml:"reservoir_mass" json:"reservoir_mass"` // kg of water, 0 = infinite
}

type H3Config struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	JetVelocity float64 `yaml:"jet_velocity" json:"jet_velocity"`
}

type SimulationConfig struct {
	Dt         float64          `yaml:"dt" json:"dt"`
	NumCycles  int              `yaml:"num_cycles" json:"num_cycles"`
	SpeedMode  string           `yaml:"speed_mode" json:"speed_mode"` // fixed | dynamic
	Integrator string           `yaml:"integrator" json:"integrator"`
	Controller ControllerConfig `yaml:"controller" json:"controller"`
}

// ControllerConfig holds the generator-load PID gains used in dynamic mode.
type ControllerConfig struct {
	Kp float64 `yaml:"kp" json:"kp"`
	Ki float64 `yaml:"ki" json:"ki"`
	Kd float64 `yaml:"kd" json:"kd"`
}

const (
	SpeedFixed   = "fixed"
	SpeedDynamic = "dynamic"

	CompressionIsothermal = "isothermal"
	CompressionAdiabatic  = "adiabatic"
)

// Default returns the baseline plant with every hypothesis disabled.
func Default() Params {
	return Params{
		Floater: FloaterConfig{
			Count:            DefaultFloaterCount,
			Volume:           DefaultVolume,
			ShellMass:        DefaultShellMass,
			CrossSectionArea: DefaultArea,
			DragCoefficient:  DefaultDragCoefficient,
		},
		Environment: EnvironmentConfig{
			ColumnHeight:     physics.ColumnHeight,
			WaterDensity:     physics.WaterDensity,
			AirDensity:       physics.AirDensity,
			WaterTemperature: physics.ReferenceWaterTemp,
		},
		Drivetrain: DrivetrainConfig{
			SprocketRadius:      DefaultSprocketRadius,
			ChainSpeed:          DefaultChainSpeed,
			GearboxEfficiency:   DefaultEfficiency,
			ClutchEfficiency:    DefaultEfficiency,
			FlywheelEfficiency:  DefaultEfficiency,
			GeneratorEfficiency: DefaultEfficiency,
		},
		Injection: InjectionConfig{
			FillTime:             DefaultFillTime,
			VentTime:             DefaultVentTime,
			CompressorEfficiency: DefaultCompressorEff,
			Compression:          CompressionIsothermal,
			HeatCapacityRatio:    1.4,
		},
		H1: H1Config{VoidFraction: DefaultVoidFraction, DragReduction: DefaultDragReduction},
		H2: H2Config{HeatExchangeEfficiency: DefaultHeatExchangeRate},
		H3: H3Config{JetVelocity: DefaultJetVelocity},
		Simulation: SimulationConfig{
			Dt:         DefaultDt,
			NumCycles:  DefaultNumCycles,
			SpeedMode:  SpeedFixed,
			Integrator: "rk4",
			Controller: ControllerConfig{Kp: 20000, Ki: 5000, Kd: 0},
		},
	}
}

// Load overlays the YAML file at path on Default.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

func Save(path string, p Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AirVolume is the volume of air injected per floater at bottom pressure.
func (p Params) AirVolume() float64 {
	if p.Injection.AirVolume > 0 {
		return p.Injection.AirVolume
	}
	return p.Floater.Volume
}

// BottomPressure is the absolute pressure at the injection point.
func (p Params) BottomPressure() float64 {
	return physics.HydrostaticPressure(p.Environment.WaterDensity, p.Environment.ColumnHeight)
}

// InjectionPressure is the compressor delivery pressure.
func (p Params) InjectionPressure() float64 {
	if p.Injection.Pressure > 0 {
		return p.Injection.Pressure
	}
	return p.BottomPressure()
}

// Period is the nominal time for one floater to complete a cycle at the
// configured chain speed.
func (p Params) Period() float64 {
	travel := 2 * p.Environment.ColumnHeight / p.Drivetrain.ChainSpeed
	return travel + p.Injection.FillTime + p.Injection.VentTime
}
