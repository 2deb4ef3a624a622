// Package analysis turns a component graph into position classifications,
// network diagnostics, aggregate metrics and strategic recommendations.
//
// The engine is a pure function of its input: it keeps no state between
// calls, never mutates the caller's slices and never returns an error.
package analysis

const (
	DefaultGenesisLimit = 0.25
	DefaultCustomLimit  = 0.5
	DefaultProductLimit = 0.75

	DefaultLowValueLimit    = 0.25
	DefaultMediumValueLimit = 0.75

	DefaultStrategicValue     = 0.7
	DefaultStrategicEvolution = 0.5
	DefaultClusterValue       = 0.75
	DefaultHighValue          = 0.75

	DefaultBottleneckReport = 0.1
	DefaultBottleneckRule   = 0.5
	DefaultDependencyDegree = 2
	DefaultTopN             = 3

	DefaultDamping       = 0.85
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
)

// Thresholds holds every boundary the engine compares against. It is passed
// by value, so an Engine never observes later changes made by its caller.
type Thresholds struct {
	// Upper bounds (exclusive) of the first three evolution stages.
	GenesisLimit float64 `mapstructure:"genesis_limit"`
	CustomLimit  float64 `mapstructure:"custom_limit"`
	ProductLimit float64 `mapstructure:"product_limit"`

	LowValueLimit    float64 `mapstructure:"low_value_limit"`
	MediumValueLimit float64 `mapstructure:"medium_value_limit"`

	// Classifier: strategic when y > StrategicValue and x < StrategicEvolution.
	StrategicValue     float64 `mapstructure:"strategic_value"`
	StrategicEvolution float64 `mapstructure:"strategic_evolution"`
	// Clustering uses its own, stricter value threshold.
	ClusterValue float64 `mapstructure:"cluster_value"`
	// Value above which the invest/outsource rules apply.
	HighValue float64 `mapstructure:"high_value"`

	BottleneckReport float64 `mapstructure:"bottleneck_report"`
	BottleneckRule   float64 `mapstructure:"bottleneck_rule"`
	DependencyDegree int     `mapstructure:"dependency_degree"`
	TopN             int     `mapstructure:"top_n"`

	Damping       float64 `mapstructure:"damping"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		GenesisLimit:       DefaultGenesisLimit,
		CustomLimit:        DefaultCustomLimit,
		ProductLimit:       DefaultProductLimit,
		LowValueLimit:      DefaultLowValueLimit,
		MediumValueLimit:   DefaultMediumValueLimit,
		StrategicValue:     DefaultStrategicValue,
		StrategicEvolution: DefaultStrategicEvolution,
		ClusterValue:       DefaultClusterValue,
		HighValue:          DefaultHighValue,
		BottleneckReport:   DefaultBottleneckReport,
		BottleneckRule:     DefaultBottleneckRule,
		DependencyDegree:   DefaultDependencyDegree,
		TopN:               DefaultTopN,
		Damping:            DefaultDamping,
		MaxIterations:      DefaultMaxIterations,
		Tolerance:          DefaultTolerance,
	}
}
