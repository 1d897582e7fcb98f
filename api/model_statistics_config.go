package api

// StatisticsConfig controls which statistics the service computes over
// ingested data. Nothing is computed unless Enabled is set.
type StatisticsConfig struct {
	Enabled      bool     `json:"enabled"`
	Correlations bool     `json:"correlations,omitempty"`
	Histograms   bool     `json:"histograms,omitempty"`
	ExactUniques bool     `json:"exact_uniques,omitempty"`
	Columns      []string `json:"columns,omitempty"`
}

func DefaultStatisticsConfig() *StatisticsConfig {
	return &StatisticsConfig{}
}
