package config

const (
	defaultHighThreshold     = 2000
	defaultModerateThreshold = 1500
	defaultTracingService    = "finance-dashboard"
)

type AppConfig struct {
	HighThresholdAmount     float64 `yaml:"high-threshold"`
	ModerateThresholdAmount float64 `yaml:"moderate-threshold"`
	TracingServiceName      string  `yaml:"tracing-service"`
}

func (s *AppConfig) applyDefaults() {
	if s.HighThresholdAmount == 0 {
		s.HighThresholdAmount = defaultHighThreshold
	}
	if s.ModerateThresholdAmount == 0 {
		s.ModerateThresholdAmount = defaultModerateThreshold
	}
	if s.TracingServiceName == "" {
		s.TracingServiceName = defaultTracingService
	}
}

func (s *AppConfig) HighThreshold() float64 {
	return s.HighThresholdAmount
}

func (s *AppConfig) ModerateThreshold() float64 {
	return s.ModerateThresholdAmount
}

func (s *AppConfig) TracingService() string {
	return s.TracingServiceName
}
