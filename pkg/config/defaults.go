package config

const (
	defaultProvider = "gptzero"
	defaultTimeout  = "30s"
	defaultMinChars = 50

	defaultAPIListen       = ":8090"
	defaultClientAPITarget = "http://localhost:8090"

	defaultHistoryDriver = "sqlite"

	defaultEventsTopic = "aiscore.analysis.completed"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Detector: DetectorConfig{
			Provider: defaultProvider,
			Timeout:  defaultTimeout,
			MinChars: defaultMinChars,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		History: HistoryConfig{
			Driver: defaultHistoryDriver,
		},
		Events: EventsConfig{
			Topic: defaultEventsTopic,
		},
	}
}
