package config

const (
	defaultPort    = 8080
	defaultBackend = "memory"
)

type ServerConfig struct {
	ListenPort     int    `yaml:"port"`
	SessionBackend string `yaml:"session-backend"`
}

func (s *ServerConfig) applyDefaults() {
	if s.ListenPort == 0 {
		s.ListenPort = defaultPort
	}
	if s.SessionBackend == "" {
		s.SessionBackend = defaultBackend
	}
}

func (s *ServerConfig) Port() int {
	return s.ListenPort
}

// StorageBackend is "memory" or "postgres".
func (s *ServerConfig) StorageBackend() string {
	return s.SessionBackend
}
