package config

// MemcachedConfig lists cache nodes for the insights report cache. An empty
// host list disables caching.
type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	return s.NodeHosts
}
