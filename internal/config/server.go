package config

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig is the HTTP listener address
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig holds the notification channel configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

// JWTConfig holds the auth token configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
}
