package types

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose bool         `mapstructure:"verbose"`
	Config  string       `mapstructure:"config"`
	Server  ServerConfig `mapstructure:"server" validate:"required"`
}

// ServerConfig holds settings for the HTTP server and for the CLI client
// that talks to it.
type ServerConfig struct {
	// Port the HTTP frontend listens on.
	Port int `mapstructure:"port" validate:"required,gte=1,lte=65535"`
	// URL the CLI client targets; defaults to the local server.
	URL string `mapstructure:"url" validate:"required,url"`
	// AllowedOrigins for browser clients of the API and SSE feed.
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}
