package config

// Config holds app configuration
type Config struct {
	// Filters is the default set of glob patterns applied when extracting.
	// Flags given on the command line are appended to this set.
	Filters []string `mapstructure:"filters"`

	// ChunkSize is the extraction copy buffer size in bytes.
	// Zero selects the library default.
	ChunkSize int `mapstructure:"chunk_size"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
