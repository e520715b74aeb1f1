package config

// Config is the full service configuration.
type Config struct {
	OpenAI     OpenAI     `mapstructure:"openai" yaml:"openai"`
	ElevenLabs ElevenLabs `mapstructure:"elevenlabs" yaml:"elevenlabs"`
	Supabase   Supabase   `mapstructure:"supabase" yaml:"supabase"`
	Pipeline   Pipeline   `mapstructure:"pipeline" yaml:"pipeline"`
	Server     Server     `mapstructure:"server" yaml:"server"`
}

// OpenAI configures the chapter/speaker analysis LLM.
type OpenAI struct {
	// APIKey may reference an environment variable as ${OPENAI_API_KEY}.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

// ElevenLabs configures the TTS provider.
type ElevenLabs struct {
	// APIKey may reference an environment variable as ${ELEVENLABS_API_KEY}.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

// Supabase configures object storage and the relational store.
type Supabase struct {
	URL string `mapstructure:"url" yaml:"url"`
	// ServiceKey may reference an environment variable as
	// ${SUPABASE_SERVICE_ROLE_KEY}.
	ServiceKey string `mapstructure:"service_key" yaml:"service_key"`
	Bucket     string `mapstructure:"bucket" yaml:"bucket"`
}

// Pipeline holds generation knobs.
type Pipeline struct {
	// SegmentDelaySeconds is the pause between sequential TTS calls.
	SegmentDelaySeconds float64 `mapstructure:"segment_delay_seconds" yaml:"segment_delay_seconds"`
	// FFmpegPath locates the transcoder binary (default: ffmpeg on PATH).
	FFmpegPath string `mapstructure:"ffmpeg_path" yaml:"ffmpeg_path"`
}

// Server holds HTTP server settings.
type Server struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
	// RequestTimeoutSeconds caps one generation request end to end.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}
