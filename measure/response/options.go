package response

const (
	defaultSampleRate = 1000.0
	defaultLength     = 4096
)

// Config defines the measurement settings.
type Config struct {
	// SampleRate is the tick rate of the smoother in Hz.
	SampleRate float64
	// Length is the number of ticks recorded for each response.
	Length int
	// FFTSize is the transform length for the magnitude response. Zero
	// selects the next power of two >= Length.
	FFTSize int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a 1 kHz tick rate and 4096-tick responses.
func DefaultConfig() Config {
	return Config{
		SampleRate: defaultSampleRate,
		Length:     defaultLength,
	}
}

// WithSampleRate sets the tick rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithLength sets the number of recorded ticks.
func WithLength(length int) Option {
	return func(cfg *Config) {
		if length > 0 {
			cfg.Length = length
		}
	}
}

// WithFFTSize sets the FFT length used for the magnitude response.
func WithFFTSize(size int) Option {
	return func(cfg *Config) {
		if size > 0 {
			cfg.FFTSize = size
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
