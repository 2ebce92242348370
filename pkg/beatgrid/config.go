package beatgrid

// Logger is the minimal logging surface the fitter needs. The default
// implementation is pkg/logger; anything with printf-style leveled methods
// satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Config collects the search parameters. Zero values are filled in by
// defaultConfig; callers normally go through Options instead of touching it
// directly.
type Config struct {
	BPMMin      float64
	BPMMax      float64
	BeatsPerBar []int
	Mode        Mode
	Workers     int
	Logger      Logger
}

// Option mutates the search configuration.
type Option func(*Config)

// WithBPMRange sets the closed BPM range of the coarse sweep.
func WithBPMRange(min, max float64) Option {
	return func(c *Config) {
		c.BPMMin = min
		c.BPMMax = max
	}
}

// WithBeatsPerBar sets the meter candidates, tried in the given order.
func WithBeatsPerBar(candidates ...int) Option {
	return func(c *Config) {
		c.BeatsPerBar = candidates
	}
}

// WithMode selects continuous or discrete-frame scoring.
func WithMode(m Mode) Option {
	return func(c *Config) {
		c.Mode = m
	}
}

// WithWorkers caps the goroutines used for the coarse sweep. Values below 1
// fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithLogger replaces the default logger.
func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		BPMMin:      70,
		BPMMax:      170,
		BeatsPerBar: []int{3, 4, 6},
		Mode:        ModeContinuous,
	}
}
