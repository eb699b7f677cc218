package telemetry

// Config carries the tracing settings Init consumes. The CLI fills it
// from the telemetry section of its config file.
type Config struct {
	// Enabled turns span export on. Off by default: resolver lookups
	// run on hosts with no collector in sight.
	Enabled bool

	// ServiceName identifies this process in the trace backend.
	ServiceName string

	// ServiceVersion is the build version attached to every span.
	ServiceVersion string

	// Endpoint is the OTLP/gRPC collector address, host:port.
	Endpoint string

	// Insecure dials the collector without TLS.
	Insecure bool

	// SampleRate is the fraction of traces kept, 0.0 through 1.0.
	SampleRate float64
}

// DefaultConfig returns the stock settings: tracing off, sampling
// everything once it is turned on, local collector over plaintext.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    instrumentationName,
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
