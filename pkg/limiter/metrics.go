package limiter

// MetricsRecorder receives counters and timing observations from the limiter.
// Implementations adapt it to statsd, Prometheus, or an in-memory recorder
// for tests.
//
// Emitted series: "ratelimit.call" (every acquisition), "ratelimit.denied"
// (rejections), "ratelimit.error" (store failures) and "ratelimit.latency"
// (seconds per store round trip), all tagged with the limiter's unique key.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing. It ensures we never
// have to check 'if r.recorder != nil' in the hot path.
type NoOpMetricsRecorder struct{}

func (NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
