package metrics

import "time"

// LoadResult enumerates how a page load was satisfied during population.
type LoadResult string

const (
	LoadParsed LoadResult = "parsed" // read from disk and parsed
	LoadCached LoadResult = "cached" // reused from the mtime file cache
)

// Recorder defines observability hooks for the page cache and HTTP layer.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObservePopulateDuration(d time.Duration)
	IncPopulateResult(success bool)
	IncPageLoad(result LoadResult)
	IncLookup(hit bool)
	SetPagesIndexed(n int)
	ObserveRenderDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePopulateDuration(time.Duration) {}
func (NoopRecorder) IncPopulateResult(bool)                {}
func (NoopRecorder) IncPageLoad(LoadResult)                {}
func (NoopRecorder) IncLookup(bool)                        {}
func (NoopRecorder) SetPagesIndexed(int)                   {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)   {}
