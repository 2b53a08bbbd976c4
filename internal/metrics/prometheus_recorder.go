package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	populateDuration prom.Histogram
	populateResults  *prom.CounterVec
	pageLoads        *prom.CounterVec
	lookups          *prom.CounterVec
	pagesIndexed     prom.Gauge
	renderDuration   prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.populateDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "flatpages",
			Name:      "populate_duration_seconds",
			Help:      "Duration of full index population passes",
			Buckets:   prom.DefBuckets,
		})
		pr.populateResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "flatpages",
			Name:      "populate_results_total",
			Help:      "Population pass results by outcome",
		}, []string{"result"})
		pr.pageLoads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "flatpages",
			Name:      "page_loads_total",
			Help:      "Page loads during population, by how they were satisfied",
		}, []string{"result"})
		pr.lookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "flatpages",
			Name:      "lookups_total",
			Help:      "Page lookups by hit/miss",
		}, []string{"result"})
		pr.pagesIndexed = prom.NewGauge(prom.GaugeOpts{
			Namespace: "flatpages",
			Name:      "pages_indexed",
			Help:      "Number of pages in the current index generation",
		})
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "flatpages",
			Name:      "render_duration_seconds",
			Help:      "Duration of page render calls",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.populateDuration, pr.populateResults, pr.pageLoads, pr.lookups, pr.pagesIndexed, pr.renderDuration)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePopulateDuration(d time.Duration) {
	if p == nil || p.populateDuration == nil {
		return
	}
	p.populateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPopulateResult(success bool) {
	if p == nil || p.populateResults == nil {
		return
	}
	p.populateResults.WithLabelValues(outcome(success)).Inc()
}

func (p *PrometheusRecorder) IncPageLoad(result LoadResult) {
	if p == nil || p.pageLoads == nil {
		return
	}
	p.pageLoads.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncLookup(hit bool) {
	if p == nil || p.lookups == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.lookups.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetPagesIndexed(n int) {
	if p == nil || p.pagesIndexed == nil {
		return
	}
	p.pagesIndexed.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
