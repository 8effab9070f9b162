// Package metrics agrupa los collectors Prometheus del servicio: HTTP,
// eventos de autenticación, ciclo de vida de sesiones y stats del cache.
//
// Todos los métodos aceptan un receptor nil, de modo que con las métricas
// deshabilitadas los callers no necesitan chequear.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ameyasuite/backend/internal/cache"
)

// Resultados para AuthEvent.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	authEventsTotal    *prometheus.CounterVec
	sessionEventsTotal *prometheus.CounterVec
}

// New crea y registra los collectors. Con reg nil usa un registry propio.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"}),
		authEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Eventos de autenticación por tipo y resultado",
		}, []string{"event", "result"}), // event: signup|company_signup|login|logout
		sessionEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_events_total",
			Help: "Sesiones creadas y destruidas",
		}, []string{"event"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal, m.httpRequestDuration, m.httpInflight,
		m.authEventsTotal, m.sessionEventsTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer es útil en tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Inflight incrementa el gauge y devuelve la función que lo decrementa.
func (m *Metrics) Inflight(method, path string) func() {
	if m == nil {
		return func() {}
	}
	g := m.httpInflight.WithLabelValues(method, path)
	g.Inc()
	return g.Dec
}

// ObserveHTTP registra un request terminado.
func (m *Metrics) ObserveHTTP(method, path string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	m.httpRequestDuration.WithLabelValues(method, path).Observe(dur.Seconds())
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func (m *Metrics) AuthEvent(event, result string) {
	if m == nil {
		return
	}
	m.authEventsTotal.WithLabelValues(event, result).Inc()
}

// SessionEvent: created | destroyed.
func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessionEventsTotal.WithLabelValues(event).Inc()
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// RegisterCache expone cache.Stats de client bajo la etiqueta name.
func RegisterCache(reg prometheus.Registerer, name string, client cache.Client) error {
	return registerCollector(reg, newCacheCollector(name, client))
}

// cacheCollector consulta Stats en cada scrape.
type cacheCollector struct {
	client cache.Client

	keysDesc   *prometheus.Desc
	hitsDesc   *prometheus.Desc
	missesDesc *prometheus.Desc
}

func newCacheCollector(name string, client cache.Client) *cacheCollector {
	labels := prometheus.Labels{"cache": name}
	return &cacheCollector{
		client:     client,
		keysDesc:   prometheus.NewDesc("cache_keys", "Keys presentes en el cache", []string{"driver"}, labels),
		hitsDesc:   prometheus.NewDesc("cache_hits_total", "Lecturas con hit", []string{"driver"}, labels),
		missesDesc: prometheus.NewDesc("cache_misses_total", "Lecturas con miss", []string{"driver"}, labels),
	}
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keysDesc
	ch <- c.hitsDesc
	ch <- c.missesDesc
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := c.client.Stats(ctx)
	if err != nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.keysDesc, prometheus.GaugeValue, float64(st.Keys), st.Driver)
	ch <- prometheus.MustNewConstMetric(c.hitsDesc, prometheus.CounterValue, float64(st.Hits), st.Driver)
	ch <- prometheus.MustNewConstMetric(c.missesDesc, prometheus.CounterValue, float64(st.Misses), st.Driver)
}

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// NormalizePath reemplaza segmentos dinámicos (uuids, hex, tokens, números)
// por ":param" para acotar la cardinalidad del label path. Se usa cuando el
// router no resolvió un patrón.
func NormalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 {
		return true
	}
	if uuidSegmentRE.MatchString(seg) || hexSegmentRE.MatchString(seg) || tokenSegmentRE.MatchString(seg) {
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}
