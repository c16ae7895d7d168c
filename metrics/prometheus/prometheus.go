package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/pgrow/errors"
	"github.com/squareup/pgrow/metrics"
)

const DefaultListenAddr = "localhost:2112"

// Factory creates counters in a registry of its own, so several factories can coexist in one process.
// Counters can be created before Start; Start only exposes them over HTTP.
type Factory struct {
	listenAddr string
	registry   *prometheus.Registry
	lock       sync.Mutex
	httpServer *http.Server
	started    bool
}

func NewFactory(listenAddr string) *Factory {
	if listenAddr == "" {
		listenAddr = DefaultListenAddr
	}
	return &Factory{listenAddr: listenAddr, registry: prometheus.NewRegistry()}
}

func (f *Factory) CreateCounter(name string, description string) (metrics.Counter, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: description,
	})
	if err := f.registry.Register(counter); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Counter{pCounter: counter}, nil
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (f *Factory) Registry() *prometheus.Registry {
	return f.registry
}

func (f *Factory) Start() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.started {
		return errors.New("already started")
	}
	f.httpServer = &http.Server{Addr: f.listenAddr, Handler: promhttp.HandlerFor(f.registry, promhttp.HandlerOpts{})}
	f.started = true
	go func(srv *http.Server, addr string) {
		log.Debugf("starting prometheus http server on address %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("prometheus http export server failed to listen %v", err)
		}
	}(f.httpServer, f.listenAddr)
	return nil
}

func (f *Factory) Stop() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if !f.started {
		return errors.New("not started")
	}
	f.started = false
	return f.httpServer.Close()
}

type Counter struct {
	pCounter prometheus.Counter
}

func (c *Counter) Inc() {
	c.pCounter.Inc()
}

var _ metrics.Factory = (*Factory)(nil)
