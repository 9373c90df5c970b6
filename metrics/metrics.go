// Package metrics exports coordinate-assignment engine events as Prometheus
// counters.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/njchilds90/geoprover/protocol"
)

const namespace = "geoprover"

// Observer implements protocol.Observer. All counters are labelled by
// construction kind.
type Observer struct {
	candidates *prometheus.CounterVec
	renames    *prometheus.CounterVec
	added      *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

var _ protocol.Observer = (*Observer)(nil)

// NewObserver creates the counters and registers them with reg. Counters
// already registered by an earlier observer on the same registry are
// reused. On error, counters registered by this call are unregistered.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_scored_total",
			Help:      "Template instantiations scored by the best-substitution search.",
		}, []string{"kind"}),
		renames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "point_renames_total",
			Help:      "Coordinate swaps after a degenerate winning candidate.",
		}, []string{"kind"}),
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hypotheses_added_total",
			Help:      "Polynomials appended to hypothesis systems.",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_failures_total",
			Help:      "Constructions whose compilation failed, by reason.",
		}, []string{"kind", "reason"}),
	}
	var registered []prometheus.Collector
	fail := func(err error) (*Observer, error) {
		for _, c := range registered {
			reg.Unregister(c)
		}
		return nil, fmt.Errorf("metrics: %w", err)
	}
	for _, c := range []**prometheus.CounterVec{&o.candidates, &o.renames, &o.added, &o.failures} {
		err := reg.Register(*c)
		if err == nil {
			registered = append(registered, *c)
			continue
		}
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return fail(err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return fail(err)
		}
		*c = existing
	}
	return o, nil
}

func (o *Observer) CandidateScored(k protocol.Kind) { o.candidates.WithLabelValues(k.String()).Inc() }
func (o *Observer) PointRenamed(k protocol.Kind)    { o.renames.WithLabelValues(k.String()).Inc() }
func (o *Observer) PolynomialAdded(k protocol.Kind) { o.added.WithLabelValues(k.String()).Inc() }

func (o *Observer) CompileFailed(k protocol.Kind, reason string) {
	o.failures.WithLabelValues(k.String(), reason).Inc()
}
