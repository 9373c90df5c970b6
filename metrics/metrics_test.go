package metrics_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/geoprover/catalog"
	"github.com/njchilds90/geoprover/metrics"
	"github.com/njchilds90/geoprover/protocol"
)

// counter reads one series from reg; labels are name/value pairs.
func counter(t *testing.T, reg *prometheus.Registry, name string, labels ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, m := range f.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for i := 0; i+1 < len(labels); i += 2 {
				if got[labels[i]] != labels[i+1] {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func transform(t *testing.T, obs protocol.Observer, cs ...protocol.Construction) error {
	t.Helper()
	cp := protocol.New("t")
	for _, c := range cs {
		require.NoError(t, cp.Add(c))
	}
	ctx := protocol.NewContext(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx.Observer = obs
	_, err := cp.Transform(ctx)
	return err
}

func TestObserver_CountsEngineEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := metrics.NewObserver(reg)
	require.NoError(t, err)

	a, b := catalog.FreePoint("A"), catalog.FreePoint("B")
	l := catalog.LineThroughTwoPoints("L", a, b)
	p := catalog.RandomPointOn("P", l)
	m := catalog.Midpoint("M", a, b)
	require.NoError(t, transform(t, obs, a, b, l, p, m))

	assert.Equal(t, 1.0, counter(t, reg, "geoprover_hypotheses_added_total", "kind", "random-point"))
	assert.Equal(t, 2.0, counter(t, reg, "geoprover_hypotheses_added_total", "kind", "midpoint"))
	assert.GreaterOrEqual(t, counter(t, reg, "geoprover_candidates_scored_total", "kind", "random-point"), 1.0)
	assert.Zero(t, counter(t, reg, "geoprover_point_renames_total", "kind", "random-point"))
	assert.Zero(t, counter(t, reg, "geoprover_compile_failures_total"))
}

func TestObserver_CountsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := metrics.NewObserver(reg)
	require.NoError(t, err)

	a := catalog.FreePoint("A")
	bis := catalog.PerpendicularBisector("b", a, a)
	p := catalog.RandomPointOn("P", bis)
	err = transform(t, obs, a, bis, p)
	require.ErrorIs(t, err, protocol.ErrBadPolynomial)

	assert.Equal(t, 1.0, counter(t, reg, "geoprover_compile_failures_total", "kind", "random-point", "reason", "bad polynomial"))
}

func TestNewObserver_SharesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := metrics.NewObserver(reg)
	require.NoError(t, err)
	second, err := metrics.NewObserver(reg)
	require.NoError(t, err)

	first.PointRenamed(protocol.KindRandomPoint)
	second.PointRenamed(protocol.KindRandomPoint)

	assert.Equal(t, 2.0, counter(t, reg, "geoprover_point_renames_total", "kind", "random-point"))
}

func TestNewObserver_RegistrationFailureLeavesNoCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "geoprover",
		Name:      "hypotheses_added_total",
		Help:      "Unlabelled counter under the same name.",
	})))

	_, err := metrics.NewObserver(reg)
	require.Error(t, err)

	// the counters registered before the conflict are gone again
	require.NoError(t, reg.Register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoprover",
		Name:      "candidates_scored_total",
		Help:      "Template instantiations scored by the best-substitution search.",
	}, []string{"kind"})))
	require.NoError(t, reg.Register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoprover",
		Name:      "point_renames_total",
		Help:      "Coordinate swaps after a degenerate winning candidate.",
	}, []string{"kind"})))
}
