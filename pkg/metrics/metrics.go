// Package metrics exports machine events as prometheus metrics.
package metrics

import (
	"github.com/aretw0/fernspiel/pkg/domain"
	"github.com/aretw0/fernspiel/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Responder counts machine events. It never has work to do, so it does not
// hold the machine in a state.
type Responder struct {
	transitions *prometheus.CounterVec
	starts      prometheus.Counter
	finishes    prometheus.Counter
	current     *prometheus.GaugeVec
}

var _ ports.Responder = (*Responder)(nil)

// NewResponder creates the collectors and registers them with reg.
func NewResponder(reg prometheus.Registerer) (*Responder, error) {
	r := &Responder{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fernspiel_transitions_total",
				Help: "Total number of state transitions",
			},
			[]string{"from", "to", "cause"},
		),
		starts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fernspiel_starts_total",
			Help: "Total number of times the initial state was entered",
		}),
		finishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fernspiel_finishes_total",
			Help: "Total number of times a terminal state was reached",
		}),
		current: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fernspiel_current_state",
				Help: "Set to 1 for the current state",
			},
			[]string{"state"},
		),
	}
	for _, c := range []prometheus.Collector{r.transitions, r.starts, r.finishes, r.current} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Respond implements ports.Responder.
func (r *Responder) Respond(evt domain.Event) error {
	switch evt.Kind {
	case domain.EventStart:
		r.starts.Inc()
	case domain.EventFinish:
		r.finishes.Inc()
	case domain.EventTransition:
		r.transitions.WithLabelValues(evt.From.ID, evt.To.ID, cause(evt.Cause)).Inc()
	}
	r.enter(evt.To)
	return nil
}

func (r *Responder) enter(st *domain.State) {
	if st == nil {
		return
	}
	r.current.Reset()
	r.current.WithLabelValues(st.ID).Set(1)
}

func cause(sym domain.Symbol) string {
	if sym.Kind == domain.SymbolDone {
		return "idle"
	}
	return sym.Input.String()
}

// Update implements ports.Responder.
func (r *Responder) Update() (domain.ResponderState, error) {
	return domain.Idle, nil
}
