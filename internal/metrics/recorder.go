package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "contractchain"

// Block kinds.
const (
	KindData    = "data"
	KindProgram = "program"
)

// Execution results.
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultNoProgram = "no_program"
)

// Recorder holds the ledger's counters on a private registry. A nil
// *Recorder records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	blocks       *prometheus.CounterVec
	loadFailures *prometheus.CounterVec
	executions   *prometheus.CounterVec
}

// NewRecorder registers the ledger counters on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_appended_total",
			Help:      "Blocks appended to the chain, by kind.",
		}, []string{"kind"}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "program_load_failures_total",
			Help:      "Program loads that failed, by stage.",
		}, []string{"stage"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_executions_total",
			Help:      "Block executions, by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.blocks, r.loadFailures, r.executions)
	return r
}

// Registry exposes the underlying registry for serving and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// BlockAppended counts a block of the given kind.
func (r *Recorder) BlockAppended(kind string) {
	if r == nil {
		return
	}
	r.blocks.WithLabelValues(kind).Inc()
}

// LoadFailed counts a program load that failed at stage.
func (r *Recorder) LoadFailed(stage string) {
	if r == nil {
		return
	}
	r.loadFailures.WithLabelValues(stage).Inc()
}

// Executed counts a block execution with the given result.
func (r *Recorder) Executed(result string) {
	if r == nil {
		return
	}
	r.executions.WithLabelValues(result).Inc()
}
