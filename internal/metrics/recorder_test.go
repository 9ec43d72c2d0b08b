package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SafeOnAllMethods(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render", time.Second)
	r.ObserveRunDuration(time.Second)
	r.IncStageResult("render", ResultSuccess)
	r.IncRunOutcome("success")
	r.IncDocumentsRendered(3)
}

func TestPrometheusRecorder_Counts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncStageResult("render", ResultSuccess)
	r.IncStageResult("render", ResultSuccess)
	r.IncStageResult("relocate", ResultFailed)
	r.IncRunOutcome("success")
	r.IncDocumentsRendered(2)
	r.ObserveStageDuration("render", 50*time.Millisecond)
	r.ObserveRunDuration(120 * time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(
		r.stageResults.WithLabelValues("render", string(ResultSuccess))))
	require.Equal(t, float64(1), testutil.ToFloat64(
		r.stageResults.WithLabelValues("relocate", string(ResultFailed))))
	require.Equal(t, float64(1), testutil.ToFloat64(
		r.runOutcome.WithLabelValues("success")))
	require.Equal(t, float64(2), testutil.ToFloat64(r.documents))
}

func TestPrometheusRecorder_NilReceiverSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveStageDuration("render", time.Second)
	r.IncRunOutcome("failed")
	r.IncDocumentsRendered(1)
}
