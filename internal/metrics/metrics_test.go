package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusCounters(t *testing.T) {
	p := NewPrometheus("test")

	p.RecordVerification("verified")
	p.RecordVerification("verified")
	p.RecordReward("granted", false)
	p.RecordReward("granted", true)
	p.RecordCredit(0.005)
	p.RecordPayment("approve", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.verifications.WithLabelValues("verified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.rewards.WithLabelValues("granted", "true")))
	assert.InDelta(t, 0.005, testutil.ToFloat64(p.credited), 1e-12)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.payments.WithLabelValues("approve", "ok")))

	p.ObserveRequest("/api/payments/verify", "POST", 200, 20*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requests.WithLabelValues("/api/payments/verify", "POST", "200")))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.RecordError("verify", "upstream")
}
