package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncFlow_NormalizesLabels(t *testing.T) {
	before := testutil.ToFloat64(accessFlowsTotal.WithLabelValues("issue", "ok"))
	IncFlow(" Issue ", "OK")
	after := testutil.ToFloat64(accessFlowsTotal.WithLabelValues("issue", "ok"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestIncPageStateLookup(t *testing.T) {
	before := testutil.ToFloat64(pageStateLookupsTotal.WithLabelValues("memory", "miss"))
	IncPageStateLookup("memory", "miss")
	IncPageStateLookup("MEMORY", "miss")
	after := testutil.ToFloat64(pageStateLookupsTotal.WithLabelValues("memory", "miss"))
	if after-before != 2 {
		t.Fatalf("expected counter to grow by 2, got %v -> %v", before, after)
	}
}

func TestObserveKeysRequest(t *testing.T) {
	ObserveKeysRequest("issue", 200, 12)
	if n := testutil.CollectAndCount(keysRequestLatencyMs); n == 0 {
		t.Fatal("expected at least one histogram series")
	}
}

func TestCollectorsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(buildInfo); err != nil {
		t.Fatalf("register build info: %v", err)
	}
	SetBuildInfo("v0.0.0", "abc")
	if got := testutil.ToFloat64(buildInfo.WithLabelValues("v0.0.0", "abc")); got != 1 {
		t.Fatalf("expected build info gauge 1, got %v", got)
	}
	// MustRegister against the default registry must be idempotent.
	MustRegister()
	MustRegister()
}
