package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReload(t *testing.T) {
	successes := testutil.ToFloat64(RegistryReloads.WithLabelValues("success"))
	failures := testutil.ToFloat64(RegistryReloads.WithLabelValues("failure"))

	ObserveReload(12, 0.01, nil)
	assert.Equal(t, successes+1, testutil.ToFloat64(RegistryReloads.WithLabelValues("success")))
	assert.Equal(t, 12.0, testutil.ToFloat64(RegistryEntries))

	ObserveReload(0, 0.02, errors.New("source down"))
	assert.Equal(t, failures+1, testutil.ToFloat64(RegistryReloads.WithLabelValues("failure")))
	assert.Equal(t, 12.0, testutil.ToFloat64(RegistryEntries), "a failed load keeps the published count")
}
