package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(indicatorRefreshes.WithLabelValues("ok"))
	IncIndicatorRefresh("ok")
	assert.Equal(t, before+1, testutil.ToFloat64(indicatorRefreshes.WithLabelValues("ok")))

	before = testutil.ToFloat64(screenRuns.WithLabelValues("inline"))
	ObserveScreen("inline", 10, 3, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(screenRuns.WithLabelValues("inline")))

	before = testutil.ToFloat64(malformedCriteria)
	AddMalformedCriteria(2)
	assert.Equal(t, before+2, testutil.ToFloat64(malformedCriteria))
}
