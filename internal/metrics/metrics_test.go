package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSuggestion(t *testing.T) {
	before := testutil.ToFloat64(SuggestionRequests.WithLabelValues("fallback"))
	RecordSuggestion("fallback")
	assert.Equal(t, before+1, testutil.ToFloat64(SuggestionRequests.WithLabelValues("fallback")))
}

func TestRecordSuggestionCache(t *testing.T) {
	before := testutil.ToFloat64(SuggestionCache.WithLabelValues("miss"))
	RecordSuggestionCache("miss")
	assert.Equal(t, before+1, testutil.ToFloat64(SuggestionCache.WithLabelValues("miss")))
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "GET /goals", "200", 5*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration, "http_request_duration_seconds"))
}
