package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSnapshot(t *testing.T) {
	RecordSnapshot("rinks_test", "success", 3)
	RecordSnapshot("rinks_test", "error", 0)

	assert.Equal(t, 3.0, testutil.ToFloat64(SnapshotRows.WithLabelValues("rinks_test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(SnapshotWritesTotal.WithLabelValues("rinks_test", "error")))
}

func TestRecordStage(t *testing.T) {
	before := testutil.ToFloat64(StageRunsTotal.WithLabelValues("stage_test", "success"))
	RecordStage("stage_test", "success", 0.25)
	assert.Equal(t, before+1, testutil.ToFloat64(StageRunsTotal.WithLabelValues("stage_test", "success")))
}

func TestPush(t *testing.T) {
	var (
		path string
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	RecordRunComplete()
	require.NoError(t, Push(srv.URL, "nhlproj"))
	assert.Equal(t, "/metrics/job/nhlproj", path)
	assert.NotEmpty(t, body)

	srv.Close()
	err := Push(srv.URL, "nhlproj")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "push metrics"))
}
