package metrics_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/contractchain/internal/metrics"
)

func TestRecorder_Nil(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.BlockAppended(metrics.KindData)
		r.LoadFailed("read")
		r.Executed(metrics.ResultOK)
	})
	assert.Nil(t, r.Registry())
}

func TestRecorder_Counts(t *testing.T) {
	r := metrics.NewRecorder()
	r.BlockAppended(metrics.KindData)
	r.BlockAppended(metrics.KindData)
	r.BlockAppended(metrics.KindProgram)
	r.LoadFailed("compile")
	r.Executed(metrics.ResultNoProgram)

	count, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = testutil.GatherAndCount(r.Registry(), "contractchain_blocks_appended_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestServe(t *testing.T) {
	log, _ := logtest.NewNullLogger()

	t.Run("ServesRegistry", func(t *testing.T) {
		r := metrics.NewRecorder()
		r.BlockAppended(metrics.KindProgram)

		server, err := metrics.Serve("127.0.0.1:0", r, log)
		require.NoError(t, err)
		defer server.Close()

		resp, err := http.Get("http://" + server.Addr + "/metrics")
		require.NoError(t, err, "Failed to connect to metrics server")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `contractchain_blocks_appended_total{kind="program"} 1`)
	})

	t.Run("WhenInvalidPort", func(t *testing.T) {
		_, err := metrics.Serve("localhost:99999", metrics.NewRecorder(), log)
		require.Error(t, err)
	})

	t.Run("WhenNilRecorder", func(t *testing.T) {
		_, err := metrics.Serve("127.0.0.1:0", nil, log)
		require.Error(t, err)
	})
}
