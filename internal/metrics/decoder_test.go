// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramCount(t *testing.T) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, submitDuration.Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestSetDecoderState_OneHot(t *testing.T) {
	all := []string{"UNINITIALIZED", "STARTED", "ERROR"}
	SetDecoderState("STARTED", all)

	assert.Equal(t, 1.0, testutil.ToFloat64(decoderState.WithLabelValues("STARTED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(decoderState.WithLabelValues("ERROR")))

	SetDecoderState("ERROR", all)
	assert.Equal(t, 0.0, testutil.ToFloat64(decoderState.WithLabelValues("STARTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(decoderState.WithLabelValues("ERROR")))
}

func TestRecordSubmit(t *testing.T) {
	before := testutil.ToFloat64(submitTotal.WithLabelValues("ok", "queued"))
	samples := histogramCount(t)
	RecordSubmit("ok", "queued", time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(submitTotal.WithLabelValues("ok", "queued")))
	assert.Equal(t, samples+1, histogramCount(t))
}

func TestRecordRecovery(t *testing.T) {
	before := testutil.ToFloat64(recoveryTotal.WithLabelValues("flush", "success"))
	RecordRecovery("flush", "success")
	assert.Equal(t, before+1, testutil.ToFloat64(recoveryTotal.WithLabelValues("flush", "success")))
}
