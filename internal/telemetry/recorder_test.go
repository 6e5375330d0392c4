package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.Read("profile", ReadHit)
	rec.Read("profile", ReadHit)
	rec.Fetch("profile", ResultOK)
	rec.Invalidation("followers")
	rec.Mutation("follow", ResultError)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Reads.WithLabelValues("profile", ReadHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Fetches.WithLabelValues("profile", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Invalidations.WithLabelValues("followers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Mutations.WithLabelValues("follow", ResultError)))
}

func TestRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	first.Fetch("skills", ResultOK)
	second.Fetch("skills", ResultOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(second.Fetches.WithLabelValues("skills", ResultOK)))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Read("k", ReadHit)
		rec.Fetch("k", ResultOK)
		rec.Invalidation("k")
		rec.Mutation("op", ResultOK)
	})
}
