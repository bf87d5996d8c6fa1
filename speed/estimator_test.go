package speed

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimator(t *testing.T, config Config) (*Estimator, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock()
	estimator, err := NewEstimator(config, mock)
	require.NoError(t, err)
	return estimator, mock
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		width    int
		height   int
		elapsed  time.Duration
		expected float64
	}{
		{name: "square one second", config: DefaultConfig(), width: 20, height: 20, elapsed: time.Second, expected: 20},
		{name: "wide uses width", config: DefaultConfig(), width: 30, height: 10, elapsed: 500 * time.Millisecond, expected: 60},
		{name: "tall uses height", config: DefaultConfig(), width: 4, height: 12, elapsed: 2 * time.Second, expected: 6},
		{name: "reference distance", config: Config{ReferenceDistance: 4}, width: 20, height: 8, elapsed: time.Second, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimator, mock := newEstimator(t, tt.config)
			mock.Add(tt.elapsed)

			v, err := estimator.Estimate(tt.width, tt.height)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 1e-9)
			assert.Equal(t, mock.Now(), estimator.PreviousSample())
		})
	}
}

func TestEstimateSuccessiveSamples(t *testing.T) {
	estimator, mock := newEstimator(t, DefaultConfig())
	t0 := mock.Now()
	const side = 25

	mock.Add(1500 * time.Millisecond)
	t1 := mock.Now()
	speed1, err := estimator.Estimate(side, side)
	require.NoError(t, err)

	mock.Add(250 * time.Millisecond)
	t2 := mock.Now()
	speed2, err := estimator.Estimate(side, side)
	require.NoError(t, err)

	assert.Equal(t, float64(side)/DefaultReferenceDistance/t1.Sub(t0).Seconds(), speed1)
	assert.Equal(t, float64(side)/DefaultReferenceDistance/t2.Sub(t1).Seconds(), speed2)
	assert.Equal(t, t2, estimator.PreviousSample())
}

func TestEstimateDegenerateTiming(t *testing.T) {
	t.Run("same tick", func(t *testing.T) {
		estimator, mock := newEstimator(t, DefaultConfig())
		start := mock.Now()

		_, err := estimator.Estimate(10, 10)
		assert.True(t, errors.Is(err, ErrDegenerateTiming))
		assert.Equal(t, start, estimator.PreviousSample())
	})

	t.Run("clock went backwards", func(t *testing.T) {
		estimator, mock := newEstimator(t, DefaultConfig())
		start := mock.Now()

		mock.Set(start.Add(-time.Second))
		_, err := estimator.Estimate(10, 10)
		assert.True(t, errors.Is(err, ErrDegenerateTiming))
		assert.Equal(t, start, estimator.PreviousSample(), "previous sample must not move backwards")

		mock.Set(start.Add(2 * time.Second))
		v, err := estimator.Estimate(10, 10)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, v, 1e-9)
	})
}

func TestEstimatorReset(t *testing.T) {
	estimator, mock := newEstimator(t, DefaultConfig())

	mock.Add(10 * time.Second)
	estimator.Reset()
	assert.Equal(t, mock.Now(), estimator.PreviousSample())

	mock.Add(time.Second)
	v, err := estimator.Estimate(8, 2)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, v, 1e-9)
}

func TestNewEstimatorDefaultsToWallClock(t *testing.T) {
	before := time.Now()
	estimator, err := NewEstimator(DefaultConfig(), nil)
	require.NoError(t, err)
	assert.False(t, estimator.PreviousSample().Before(before))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	for _, ref := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := Config{ReferenceDistance: ref}.Validate()
		assert.True(t, errors.Is(err, ErrInvalidConfig), "reference distance %v", ref)

		_, err = NewEstimator(Config{ReferenceDistance: ref}, clock.NewMock())
		assert.Error(t, err)
	}
}
