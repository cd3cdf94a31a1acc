package retry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/redlinehq/redline/internal/llm/retry"
)

func TestExponentialBackoff_Sequence(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, time.Second, retry.ExponentialBackoff(1, cfg))
	assert.Equal(t, 2*time.Second, retry.ExponentialBackoff(2, cfg))
	assert.Equal(t, 4*time.Second, retry.ExponentialBackoff(3, cfg))
	assert.Equal(t, 8*time.Second, retry.ExponentialBackoff(4, cfg))
}

func TestExponentialBackoff_CapsAtMaxInterval(t *testing.T) {
	cfg := testConfig()
	cfg.MaxInterval = 5 * time.Second

	assert.Equal(t, 5*time.Second, retry.ExponentialBackoff(10, cfg))
}

func TestExponentialBackoff_NonPositiveAttempt(t *testing.T) {
	cfg := testConfig()

	assert.Zero(t, retry.ExponentialBackoff(0, cfg))
	assert.Zero(t, retry.ExponentialBackoff(-1, cfg))
}

func TestExponentialBackoff_JitterStaysInRange(t *testing.T) {
	cfg := testConfig()
	cfg.UseJitter = true

	for i := 0; i < 50; i++ {
		d := retry.ExponentialBackoff(3, cfg)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 4*time.Second)
	}
}
