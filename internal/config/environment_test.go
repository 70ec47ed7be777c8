package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("LOTTO_TEST_STR", "value")
	assert.Equal(t, "value", GetEnv("LOTTO_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("LOTTO_TEST_MISSING", "fallback"))
}

func TestGetEnvAsInt64(t *testing.T) {
	t.Setenv("LOTTO_TEST_INT", "12345")
	assert.Equal(t, int64(12345), GetEnvAsInt64("LOTTO_TEST_INT", 0))

	t.Setenv("LOTTO_TEST_INT", "not-a-number")
	assert.Equal(t, int64(7), GetEnvAsInt64("LOTTO_TEST_INT", 7))
}

func TestGetEnvAsInt64Slice(t *testing.T) {
	t.Setenv("LOTTO_TEST_IDS", "111, 222,,abc,333")
	assert.Equal(t, []int64{111, 222, 333}, GetEnvAsInt64Slice("LOTTO_TEST_IDS", ",", nil))

	assert.Equal(t, []int64{9}, GetEnvAsInt64Slice("LOTTO_TEST_IDS_MISSING", ",", []int64{9}))
}
