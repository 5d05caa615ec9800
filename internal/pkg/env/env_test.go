package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	assert.Equal(t, "fallback", String("PROCAT_TEST_UNSET_STRING", "fallback"))

	t.Setenv("PROCAT_TEST_STRING", "value")
	assert.Equal(t, "value", String("PROCAT_TEST_STRING", "fallback"))

	t.Setenv("PROCAT_TEST_EMPTY", "")
	assert.Equal(t, "", String("PROCAT_TEST_EMPTY", "fallback"), "set-but-empty wins over default")
}

func TestTypedGetters(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		i, err := Int("PROCAT_TEST_UNSET_INT", 10)
		require.NoError(t, err)
		assert.Equal(t, 10, i)

		b, err := Bool("PROCAT_TEST_UNSET_BOOL", true)
		require.NoError(t, err)
		assert.True(t, b)

		d, err := Duration("PROCAT_TEST_UNSET_DUR", time.Second)
		require.NoError(t, err)
		assert.Equal(t, time.Second, d)

		f, err := Float("PROCAT_TEST_UNSET_FLOAT", 1.5)
		require.NoError(t, err)
		assert.Equal(t, 1.5, f)
	})

	t.Run("parses set values", func(t *testing.T) {
		t.Setenv("PROCAT_TEST_INT", "25")
		t.Setenv("PROCAT_TEST_BOOL", "false")
		t.Setenv("PROCAT_TEST_DUR", "150ms")
		t.Setenv("PROCAT_TEST_FLOAT", "2.5")

		i, err := Int("PROCAT_TEST_INT", 0)
		require.NoError(t, err)
		assert.Equal(t, 25, i)

		b, err := Bool("PROCAT_TEST_BOOL", true)
		require.NoError(t, err)
		assert.False(t, b)

		d, err := Duration("PROCAT_TEST_DUR", 0)
		require.NoError(t, err)
		assert.Equal(t, 150*time.Millisecond, d)

		f, err := Float("PROCAT_TEST_FLOAT", 0)
		require.NoError(t, err)
		assert.Equal(t, 2.5, f)
	})

	t.Run("reports the key on parse failure", func(t *testing.T) {
		t.Setenv("PROCAT_TEST_BAD_INT", "ten")
		_, err := Int("PROCAT_TEST_BAD_INT", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PROCAT_TEST_BAD_INT")
	})
}
