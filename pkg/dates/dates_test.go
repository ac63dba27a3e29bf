package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Layouts(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-05", "05-Mar-2024", "2024-03-05T00:00:00Z", "2024-03-05T00:00:00"} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s => %s", in, got)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2024/03/05"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestParseOptional(t *testing.T) {
	got, err := ParseOptional("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptional("2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 31, got.Day())
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 1, 2, 15, 4, 5, 6, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), StartOfDay(in))
}
