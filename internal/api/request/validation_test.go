package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID_Valid(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseID_Empty(t *testing.T) {
	_, err := ParseID("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required ID")
}

func TestParseID_Invalid(t *testing.T) {
	for _, s := range []string{"abc", "0", "-3", "1.5", "99999999999999999999"} {
		_, err := ParseID(s)
		assert.Error(t, err, s)
	}
}
