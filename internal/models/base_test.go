package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSlice_RoundTripBothDrivers(t *testing.T) {
	in := StringSlice{"https://img/1.png", "https://img/2.png"}
	v, err := in.Value()
	require.NoError(t, err)

	var fromString StringSlice
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, in, fromString)

	var fromBytes StringSlice
	require.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.Equal(t, in, fromBytes)

	nilValue, err := StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)

	assert.Error(t, fromBytes.Scan(42))
}
