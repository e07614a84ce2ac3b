package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	z, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, z.Now().Location())

	_, err = Load("Not/AZone")
	assert.Error(t, err)
}
