package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGetDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	t.Parallel()

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(GetDefaultConfigTemplate()), &parsed))
	assert.Equal(t, GetDefaults(), parsed)
}
