package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	oldVersion := version
	version = "1.2.3"
	defer func() { version = oldVersion }()

	output, err := execute(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "chaja version 1.2.3\n", output)
}

func TestVersionCmd_DefaultsToDev(t *testing.T) {
	output, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, output, "chaja version dev")
}
