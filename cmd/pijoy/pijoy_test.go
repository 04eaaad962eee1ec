package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("PIJOY_CONFIG", "")
	assert.Equal(t, "/a.yaml", findUserConfig([]string{"run", "--config=/a.yaml"}))
	assert.Equal(t, "/b.toml", findUserConfig([]string{"--config", "/b.toml", "run"}))
	assert.Equal(t, "", findUserConfig([]string{"run", "--config"}))

	t.Setenv("PIJOY_CONFIG", "/etc/pijoy/pads.json")
	assert.Equal(t, "/etc/pijoy/pads.json", findUserConfig([]string{"run"}))
}

func TestRunModes(t *testing.T) {
	t.Setenv("PIJOY_CONFIG", "")
	t.Chdir(t.TempDir())
	assert.Equal(t, 0, run([]string{"modes"}))
}
