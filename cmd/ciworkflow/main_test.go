package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWorkflowCI(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, MarshalToWriter(
		&b,
		WorkflowCI(Target{OS: "linux", Arch: "arm64"}),
	))

	var found struct {
		Name string
		Jobs map[string]struct {
			Needs []string `yaml:"needs"`
			If    string   `yaml:"if"`
			Steps []struct {
				Run string            `yaml:"run"`
				Env map[string]string `yaml:"env"`
			} `yaml:"steps"`
		}
	}
	require.NoError(t, yaml.Unmarshal(b.Bytes(), &found))
	require.Equal(t, "ci", found.Name)
	require.Len(t, found.Jobs, 2)

	test, ok := found.Jobs["test"]
	require.True(t, ok, b.String())
	require.Equal(t, "go test -race ./...", test.Steps[len(test.Steps)-1].Run)

	build, ok := found.Jobs["build-linux-arm64"]
	require.True(t, ok, b.String())
	require.Equal(t, []string{"test"}, build.Needs)
	require.Equal(t, "startsWith(github.ref, 'refs/tags/')", build.If)
	require.Equal(t, "go build -o myfs-linux-arm64 ./cmd/myfs", build.Steps[2].Run)
	require.Equal(t, "arm64", build.Steps[2].Env["GOARCH"])
}
