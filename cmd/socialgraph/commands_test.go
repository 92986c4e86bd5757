package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../infrastructure/persistence/memory/testdata/snapshot.yaml"

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	defaults := []string{"--snapshot=" + fixture, "--now=2024-03-01T12:00:00Z", "--log-level=error"}
	cmd.SetArgs(append(defaults, args...))

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result), out.String())
	return result, nil
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, result map[string]interface{})
	}{
		{
			name: "path",
			args: []string{"path", "A", "C"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Equal(t, true, result["connected"])
				assert.Equal(t, 2.0, result["distance"])
			},
		},
		{
			name: "path across communities",
			args: []string{"path", "A", "D"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Equal(t, false, result["connected"])
				assert.Equal(t, -1.0, result["distance"])
			},
		},
		{
			name: "mutual",
			args: []string{"mutual", "A", "C"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Equal(t, 1.0, result["count"])
			},
		},
		{
			name: "suggest",
			args: []string{"suggest", "A", "--limit", "1"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Len(t, result["suggestions"], 1)
			},
		},
		{
			name: "communities",
			args: []string{"communities"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Len(t, result["communities"], 2)
				assert.Equal(t, 5.0, result["userCount"])
			},
		},
		{
			name: "backbone",
			args: []string{"backbone"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Len(t, result["edges"], 3)
			},
		},
		{
			name: "feed",
			args: []string{"feed", "A", "--limit", "10"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Equal(t, 1.0, result["page"])
				assert.Equal(t, 10.0, result["limit"])
				assert.NotEmpty(t, result["posts"])
			},
		},
		{
			name: "trending",
			args: []string{"trending", "--limit", "5"},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Len(t, result["posts"], 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := run(t, tt.args...)
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestCommands_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown user", []string{"path", "Z", "A"}},
		{"missing argument", []string{"mutual", "A"}},
		{"bad time", []string{"trending", "--now", "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
