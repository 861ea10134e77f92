// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package quirks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	data := []byte(`
rules:
  - name: rockchip
    name_prefixes: ["c2.rk."]
    quirk:
      vendor: rockchip
      ignores_color_keys: true
      low_latency_keys:
        - key: vendor.rk-low-latency.enable
          value: 1
`)
	rules, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "rockchip", rules[0].Name)
	assert.True(t, rules[0].Quirk.IgnoresColorKeys)
	assert.Equal(t, int32(1), rules[0].Quirk.LowLatencyKeys[0].Value)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field":   "rules:\n  - name: x\n    name_prefixes: [a]\n    bogus: 1\n",
		"missing name":    "rules:\n  - name_prefixes: [a]\n",
		"missing matcher": "rules:\n  - name: x\n",
		"multi document":  "rules: []\n---\nrules: []\n",
		"empty key":       "rules:\n  - name: x\n    fingerprint: [y]\n    quirk:\n      low_latency_keys:\n        - value: 1\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	rules, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quirks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: x\n    fingerprint: [board-x]\n"), 0o600))

	rules, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
