// -- cmd/simulate_test.go --
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lancet/internal/config"
)

const simulateMarkup = `<html><body>
<div id="app">
  <ul>
    <li class="item"><span id="inner">one</span></li>
    <li>two</li>
  </ul>
</div>
</body></html>`

const simulateScenarioJSON = `{
  "listeners": [
    {"target": "#app", "event": "cart:checkout"},
    {"target": "", "event": "dom:loaded"}
  ],
  "delegations": [
    {"root": "body", "event": "click", "selector": "li.item"}
  ],
  "steps": [
    {"action": "dispatch", "target": "#inner", "event": "click"},
    {"action": "fire", "target": "#inner", "event": "cart:checkout", "memo": {"total": 42}},
    {"action": "fire", "target": "#app", "event": "cart:ignored", "bubbles": false}
  ]
}`

func writeSimulateFixtures(t *testing.T) (docPath, scenarioPath string) {
	t.Helper()
	dir := t.TempDir()
	docPath = filepath.Join(dir, "page.html")
	scenarioPath = filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(docPath, []byte(simulateMarkup), 0o644))
	require.NoError(t, os.WriteFile(scenarioPath, []byte(simulateScenarioJSON), 0o644))
	return docPath, scenarioPath
}

func TestLoadScenario(t *testing.T) {
	_, scenarioPath := writeSimulateFixtures(t)

	s, err := LoadScenario(scenarioPath)
	require.NoError(t, err)
	assert.Len(t, s.Listeners, 2)
	assert.Len(t, s.Delegations, 1)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "dispatch", s.Steps[0].Action)
	assert.Equal(t, map[string]any{"total": float64(42)}, s.Steps[1].Memo)
	require.NotNil(t, s.Steps[2].Bubbles)
	assert.False(t, *s.Steps[2].Bubbles)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunSimulate(t *testing.T) {
	docPath, scenarioPath := writeSimulateFixtures(t)

	cfg := config.NewDefaultConfig()
	cfg.SetSimulateDocumentPath(docPath)
	cfg.SetSimulateScenarioPath(scenarioPath)

	var out bytes.Buffer
	require.NoError(t, runSimulate(cfg, zap.NewNop(), &out))

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.Equal(t, docPath, report.Document)
	assert.Equal(t, 3, report.Steps)
	assert.True(t, report.DocumentLoaded)

	// Expected invocations: the dom:loaded observer (relayed after install),
	// the delegated click resolving to the li.item, and the bubbled
	// cart:checkout reaching #app. The non-bubbling cart:ignored fired on
	// #app itself has no observer for that name, so nothing records it.
	require.Len(t, report.Invocations, 3)

	kinds := map[string]int{}
	for _, inv := range report.Invocations {
		kinds[inv.Kind]++
	}
	assert.Equal(t, 2, kinds["observe"])
	assert.Equal(t, 1, kinds["delegate"])

	var delegate *Invocation
	var checkout *Invocation
	for i := range report.Invocations {
		inv := &report.Invocations[i]
		switch {
		case inv.Kind == "delegate":
			delegate = inv
		case inv.Event == "cart:checkout":
			checkout = inv
		}
	}
	require.NotNil(t, delegate)
	assert.Equal(t, "click", delegate.Event)
	assert.Contains(t, delegate.Match, "li[1]", "delegation must resolve to the matching li, not the span")

	require.NotNil(t, checkout)
	assert.Equal(t, map[string]any{"total": float64(42)}, checkout.Memo)
}

func TestRunSimulateErrors(t *testing.T) {
	docPath, _ := writeSimulateFixtures(t)
	logger := zap.NewNop()

	cfg := config.NewDefaultConfig()
	var out bytes.Buffer
	err := runSimulate(cfg, logger, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document given")

	cfg.SetSimulateDocumentPath(docPath)
	err = runSimulate(cfg, logger, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario given")

	// A scenario step referencing a missing element surfaces the selector.
	badScenario := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badScenario, []byte(`{"steps":[{"action":"fire","target":"#ghost","event":"a:b"}]}`), 0o644))
	cfg.SetSimulateScenarioPath(badScenario)
	err = runSimulate(cfg, logger, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#ghost")
}

func TestRunnerStressWorkers(t *testing.T) {
	docPath, scenarioPath := writeSimulateFixtures(t)

	cfg := config.NewDefaultConfig()
	cfg.SetSimulateDocumentPath(docPath)
	cfg.SetSimulateScenarioPath(scenarioPath)
	cfg.SetSimulateStressWorkers(4)

	var out bytes.Buffer
	require.NoError(t, runSimulate(cfg, zap.NewNop(), &out))

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	// One dom:loaded relay plus 4 workers x 2 recording steps each.
	assert.Len(t, report.Invocations, 1+4*2)
}
