package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dvctree/internal/interp"
	"github.com/vk/dvctree/internal/testutil"
	"gopkg.in/yaml.v3"
)

var sampleRepo = map[string]string{
	"data/raw.dvc": "wdir: processed\nouts:\n- path: result.csv\n  md5: abcd\n",
	"models/dvc.yaml": `
stages:
  train:
    foreach: [x, y]
    do:
      cmd: run ${item}
      outs: ["out-${item}.txt"]
`,
	"models/dvc.lock": "schema: '2.0'\nstages:\n  train@x:\n    cmd: run x\n",
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr string
		format    string
	}{
		{name: "defaults output format", cfg: Config{Root: ".", Command: CommandScan}, format: "text"},
		{name: "keeps yaml", cfg: Config{Root: ".", Command: CommandOutputs, OutputFormat: "yaml"}, format: "yaml"},
		{name: "missing root", cfg: Config{Command: CommandScan}, expectErr: "Root is a required"},
		{name: "unknown command", cfg: Config{Root: ".", Command: "run"}, expectErr: "unknown command"},
		{name: "bad format", cfg: Config{Root: ".", Command: CommandScan, OutputFormat: "xml"}, expectErr: "invalid output format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.format, cfg.OutputFormat)
		})
	}
}

func TestRun_OutputsText(t *testing.T) {
	root := testutil.WriteTree(t, sampleRepo)
	cfg, err := NewConfig(Config{Root: root, Command: CommandOutputs})
	require.NoError(t, err)

	a, out, logs := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t,
		"output: data/processed/result.csv cache=true md5=abcd\n"+
			"output: models/out-x.txt cache=true\n"+
			"output: models/out-y.txt cache=true\n",
		out.String())
	assert.Contains(t, logs.String(), "Scanned DVC tree.")
	assert.NotContains(t, out.String(), "Scanned DVC tree.")
}

func TestRun_OutputsJSON(t *testing.T) {
	root := testutil.WriteTree(t, sampleRepo)
	cfg, err := NewConfig(Config{Root: root, Command: CommandOutputs, OutputFormat: "json"})
	require.NoError(t, err)

	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.String()), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "data/processed/result.csv", decoded[0]["path"])
	assert.Equal(t, "abcd", decoded[0]["md5"])
	assert.Equal(t, true, decoded[1]["cache"])
	assert.NotContains(t, decoded[1], "size")
}

func TestRun_OutputsEmptyTreeJSON(t *testing.T) {
	cfg, err := NewConfig(Config{Root: t.TempDir(), Command: CommandOutputs, OutputFormat: "json"})
	require.NoError(t, err)

	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "[]\n", out.String())
}

func TestRun_ScanText(t *testing.T) {
	root := testutil.WriteTree(t, sampleRepo)
	cfg, err := NewConfig(Config{Root: root, Command: CommandScan})
	require.NoError(t, err)

	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))

	expected := "Stages:\n" +
		"- data/raw.dvc (wdir: data/processed, outs: 1, deps: 0)\n" +
		"Pipelines:\n" +
		"- models/dvc.yaml (lock: models/dvc.lock)\n" +
		"  - train@x [run x] wdir: models, outs: 1, locked\n" +
		"  - train@y [run y] wdir: models, outs: 1, unlocked\n"
	assert.Equal(t, expected, out.String())
}

func TestRun_ScanYAML(t *testing.T) {
	root := testutil.WriteTree(t, sampleRepo)
	cfg, err := NewConfig(Config{Root: root, Command: CommandScan, OutputFormat: "yaml"})
	require.NoError(t, err)

	a, out, _ := SetupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))

	var decoded struct {
		Root      string `yaml:"root"`
		Pipelines []struct {
			Path   string `yaml:"path"`
			Lock   string `yaml:"lock"`
			Stages []struct {
				Name   string `yaml:"name"`
				Locked bool   `yaml:"locked"`
			} `yaml:"stages"`
		} `yaml:"pipelines"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &decoded))
	assert.Equal(t, root, decoded.Root)
	require.Len(t, decoded.Pipelines, 1)
	assert.Equal(t, "models/dvc.lock", decoded.Pipelines[0].Lock)
	require.Len(t, decoded.Pipelines[0].Stages, 2)
	assert.True(t, decoded.Pipelines[0].Stages[0].Locked)
	assert.False(t, decoded.Pipelines[0].Stages[1].Locked)
}

func TestRun_Errors(t *testing.T) {
	t.Run("scan failure", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{"dvc.yaml": "stages: [\n"})
		cfg, err := NewConfig(Config{Root: root, Command: CommandOutputs})
		require.NoError(t, err)

		a, out, _ := SetupAppTest(t, cfg)
		err = a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan")
		assert.Empty(t, out.String())
	})

	t.Run("expansion failure", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"dvc.yaml": "stages:\n  s:\n    foreach: [a]\n    do:\n      cmd: ${nope}\n",
		})
		for _, command := range []string{CommandScan, CommandOutputs} {
			cfg, err := NewConfig(Config{Root: root, Command: command})
			require.NoError(t, err)

			a, out, _ := SetupAppTest(t, cfg)
			err = a.Run(context.Background())
			require.ErrorIs(t, err, interp.ErrUndefinedVariable)
			assert.Empty(t, out.String())
		}
	})
}
