package integrationtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dvctree/internal/relpath"
	"github.com/vk/dvctree/internal/render"
	"github.com/vk/dvctree/internal/schema"
	"gopkg.in/yaml.v3"
)

type scanDocument struct {
	DvcFiles []struct {
		Path string `yaml:"path"`
		Wdir string `yaml:"wdir"`
	} `yaml:"dvc_files"`
	Pipelines []struct {
		Path   string `yaml:"path"`
		Lock   string `yaml:"lock"`
		Stages []struct {
			Name   string `yaml:"name"`
			Cmd    string `yaml:"cmd"`
			Wdir   string `yaml:"wdir"`
			Locked bool   `yaml:"locked"`
		} `yaml:"stages"`
	} `yaml:"pipelines"`
}

func TestScan_MixedRepository(t *testing.T) {
	// --- Act ---
	result := runDvctree(t, mixedRepo, "scan", "-format", "yaml")

	// --- Assert ---
	require.NoError(t, result.Err)

	var doc scanDocument
	require.NoError(t, yaml.Unmarshal([]byte(result.Output), &doc))

	require.Len(t, doc.DvcFiles, 1)
	assert.Equal(t, "data.dvc", doc.DvcFiles[0].Path)
	assert.Equal(t, "", doc.DvcFiles[0].Wdir)

	require.Len(t, doc.Pipelines, 2)

	root := doc.Pipelines[0]
	assert.Equal(t, "dvc.yaml", root.Path)
	assert.Empty(t, root.Lock)
	require.Len(t, root.Stages, 2)
	assert.Equal(t, "prepare", root.Stages[0].Name)
	assert.Equal(t, "evaluate", root.Stages[1].Name)
	assert.Equal(t, "python src/evaluate.py\npython src/plots.py", root.Stages[1].Cmd)

	nested := doc.Pipelines[1]
	assert.Equal(t, "experiments/dvc.yaml", nested.Path)
	assert.Equal(t, "experiments/dvc.lock", nested.Lock)
	require.Len(t, nested.Stages, 2)
	assert.Equal(t, "train@small", nested.Stages[0].Name)
	assert.Equal(t, "models/small", nested.Stages[0].Wdir)
	assert.True(t, nested.Stages[0].Locked)
	assert.Equal(t, "train@large", nested.Stages[1].Name)
	assert.Equal(t, "python train.py --size large", nested.Stages[1].Cmd)
	assert.False(t, nested.Stages[1].Locked)
}

func TestScan_TextReport(t *testing.T) {
	files := map[string]string{
		"dvc.yaml": `
stages:
  build:
    cmd:
    - make
    - make test
    outs: [bin]
`,
	}

	result := runDvctree(t, files, "scan")

	require.NoError(t, result.Err)
	expected := "Stages:\n" +
		"Pipelines:\n" +
		"- dvc.yaml (lock: none)\n" +
		"  - build [make && make test] wdir: ., outs: 1, unlocked\n"
	assert.Equal(t, expected, result.Output)
}

func TestScan_Failures(t *testing.T) {
	testCases := []struct {
		name      string
		files     map[string]string
		expectErr error
	}{
		{
			name:      "malformed yaml",
			files:     map[string]string{"dvc.yaml": "stages:\n  a: [\n"},
			expectErr: schema.ErrDecode,
		},
		{
			name:      "multi key artifact entry",
			files:     map[string]string{"dvc.yaml": "stages:\n  s:\n    cmd: x\n    outs:\n    - a: {}\n      b: {}\n"},
			expectErr: schema.ErrInvalidArtifactEntry,
		},
		{
			name: "colliding expanded stage",
			files: map[string]string{"dvc.yaml": `
stages:
  build@x:
    cmd: echo plain
  build:
    foreach: [x]
    do:
      cmd: echo ${item}
`},
			expectErr: render.ErrDuplicateStageKey,
		},
		{
			name:      "lock file type mismatch",
			files:     map[string]string{"dvc.lock": "stages: [1, 2]\n"},
			expectErr: schema.ErrDecode,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := runDvctree(t, tc.files, "scan")
			require.Error(t, result.Err)
			assert.ErrorIs(t, result.Err, tc.expectErr)
			assert.Empty(t, result.Output)
		})
	}
}

func TestScan_StageWdirEscapesRoot(t *testing.T) {
	files := map[string]string{
		"dvc.yaml": "stages:\n  up:\n    cmd: ls\n    wdir: ../..\n",
	}

	result := runDvctree(t, files, "scan")

	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "wdir: "+relpath.New("../..").String())
}
