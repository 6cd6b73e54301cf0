package integrationtests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dvctree/internal/dvctree"
)

// A repository mixing tracked data files, a root pipeline and a nested
// pipeline that changes its working directory.
var mixedRepo = map[string]string{
	"data.dvc": `
outs:
- md5: 22a1a2931c8370d3aeedd7183606fd7f
  path: data.xml
`,
	"dvc.yaml": `
stages:
  prepare:
    cmd: python src/prepare.py data/data.xml
    deps:
    - src/prepare.py
    - data/data.xml
    outs:
    - data/prepared
  evaluate:
    cmd:
    - python src/evaluate.py
    - python src/plots.py
    metrics:
    - scores.json:
        cache: false
`,
	"experiments/dvc.yaml": `
stages:
  train:
    foreach:
    - small
    - large
    do:
      wdir: ../models/${item}
      cmd: python train.py --size ${item}
      outs:
      - model-${item}.pkl
      - logs:
          cache: false
`,
	"experiments/dvc.lock": `
schema: '2.0'
stages:
  train@small:
    cmd: python train.py --size small
    outs:
    - path: model-small.pkl
      md5: 3863d0e317dee0a55c4e59d2ec0eef33
`,
	"README.md": "# not tracked\n",
}

func TestOutputs_MixedRepository(t *testing.T) {
	// --- Act ---
	result := runDvctree(t, mixedRepo, "-format", "json", "outputs")

	// --- Assert ---
	require.NoError(t, result.Err)

	var outs []dvctree.Output
	require.NoError(t, json.Unmarshal([]byte(result.Output), &outs))

	expected := []dvctree.Output{
		{Path: "data.xml", Cache: true, MD5: "22a1a2931c8370d3aeedd7183606fd7f"},
		{Path: "data/prepared", Cache: true},
		{Path: "models/small/model-small.pkl", Cache: true},
		{Path: "models/small/logs", Cache: false},
		{Path: "models/large/model-large.pkl", Cache: true},
		{Path: "models/large/logs", Cache: false},
	}
	assert.Equal(t, expected, outs)
	assert.Contains(t, result.LogOutput, "Scanned DVC tree.")
}

func TestOutputs_DvcFileWdir(t *testing.T) {
	files := map[string]string{
		"raw/images.dvc": "wdir: ../../shared\nouts:\n- path: images\n",
	}

	result := runDvctree(t, files, "outputs")

	require.NoError(t, result.Err)
	assert.Equal(t, "output: ../shared/images cache=true\n", result.Output)
}

func TestOutputs_ExpansionFailureProducesNoOutput(t *testing.T) {
	files := map[string]string{
		"ok.dvc": "outs:\n- path: ok.txt\n",
		"dvc.yaml": `
stages:
  broken:
    foreach: [a]
    do:
      cmd: echo ${missing}
`,
	}

	result := runDvctree(t, files, "outputs")

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "missing")
	assert.Empty(t, result.Output)
}
