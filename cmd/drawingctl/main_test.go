package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawing-service/internal/models"
	"drawing-service/internal/selection"
)

const testDocument = `{
  "project": {"name": "Tower", "unit": "mm"},
  "drawings": {
    "00": {"id": "00", "name": "Site", "image": "site.png"},
    "01": {
      "id": "01", "name": "1F",
      "disciplines": {
        "건축": {
          "image": "1F 건축.png",
          "revisions": [
            {"version": "REV1", "image": "1F 건축 REV1.png", "changes": []},
            {"version": "REV2", "image": "1F 건축 REV2.png", "changes": []}
          ]
        },
        "구조": {"image": "1F 구조.png"}
      }
    }
  }
}`

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o644))
	return path
}

func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.Bytes(), err
}

func TestNormalizeCmd(t *testing.T) {
	path := writeDocument(t)

	out, err := run(t, "normalize", "--file", path)
	require.NoError(t, err)

	var processed models.ProcessedData
	require.NoError(t, json.Unmarshal(out, &processed))
	assert.Equal(t, []string{models.AllDisciplines, "건축", "구조"}, processed.Disciplines)
	assert.Len(t, processed.Drawings, 5)

	out, err = run(t, "normalize", "--file", path, "--discipline", "구조")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &processed))
	require.Len(t, processed.Drawings, 1)
	assert.Equal(t, "01-구조-base", processed.Drawings[0].ID)

	_, err = run(t, "normalize", "--file", path, "--discipline", "전기")
	assert.Error(t, err)
}

func TestRevisionsCmd(t *testing.T) {
	path := writeDocument(t)

	out, err := run(t, "revisions", "--file", path, "--drawing", "01-건축-REV1")
	require.NoError(t, err)

	var revs []models.Revision
	require.NoError(t, json.Unmarshal(out, &revs))
	require.Len(t, revs, 2)
	assert.Equal(t, "REV1", revs[0].Version)
	assert.Equal(t, "REV2", revs[1].Version)

	_, err = run(t, "revisions", "--file", path, "--drawing", "missing")
	assert.Error(t, err)
}

func TestSelectCmd(t *testing.T) {
	path := writeDocument(t)

	out, err := run(t, "select", "--file", path, "--discipline", "건축")
	require.NoError(t, err)
	var state selection.State
	require.NoError(t, json.Unmarshal(out, &state))
	assert.Equal(t, []string{"01-건축-base"}, state.SelectedIDs)

	out, err = run(t, "select", "--file", path, "--discipline", "건축", "--compare",
		"--click", "01-건축-REV1", "--click", "01-건축-REV2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &state))
	assert.True(t, state.IsCompareMode)
	assert.Equal(t, []string{"01-건축-base", "01-건축-REV1", "01-건축-REV2"}, state.SelectedIDs)

	_, err = run(t, "select", "--file", path, "--discipline", "건축", "--click", "01-구조-base")
	assert.Error(t, err)
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := run(t, "normalize", "--file", filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
