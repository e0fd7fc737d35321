package revisions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawing-service/internal/models"
)

const doc = `{
  "drawings": {
    "01": {
      "id": "01", "name": "1F",
      "disciplines": {
        "both": {
          "revisions": [{"version": "v1", "image": "v1.png", "changes": []}],
          "regions": {"R": {"revisions": [{"version": "v2", "image": "v2.png", "changes": []}]}}
        },
        "regional": {
          "regions": {
            "B": {"revisions": [{"version": "b1", "image": "b1.png"}, {"version": "b2", "image": "b2.png"}]},
            "Empty": {},
            "A": {"revisions": [{"version": "a1", "image": "a1.png"}]}
          }
        },
        "plain": {"image": "plain.png"}
      }
    },
    "02": {"id": "02", "name": "Roof", "image": "roof.png"}
  }
}`

func load(t *testing.T) *models.Metadata {
	t.Helper()
	meta, err := models.DecodeMetadata([]byte(doc))
	require.NoError(t, err)
	return meta
}

func versions(revs []models.Revision) []string {
	out := make([]string, len(revs))
	for i, r := range revs {
		out[i] = r.Version
	}
	return out
}

func TestResolve_DisciplineLevelWinsWithoutRegion(t *testing.T) {
	drawing := &models.AppDrawing{ID: "01-both-v1", DrawingID: "01", Discipline: "both"}
	assert.Equal(t, []string{"v1"}, versions(Resolve(drawing, load(t))))
}

func TestResolve_PinnedRegionWinsOverDiscipline(t *testing.T) {
	drawing := &models.AppDrawing{ID: "01-both-regionR-v2", DrawingID: "01", Discipline: "both", RegionKey: "R"}
	assert.Equal(t, []string{"v2"}, versions(Resolve(drawing, load(t))))
}

func TestResolve_UnknownRegionFallsBackToDiscipline(t *testing.T) {
	drawing := &models.AppDrawing{DrawingID: "01", Discipline: "both", RegionKey: "missing"}
	assert.Equal(t, []string{"v1"}, versions(Resolve(drawing, load(t))))
}

func TestResolve_PinnedRegionOnly(t *testing.T) {
	drawing := &models.AppDrawing{DrawingID: "01", Discipline: "regional", RegionKey: "A"}
	assert.Equal(t, []string{"a1"}, versions(Resolve(drawing, load(t))))
}

func TestResolve_MergesRegionsInOrderWhenNotPinned(t *testing.T) {
	drawing := &models.AppDrawing{DrawingID: "01", Discipline: "regional"}
	assert.Equal(t, []string{"b1", "b2", "a1"}, versions(Resolve(drawing, load(t))))
}

func TestResolve_EmptyRegionPinnedFallsBackToMerge(t *testing.T) {
	drawing := &models.AppDrawing{DrawingID: "01", Discipline: "regional", RegionKey: "Empty"}
	assert.Equal(t, []string{"b1", "b2", "a1"}, versions(Resolve(drawing, load(t))))
}

func TestResolve_MissingLinkage(t *testing.T) {
	meta := load(t)

	tests := []struct {
		name    string
		drawing *models.AppDrawing
		meta    *models.Metadata
	}{
		{"no drawing", nil, meta},
		{"no metadata", &models.AppDrawing{DrawingID: "01", Discipline: "both"}, nil},
		{"unknown drawing", &models.AppDrawing{DrawingID: "99", Discipline: "both"}, meta},
		{"no disciplines", &models.AppDrawing{DrawingID: "02", Discipline: models.AllDisciplines}, meta},
		{"unknown discipline", &models.AppDrawing{DrawingID: "01", Discipline: "nope"}, meta},
		{"no history", &models.AppDrawing{DrawingID: "01", Discipline: "plain"}, meta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revs := Resolve(tt.drawing, tt.meta)
			assert.NotNil(t, revs)
			assert.Empty(t, revs)
		})
	}
}

func TestResolve_FindsDrawingByDeclaredID(t *testing.T) {
	meta, err := models.DecodeMetadata([]byte(`{"drawings": {"key": {"id": "other", "disciplines": {"d": {"revisions": [{"version": "r"}]}}}}}`))
	require.NoError(t, err)

	drawing := &models.AppDrawing{DrawingID: "other", Discipline: "d"}
	assert.Equal(t, []string{"r"}, versions(Resolve(drawing, meta)))
}
