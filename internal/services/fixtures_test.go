package services

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"drawing-service/internal/models"
)

const viewerMetadata = `{
  "project": {"name": "Tower", "unit": "mm"},
  "disciplines": [{"name": "건축"}, {"name": "구조"}],
  "drawings": {
    "00": {"id": "00", "name": "Site", "image": "site.png", "parent": null},
    "01": {
      "id": "01", "name": "1F", "parent": "00",
      "disciplines": {
        "건축": {
          "image": "1F 건축.png",
          "revisions": [
            {"version": "REV1", "image": "1F 건축 REV1.png", "date": "2025-01-01", "description": "first", "changes": ["a"]},
            {"version": "REV2", "image": "1F 건축 REV2.png", "date": "2025-02-01", "description": "second", "changes": []}
          ]
        },
        "구조": {
          "regions": {
            "B": {"revisions": [{"version": "REV1", "image": "1F 구조 B REV1.png", "date": "", "description": "", "changes": []}]},
            "A": {"revisions": [{"version": "REV1", "image": "1F 구조 A REV1.png", "date": "", "description": "", "changes": []}]}
          }
        }
      }
    }
  }
}`

// reloadedMetadata drops 건축 REV2 and the whole 구조 discipline.
const reloadedMetadata = `{
  "project": {"name": "Tower", "unit": "mm"},
  "disciplines": [{"name": "건축"}],
  "drawings": {
    "00": {"id": "00", "name": "Site", "image": "site.png", "parent": null},
    "01": {
      "id": "01", "name": "1F", "parent": "00",
      "disciplines": {
        "건축": {
          "image": "1F 건축.png",
          "revisions": [
            {"version": "REV1", "image": "1F 건축 REV1.png", "date": "2025-01-01", "description": "first", "changes": ["a"]}
          ]
        }
      }
    }
  }
}`

type funcSource struct {
	name  string
	fetch func(ctx context.Context) ([]byte, error)
	calls int
	mu    sync.Mutex
}

func staticSource(doc string) *funcSource {
	return &funcSource{name: "test", fetch: func(context.Context) ([]byte, error) { return []byte(doc), nil }}
}

func failingSource(err error) *funcSource {
	return &funcSource{name: "test", fetch: func(context.Context) ([]byte, error) { return nil, err }}
}

func (s *funcSource) Name() string { return s.name }

func (s *funcSource) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fetch(ctx)
}

type memorySnapshots struct {
	created []*models.MetadataSnapshot
}

func (r *memorySnapshots) Create(snapshot *models.MetadataSnapshot) error {
	r.created = append(r.created, snapshot)
	return nil
}

func (r *memorySnapshots) Latest() (*models.MetadataSnapshot, error) {
	if len(r.created) == 0 {
		return nil, errors.New("no snapshot")
	}
	return r.created[len(r.created)-1], nil
}

func (r *memorySnapshots) FindByChecksum(checksum string) (*models.MetadataSnapshot, error) {
	for _, snapshot := range r.created {
		if snapshot.Checksum == checksum {
			return snapshot, nil
		}
	}
	return nil, nil
}

func (r *memorySnapshots) List(limit int) ([]models.MetadataSnapshot, error) {
	out := make([]models.MetadataSnapshot, 0, len(r.created))
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.created[i])
	}
	return out, nil
}
