package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"drawing-service/internal/models"
)

// ErrNoSnapshot is returned when no metadata snapshot has been recorded yet.
var ErrNoSnapshot = errors.New("no metadata snapshot")

// SnapshotRepository stores successfully loaded metadata documents.
type SnapshotRepository interface {
	Create(snapshot *models.MetadataSnapshot) error
	Latest() (*models.MetadataSnapshot, error)
	FindByChecksum(checksum string) (*models.MetadataSnapshot, error)
	List(limit int) ([]models.MetadataSnapshot, error)
}

// GormSnapshotRepository provides methods to interact with the MetadataSnapshot model in the database.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new GormSnapshotRepository with the provided GORM database connection.
func NewSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Create inserts a new snapshot.
func (r *GormSnapshotRepository) Create(snapshot *models.MetadataSnapshot) error {
	return r.db.Create(snapshot).Error
}

// Latest returns the most recently recorded snapshot.
func (r *GormSnapshotRepository) Latest() (*models.MetadataSnapshot, error) {
	var snapshot models.MetadataSnapshot
	err := r.db.Order("created_at DESC").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindByChecksum returns the snapshot with the given document checksum, or nil.
func (r *GormSnapshotRepository) FindByChecksum(checksum string) (*models.MetadataSnapshot, error) {
	var snapshot models.MetadataSnapshot
	err := r.db.Where("checksum = ?", checksum).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List returns up to limit snapshots, newest first. The document body is not loaded.
func (r *GormSnapshotRepository) List(limit int) ([]models.MetadataSnapshot, error) {
	var snapshots []models.MetadataSnapshot
	err := r.db.Omit("document").Order("created_at DESC").Limit(limit).Find(&snapshots).Error
	return snapshots, err
}
