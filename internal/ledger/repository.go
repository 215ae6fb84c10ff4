package ledger

import (
	"github.com/google/uuid"
	"github.com/ledgerline/backend/internal/models"
	"gorm.io/gorm"
)

// Repository is the narrow interface to the persistence collaborator. The
// store mirrors every accepted mutation to it but never reads through it
// outside of List.
type Repository interface {
	Create(transaction *models.Transaction) error
	Update(transaction models.Transaction) error
	Delete(id uuid.UUID) error
	List() ([]models.Transaction, error)
}

// GormRepository persists transactions with gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository returns a repository backed by the database passed in.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(transaction *models.Transaction) error {
	return r.db.Create(transaction).Error
}

func (r *GormRepository) Update(transaction models.Transaction) error {
	// Save replaces the full record, matching the store's
	// whole-record update semantics
	return r.db.Save(&transaction).Error
}

func (r *GormRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Transaction{DefaultModel: models.DefaultModel{ID: id}}).Error
}

func (r *GormRepository) List() ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Find(&transactions).Error
	return transactions, err
}
