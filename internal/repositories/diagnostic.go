package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"atsscore/ats-analyzer/internal/models"
)

type DiagnosticRepository interface {
	Create(diagnostic *models.Diagnostic) error
	FindByID(id uuid.UUID) (*models.Diagnostic, error)
	FindByEmail(email string) ([]models.Diagnostic, error)
	MarkPaid(id uuid.UUID) error
}

type diagnosticRepository struct {
	db *gorm.DB
}

func NewDiagnosticRepository(db *gorm.DB) DiagnosticRepository {
	return &diagnosticRepository{db: db}
}

// Create implements DiagnosticRepository.
func (d *diagnosticRepository) Create(diagnostic *models.Diagnostic) error {
	if err := d.db.Create(&diagnostic).Error; err != nil {
		return fmt.Errorf("failed to create diagnostic: %w", err)
	}

	return nil
}

// FindByID implements DiagnosticRepository.
func (d *diagnosticRepository) FindByID(id uuid.UUID) (*models.Diagnostic, error) {
	var diagnostic models.Diagnostic
	if err := d.db.Where("id = ?", id).First(&diagnostic).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("diagnostic not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find diagnostic: %w", err)
	}

	return &diagnostic, nil
}

// FindByEmail implements DiagnosticRepository.
func (d *diagnosticRepository) FindByEmail(email string) ([]models.Diagnostic, error) {
	var diagnostics []models.Diagnostic
	if err := d.db.Where("email = ?", email).Order("created_at DESC").Find(&diagnostics).Error; err != nil {
		return nil, fmt.Errorf("failed to find diagnostics: %w", err)
	}

	return diagnostics, nil
}

// MarkPaid implements DiagnosticRepository.
func (d *diagnosticRepository) MarkPaid(id uuid.UUID) error {
	result := d.db.Model(&models.Diagnostic{}).Where("id = ?", id).Update("pago", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark diagnostic as paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("diagnostic not found")
	}

	return nil
}
