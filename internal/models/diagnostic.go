package models

import (
	"time"

	"github.com/google/uuid"
)

// Diagnostic is one persisted analysis. Rows are append-only: a diagnostic is
// written once after the pipeline finishes and never re-analyzed in place.
type Diagnostic struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email          string    `gorm:"type:text;not null" json:"email"`
	CVContent      string    `gorm:"type:text" json:"cv_content"`
	JobDescription string    `gorm:"type:text" json:"job_description"`
	NotaATS        int       `gorm:"not null;default:0" json:"nota_ats"`
	AlertasTop2    string    `gorm:"type:jsonb" json:"alertas_top2"`
	JSONResultRich string    `gorm:"type:jsonb" json:"json_result_rich"`
	Pago           bool      `gorm:"not null;default:false" json:"pago"`
	CreatedAt      time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Diagnostic) TableName() string {
	return "diagnosticos"
}
