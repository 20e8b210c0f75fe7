package models

import "time"

// Country is keyed by its 3-letter code rather than a surrogate key.
type Country struct {
	Code      string    `gorm:"column:id_pais;type:char(3);primaryKey" json:"id_pais"`
	Name      string    `gorm:"column:nombre_pais;size:100;not null" json:"nombre_pais"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Country) TableName() string { return "paises" }
