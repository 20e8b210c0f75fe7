package models

import "time"

// DemandSurvey records the measured demand for a product in a country and year.
type DemandSurvey struct {
	ID          uint    `gorm:"column:id_encuesta;primaryKey;autoIncrement" json:"id_encuesta"`
	ProductID   uint    `gorm:"column:id_producto;not null;index" json:"id_producto"`
	CountryCode *string `gorm:"column:id_pais;type:char(3);index" json:"id_pais"`
	// Percentage is stored with two decimal places, between 0 and 100.
	Percentage float64   `gorm:"column:porcentaje_demanda;type:decimal(5,2);not null;check:porcentaje_demanda >= 0 AND porcentaje_demanda <= 100" json:"porcentaje_demanda"`
	Year       int       `gorm:"column:anio;not null" json:"anio"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`

	Product *ProductOrService `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"producto,omitempty"`
	Country *Country          `gorm:"foreignKey:CountryCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"pais,omitempty"`
}

func (DemandSurvey) TableName() string { return "encuestas_demanda" }

func (s DemandSurvey) PrimaryKey() uint { return s.ID }
