package models

import "time"

// TechnologyTrend is a technology trend companies can be associated with.
type TechnologyTrend struct {
	ID          uint      `gorm:"column:id_tendencia;primaryKey;autoIncrement" json:"id_tendencia"`
	Name        string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Description *string   `gorm:"column:descripcion;type:text" json:"descripcion"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (TechnologyTrend) TableName() string { return "tendencias_tecnologicas" }

func (t TechnologyTrend) PrimaryKey() uint { return t.ID }

// CompanyTrend links a Company to a TechnologyTrend.
type CompanyTrend struct {
	CompanyID uint      `gorm:"column:id_empresa;primaryKey;autoIncrement:false" json:"id_empresa"`
	TrendID   uint      `gorm:"column:id_tendencia;primaryKey;autoIncrement:false" json:"id_tendencia"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Company *Company         `gorm:"foreignKey:CompanyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Trend   *TechnologyTrend `gorm:"foreignKey:TrendID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (CompanyTrend) TableName() string { return "empresas_tendencias" }
