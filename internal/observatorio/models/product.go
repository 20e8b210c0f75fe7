package models

import "time"

// ProductOrService is a product or service offered by a company.
type ProductOrService struct {
	ID          uint      `gorm:"column:id_producto;primaryKey;autoIncrement" json:"id_producto"`
	CompanyID   uint      `gorm:"column:id_empresa;not null;index" json:"id_empresa"`
	Name        string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Type        string    `gorm:"column:tipo;size:100;not null" json:"tipo"`
	Description *string   `gorm:"column:descripcion;type:text" json:"descripcion"`
	LaunchDate  *Date     `gorm:"column:fecha_lanzamiento" json:"fecha_lanzamiento"`
	Image       *string   `gorm:"column:imagen_producto;size:255" json:"imagen_producto"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"empresa,omitempty"`
}

func (ProductOrService) TableName() string { return "productos_servicios" }

func (p ProductOrService) PrimaryKey() uint { return p.ID }
