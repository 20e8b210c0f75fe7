package models

import "time"

// Company defines a company tracked by the observatory.
type Company struct {
	// ID is the surrogate key, assigned by the store.
	ID uint `gorm:"column:id_empresa;primaryKey;autoIncrement" json:"id_empresa"`
	// Name is the company's name.
	Name string `gorm:"column:nombre;size:255;not null" json:"nombre"`
	// CountryCode is the owning country, a 3-letter code.
	CountryCode string `gorm:"column:pais;type:char(3);not null;index" json:"pais"`
	// Sector is the industry sector the company operates in.
	Sector string `gorm:"column:sector;size:100;not null" json:"sector"`
	// FoundedYear is the year the company was founded.
	FoundedYear *int `gorm:"column:anio_fundacion" json:"anio_fundacion"`
	// Employees is the employee headcount.
	Employees *int `gorm:"column:empleados;check:empleados >= 0" json:"empleados"`
	// Website is the public website URL.
	Website *string `gorm:"column:sitio_web;size:255" json:"sitio_web"`
	// LinkedIn is the social profile URL.
	LinkedIn *string `gorm:"column:linkedin;size:255" json:"linkedin"`
	// Description provides details about the company.
	Description *string `gorm:"column:descripcion;type:text" json:"descripcion"`
	// Image is a reference to the company's logo or picture.
	Image *string `gorm:"column:imagen_empresa;size:255" json:"imagen_empresa"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Country *Country `gorm:"foreignKey:CountryCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"pais_detalle,omitempty"`
}

func (Company) TableName() string { return "empresas" }

func (c Company) PrimaryKey() uint { return c.ID }
