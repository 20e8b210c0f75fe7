package models

import "time"

// EventKind classifies a sector event.
type EventKind string

const (
	EventInvestment  EventKind = "Inversión"
	EventHack        EventKind = "Hackeo"
	EventAcquisition EventKind = "Adquisición"
	EventClosure     EventKind = "Cierre"
	EventOther       EventKind = "Otro"
)

// EventKinds lists every accepted EventKind in display order.
var EventKinds = []EventKind{EventInvestment, EventHack, EventAcquisition, EventClosure, EventOther}

// SectorEvent is a notable event in the sector, optionally tied to a company.
type SectorEvent struct {
	ID              uint      `gorm:"column:id_evento;primaryKey;autoIncrement" json:"id_evento"`
	Title           string    `gorm:"column:titulo;size:255;not null" json:"titulo"`
	Description     *string   `gorm:"column:descripcion;type:text" json:"descripcion"`
	Kind            EventKind `gorm:"column:tipo_evento;size:20;not null;check:tipo_evento IN ('Inversión','Hackeo','Adquisición','Cierre','Otro')" json:"tipo_evento"`
	Date            Date      `gorm:"column:fecha;not null" json:"fecha"`
	AffectedCountry string    `gorm:"column:pais_afectado;type:char(3);not null" json:"pais_afectado"`
	CompanyID       *uint     `gorm:"column:empresa_relacionada;index" json:"empresa_relacionada"`
	Image           *string   `gorm:"column:imagen_evento;size:255" json:"imagen_evento"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`

	Company *Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"empresa,omitempty"`
}

func (SectorEvent) TableName() string { return "eventos_sectores" }

func (e SectorEvent) PrimaryKey() uint { return e.ID }
