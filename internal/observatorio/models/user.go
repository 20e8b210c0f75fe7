package models

import "time"

// User is an API account. PasswordHash holds a bcrypt hash and is never serialized.
type User struct {
	ID           uint      `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id_usuario"`
	Name         string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password;size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }
