package db

import (
	"context"

	"github.com/gartstein/observatorio/internal/observatorio/models"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *Repository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id_usuario = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &user, nil
}
