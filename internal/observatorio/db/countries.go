package db

import (
	"context"

	"github.com/gartstein/observatorio/internal/observatorio/models"
)

func (r *Repository) ListCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	result := r.db.WithContext(ctx).Order("id_pais").Find(&countries)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return countries, nil
}

func (r *Repository) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	var country models.Country
	result := r.db.WithContext(ctx).First(&country, "id_pais = ?", code)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &country, nil
}

func (r *Repository) CountryExists(ctx context.Context, code string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Country{}).
		Where("id_pais = ?", code).
		Limit(1).
		Count(&count)
	return count > 0, translate(result.Error)
}

func (r *Repository) CreateCountry(ctx context.Context, country *models.Country) error {
	return translate(r.db.WithContext(ctx).Create(country).Error)
}
