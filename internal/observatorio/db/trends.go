package db

import (
	"context"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
)

// TrendsForCompany returns the technology trends linked to a company.
func (r *Repository) TrendsForCompany(ctx context.Context, companyID uint) ([]models.TechnologyTrend, error) {
	var trends []models.TechnologyTrend
	result := r.db.WithContext(ctx).
		Joins("JOIN empresas_tendencias et ON et.id_tendencia = tendencias_tecnologicas.id_tendencia").
		Where("et.id_empresa = ?", companyID).
		Order("tendencias_tecnologicas.id_tendencia").
		Find(&trends)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return trends, nil
}

func (r *Repository) LinkTrend(ctx context.Context, link *models.CompanyTrend) error {
	return translate(r.db.WithContext(ctx).Omit("Company", "Trend").Create(link).Error)
}

func (r *Repository) UnlinkTrend(ctx context.Context, companyID, trendID uint) error {
	result := r.db.WithContext(ctx).
		Delete(&models.CompanyTrend{}, "id_empresa = ? AND id_tendencia = ?", companyID, trendID)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
