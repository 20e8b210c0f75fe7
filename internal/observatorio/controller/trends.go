package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/events"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"go.uber.org/zap"
)

type TrendLinkRepository interface {
	TrendsForCompany(ctx context.Context, companyID uint) ([]models.TechnologyTrend, error)
	LinkTrend(ctx context.Context, link *models.CompanyTrend) error
	UnlinkTrend(ctx context.Context, companyID, trendID uint) error
}

// CompanyTrendService manages the technology trends linked to companies.
type CompanyTrendService struct {
	repo     TrendLinkRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyTrendService(repo TrendLinkRepository, producer EventProducer, logger *zap.Logger) *CompanyTrendService {
	return &CompanyTrendService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_trend_service"),
	}
}

func (s *CompanyTrendService) Trends(ctx context.Context, companyID uint) ([]models.TechnologyTrend, error) {
	trends, err := s.repo.TrendsForCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company trends: %w", err)
	}
	if trends == nil {
		trends = []models.TechnologyTrend{}
	}
	return trends, nil
}

func (s *CompanyTrendService) Link(ctx context.Context, companyID, trendID uint) (*models.CompanyTrend, error) {
	link := &models.CompanyTrend{CompanyID: companyID, TrendID: trendID}
	if err := s.repo.LinkTrend(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to link trend: %w", err)
	}
	s.producer.Produce(events.Linked, "empresas-tendencias", linkKey(companyID, trendID), link)
	return link, nil
}

func (s *CompanyTrendService) Unlink(ctx context.Context, companyID, trendID uint) error {
	if err := s.repo.UnlinkTrend(ctx, companyID, trendID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to unlink trend: %w", err)
	}
	s.producer.Produce(events.Unlinked, "empresas-tendencias", linkKey(companyID, trendID), nil)
	return nil
}

func linkKey(companyID, trendID uint) string {
	return strconv.FormatUint(uint64(companyID), 10) + ":" + strconv.FormatUint(uint64(trendID), 10)
}
