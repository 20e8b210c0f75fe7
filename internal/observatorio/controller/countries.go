package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/events"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"go.uber.org/zap"
)

type CountryRepository interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	CountryExists(ctx context.Context, code string) (bool, error)
	CreateCountry(ctx context.Context, country *models.Country) error
}

type CountryService struct {
	repo     CountryRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewCountryService(repo CountryRepository, producer EventProducer, logger *zap.Logger) *CountryService {
	return &CountryService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("country_service"),
	}
}

func (s *CountryService) List(ctx context.Context) ([]models.Country, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	if countries == nil {
		countries = []models.Country{}
	}
	return countries, nil
}

func (s *CountryService) Get(ctx context.Context, code string) (*models.Country, error) {
	country, err := s.repo.GetCountry(ctx, code)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	return country, nil
}

func (s *CountryService) Exists(ctx context.Context, code string) (bool, error) {
	ok, err := s.repo.CountryExists(ctx, code)
	if err != nil {
		return false, fmt.Errorf("failed to check country existence: %w", err)
	}
	return ok, nil
}

func (s *CountryService) Create(ctx context.Context, country *models.Country) (*models.Country, error) {
	if err := s.repo.CreateCountry(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to create country: %w", err)
	}
	s.producer.Produce(events.Created, "paises", country.Code, country)
	return country, nil
}
