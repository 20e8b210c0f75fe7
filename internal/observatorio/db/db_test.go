package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := NewRepository(context.Background(), &Config{Driver: DriverSQLite, Path: ":memory:"}, zaptest.NewLogger(t))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedCountry(t *testing.T, repo *Repository, code string) {
	require.NoError(t, repo.CreateCountry(context.Background(), &models.Country{Code: code, Name: "Country " + code}))
}

func seedCompany(t *testing.T, repo *Repository, name string) *models.Company {
	company := &models.Company{Name: name, CountryCode: "ARG", Sector: "Software"}
	require.NoError(t, NewStore[models.Company](repo, CompanyTable).Create(context.Background(), company))
	return company
}

func seedProduct(t *testing.T, repo *Repository, companyID uint, name string) *models.ProductOrService {
	product := &models.ProductOrService{CompanyID: companyID, Name: name, Type: "Hardware"}
	require.NoError(t, NewStore[models.ProductOrService](repo, ProductTable).Create(context.Background(), product))
	return product
}

func ptr[T any](v T) *T { return &v }

func TestNewRepositoryUnsupportedDriver(t *testing.T) {
	_, err := NewRepository(context.Background(), &Config{Driver: "oracle"}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(""))
	assert.Equal(t, "data.db?_foreign_keys=on", sqliteDSN("data.db"))
	assert.Equal(t, "file:data.db?cache=shared&_foreign_keys=on", sqliteDSN("file:data.db?cache=shared"))
}

func TestPing(t *testing.T) {
	repo := SetupTestDB(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

// TestCreateCompany tests the creation of a company record.
func TestCreateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	store := NewStore[models.Company](repo, CompanyTable)

	first := seedCompany(t, repo, "Acme")
	second := seedCompany(t, repo, "Globex")
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID, "generated ids should be unique")

	retrieved, err := store.Get(ctx, first.ID)
	require.NoError(t, err, "Get should retrieve the created company")
	assert.Equal(t, "Acme", retrieved.Name)
	require.NotNil(t, retrieved.Country, "country relation should be preloaded")
	assert.Equal(t, "ARG", retrieved.Country.Code)
	assert.False(t, retrieved.CreatedAt.IsZero())
}

// TestGetNotFound verifies error handling when the row does not exist.
func TestGetNotFound(t *testing.T) {
	repo := SetupTestDB(t)
	store := NewStore[models.ProductOrService](repo, ProductTable)

	_, err := store.Get(context.Background(), 999999)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	store := NewStore[models.TechnologyTrend](repo, TrendTable)

	rows, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	for _, name := range []string{"IA", "Blockchain", "Cloud"} {
		require.NoError(t, store.Create(ctx, &models.TechnologyTrend{Name: name}))
	}
	rows, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "IA", rows[0].Name, "rows should be ordered by id")
}

func TestExists(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	company := seedCompany(t, repo, "Acme")
	store := NewStore[models.Company](repo, CompanyTable)

	ok, err := store.Exists(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, company.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestUpdateCompany checks that only the given columns change.
func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	store := NewStore[models.Company](repo, CompanyTable)

	company := &models.Company{
		Name:        "Old Name",
		CountryCode: "ARG",
		Sector:      "Fintech",
		Employees:   ptr(10),
	}
	require.NoError(t, store.Create(ctx, company))

	err := store.Update(ctx, company.ID, map[string]any{"nombre": "New Name"})
	require.NoError(t, err)

	updated, err := store.Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Fintech", updated.Sector, "omitted fields stay unchanged")
	require.NotNil(t, updated.Employees)
	assert.Equal(t, 10, *updated.Employees)
}

// TestUpdateNotFound tests updating a non-existing row.
func TestUpdateNotFound(t *testing.T) {
	repo := SetupTestDB(t)
	store := NewStore[models.TechnologyTrend](repo, TrendTable)

	err := store.Update(context.Background(), 42, map[string]any{"nombre": "Non-existent"})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

// TestDelete ensures rows are deleted and a second delete reports not found.
func TestDelete(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	store := NewStore[models.TechnologyTrend](repo, TrendTable)

	trend := &models.TechnologyTrend{Name: "IA"}
	require.NoError(t, store.Create(ctx, trend))

	require.NoError(t, store.Delete(ctx, trend.ID))
	_, err := store.Get(ctx, trend.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, trend.ID), e.ErrNotFound)
}

func TestSearchPrefix(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	for _, name := range []string{"Acme Corp", "acme labs", "Globex", "The Acme"} {
		seedCompany(t, repo, name)
	}
	store := NewStore[models.Company](repo, CompanyTable)

	rows, err := store.Search(ctx, "ACM", 20)
	require.NoError(t, err)
	require.Len(t, rows, 2, "match is a case-insensitive prefix")
	assert.Equal(t, "Acme Corp", rows[0].Name)
	assert.Equal(t, "acme labs", rows[1].Name)

	rows, err = store.Search(ctx, "zzz", 20)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchEscapesWildcards(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	seedCompany(t, repo, "100% Natural")
	seedCompany(t, repo, "1000 Ideas")
	seedCompany(t, repo, "A_B Systems")
	seedCompany(t, repo, "AXB Systems")
	store := NewStore[models.Company](repo, CompanyTable)

	rows, err := store.Search(ctx, "100%", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100% Natural", rows[0].Name)

	rows, err = store.Search(ctx, "A_B", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A_B Systems", rows[0].Name)
}

func TestSearchLimit(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	store := NewStore[models.TechnologyTrend](repo, TrendTable)
	for i := 0; i < 25; i++ {
		require.NoError(t, store.Create(ctx, &models.TechnologyTrend{Name: fmt.Sprintf("Cloud %02d", i)}))
	}

	rows, err := store.Search(ctx, "cloud", 20)
	require.NoError(t, err)
	assert.Len(t, rows, 20)
}

func TestSearchWithoutScope(t *testing.T) {
	repo := SetupTestDB(t)
	store := NewStore[models.TechnologyTrend](repo, Table{IDColumn: "id_tendencia"})

	_, err := store.Search(context.Background(), "x", 20)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestSurveySearchByProductName(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	company := seedCompany(t, repo, "Acme")
	widget := seedProduct(t, repo, company.ID, "Widget")
	gadget := seedProduct(t, repo, company.ID, "Gadget")
	store := NewStore[models.DemandSurvey](repo, SurveyTable)

	require.NoError(t, store.Create(ctx, &models.DemandSurvey{ProductID: widget.ID, CountryCode: ptr("ARG"), Percentage: 45.5, Year: 2024}))
	require.NoError(t, store.Create(ctx, &models.DemandSurvey{ProductID: gadget.ID, Percentage: 12, Year: 2023}))

	rows, err := store.Search(ctx, "w", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, widget.ID, rows[0].ProductID)
	require.NotNil(t, rows[0].Product)
	assert.Equal(t, "Widget", rows[0].Product.Name)
	require.NotNil(t, rows[0].Country)
	assert.Equal(t, "ARG", rows[0].Country.Code)
	assert.InDelta(t, 45.5, rows[0].Percentage, 0.001)
}

func TestCreateProductInvalidCompany(t *testing.T) {
	repo := SetupTestDB(t)
	store := NewStore[models.ProductOrService](repo, ProductTable)

	err := store.Create(context.Background(), &models.ProductOrService{CompanyID: 77, Name: "Orphan", Type: "Software"})
	assert.ErrorIs(t, err, e.ErrInvalidReference)
}

func TestCreateSurveyOutOfRange(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	product := seedProduct(t, repo, seedCompany(t, repo, "Acme").ID, "Widget")
	store := NewStore[models.DemandSurvey](repo, SurveyTable)

	err := store.Create(ctx, &models.DemandSurvey{ProductID: product.ID, Percentage: 101, Year: 2024})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestDeleteCompanyCascades(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	company := seedCompany(t, repo, "Acme")
	product := seedProduct(t, repo, company.ID, "Widget")

	events := NewStore[models.SectorEvent](repo, EventTable)
	event := &models.SectorEvent{
		Title:           "Ronda serie A",
		Kind:            models.EventInvestment,
		Date:            models.NewDate(2024, time.March, 1),
		AffectedCountry: "ARG",
		CompanyID:       &company.ID,
	}
	require.NoError(t, events.Create(ctx, event))

	require.NoError(t, NewStore[models.Company](repo, CompanyTable).Delete(ctx, company.ID))

	_, err := NewStore[models.ProductOrService](repo, ProductTable).Get(ctx, product.ID)
	assert.ErrorIs(t, err, e.ErrNotFound, "products are removed with their company")

	kept, err := events.Get(ctx, event.ID)
	require.NoError(t, err, "events outlive their company")
	assert.Nil(t, kept.CompanyID)
	assert.Nil(t, kept.Company)
	assert.Equal(t, models.NewDate(2024, time.March, 1), kept.Date)
}

func TestInvalidEventKind(t *testing.T) {
	repo := SetupTestDB(t)
	store := NewStore[models.SectorEvent](repo, EventTable)

	err := store.Create(context.Background(), &models.SectorEvent{
		Title:           "Unknown",
		Kind:            "Fusión",
		Date:            models.NewDate(2024, time.March, 1),
		AffectedCountry: "ARG",
	})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestCountries(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "URY")
	seedCountry(t, repo, "ARG")

	countries, err := repo.ListCountries(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "ARG", countries[0].Code)

	country, err := repo.GetCountry(ctx, "URY")
	require.NoError(t, err)
	assert.Equal(t, "Country URY", country.Name)

	_, err = repo.GetCountry(ctx, "CHL")
	assert.ErrorIs(t, err, e.ErrNotFound)

	ok, err := repo.CountryExists(ctx, "ARG")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CountryExists(ctx, "CHL")
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.CreateCountry(ctx, &models.Country{Code: "ARG", Name: "Again"})
	assert.ErrorIs(t, err, e.ErrDuplicate)
}

func TestUsers(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	byID, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)

	byEmail, err := repo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, e.ErrNotFound)

	err = repo.CreateUser(ctx, &models.User{Name: "Ana 2", Email: "ana@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, e.ErrDuplicate)
}

func TestCompanyTrends(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	seedCountry(t, repo, "ARG")
	company := seedCompany(t, repo, "Acme")
	trends := NewStore[models.TechnologyTrend](repo, TrendTable)
	ai := &models.TechnologyTrend{Name: "IA"}
	cloud := &models.TechnologyTrend{Name: "Cloud"}
	require.NoError(t, trends.Create(ctx, ai))
	require.NoError(t, trends.Create(ctx, cloud))

	linked, err := repo.TrendsForCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	require.NoError(t, repo.LinkTrend(ctx, &models.CompanyTrend{CompanyID: company.ID, TrendID: cloud.ID}))
	require.NoError(t, repo.LinkTrend(ctx, &models.CompanyTrend{CompanyID: company.ID, TrendID: ai.ID}))
	assert.ErrorIs(t, repo.LinkTrend(ctx, &models.CompanyTrend{CompanyID: company.ID, TrendID: ai.ID}), e.ErrDuplicate)
	assert.ErrorIs(t, repo.LinkTrend(ctx, &models.CompanyTrend{CompanyID: company.ID, TrendID: 99}), e.ErrInvalidReference)

	linked, err = repo.TrendsForCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "IA", linked[0].Name)
	assert.Equal(t, "Cloud", linked[1].Name)

	require.NoError(t, repo.UnlinkTrend(ctx, company.ID, ai.ID))
	assert.ErrorIs(t, repo.UnlinkTrend(ctx, company.ID, ai.ID), e.ErrNotFound)

	require.NoError(t, trends.Delete(ctx, cloud.ID))
	linked, err = repo.TrendsForCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Empty(t, linked, "links are removed with their trend")
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}
