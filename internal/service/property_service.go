package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/pricing"
	"go.uber.org/zap"
)

// MsgViewingRequested confirms a viewing booking
const MsgViewingRequested = "Your viewing request has been submitted!"

// PropertyService serves the read-only catalog and the listing tools around it
type PropertyService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

func NewPropertyService(cat *catalog.Catalog, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		catalog: cat,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns every listing in catalog order
func (s *PropertyService) List(ctx context.Context) *domain.PropertyListDTO {
	items := s.catalog.All()
	return &domain.PropertyListDTO{Items: items, Total: len(items)}
}

// Search filters the catalog and describes the search in a notification
func (s *PropertyService) Search(ctx context.Context, req *domain.PropertySearchRequest) *domain.PropertyListDTO {
	items := s.catalog.Search(catalog.Filter{
		Location: req.Location,
		Type:     req.Type,
		MaxPrice: req.MaxPrice,
	})

	notification := domain.Success(searchMessage(req))
	return &domain.PropertyListDTO{
		Notification: &notification,
		Items:        items,
		Total:        len(items),
	}
}

// GetByID returns one listing
func (s *PropertyService) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
	}
	return &p, nil
}

// Tour returns the virtual tour starting at the listing's own image
func (s *PropertyService) Tour(ctx context.Context, id string) (*domain.TourDTO, error) {
	stops, start, err := s.catalog.Tour(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, id)
	}
	return &domain.TourDTO{PropertyID: id, Stops: stops, Start: start}, nil
}

// Mortgage estimates the monthly payment. With a property id and no price the
// listing price is used.
func (s *PropertyService) Mortgage(ctx context.Context, propertyID string, req *domain.MortgageRequest) (*domain.MortgageEstimateDTO, error) {
	var price float64
	switch {
	case req.Price != nil:
		price = *req.Price
	case propertyID != "":
		p, err := s.GetByID(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		price = float64(pricing.Normalize(p.Price))
	default:
		return nil, domain.NewValidationError("Please enter valid numbers.")
	}

	estimate, err := pricing.Mortgage(
		price,
		valueOr(req.DownPaymentPercent, domain.DefaultDownPaymentPercent),
		valueOr(req.InterestRate, domain.DefaultInterestRate),
		valueOr(req.LoanTermYears, domain.DefaultLoanTermYears),
	)
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// BookViewing records a request to visit a listing in person
func (s *PropertyService) BookViewing(ctx context.Context, propertyID string, req *domain.BookViewingRequest) (*domain.ViewingResponse, error) {
	p, err := s.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Date == "" || req.Time == "" {
		return nil, domain.NewValidationError("Please fill out all fields correctly.")
	}

	viewing := domain.Viewing{
		PropertyID:    p.ID,
		PropertyTitle: p.Title,
		Name:          name,
		Email:         email,
		Date:          req.Date,
		Time:          req.Time,
		RequestedAt:   s.now().UTC(),
	}

	fields := []zap.Field{
		zap.String("property_id", viewing.PropertyID),
		zap.String("name", viewing.Name),
		zap.String("email", viewing.Email),
		zap.String("date", viewing.Date),
		zap.String("time", viewing.Time),
	}
	if session, ok := auth.FromContext(ctx); ok {
		fields = append(fields, zap.String("session_id", session.SessionID))
	}
	s.logger.Info("Viewing requested", fields...)

	return &domain.ViewingResponse{
		Notification: domain.Success(MsgViewingRequested),
		Viewing:      viewing,
	}, nil
}

func searchMessage(req *domain.PropertySearchRequest) string {
	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = "properties"
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = "all locations"
	}
	priceRange := "any"
	if req.MaxPrice > 0 {
		priceRange = "up to " + pricing.Format(req.MaxPrice)
	}
	return fmt.Sprintf("Searching for %s in %s with price range %s", typ, location, priceRange)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
