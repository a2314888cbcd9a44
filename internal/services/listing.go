package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// Page size defaults used when the configuration leaves them unset.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListingService serves read-only views of withdrawal requests.
type ListingService struct {
	reader          WithdrawalReader
	defaultPageSize int
	maxPageSize     int
}

// NewListingService creates a new ListingService. Non-positive sizes fall back to the defaults.
func NewListingService(reader WithdrawalReader, defaultPageSize, maxPageSize int) *ListingService {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if defaultPageSize > maxPageSize {
		defaultPageSize = maxPageSize
	}
	return &ListingService{
		reader:          reader,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// List returns one page of requests matching filter, newest first.
// page is 1-based and clamped to at least 1; pageSize 0 selects the default size.
func (s *ListingService) List(ctx context.Context, filter models.ListFilter, page, pageSize int) (models.Page, error) {
	if filter.Status != nil {
		if _, err := models.ParseStatus(string(*filter.Status)); err != nil {
			return models.Page{}, models.NewValidationFailed("status", err.Error())
		}
	}

	if page < 1 {
		page = 1
	}
	switch {
	case pageSize == 0:
		pageSize = s.defaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > s.maxPageSize:
		pageSize = s.maxPageSize
	}

	// Pages past the largest expressible offset are empty anyway.
	if maxPage := math.MaxInt/pageSize + 1; page > maxPage {
		page = maxPage
	}

	items, total, err := s.reader.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		logger.Log.Errorw("failed to list withdrawal requests", "page", page, "page_size", pageSize, "error", err)
		return models.Page{}, err
	}
	if items == nil {
		items = []models.WithdrawalRequest{}
	}

	return models.Page{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Get returns a request with its full history.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	req, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get withdrawal request", "request_id", id, "error", err)
		return nil, err
	}
	return req, nil
}
