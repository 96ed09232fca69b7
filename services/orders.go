package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"retailhub-backend/apperrors"
	"retailhub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService lists and filters orders for a franchise.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// OrderFilter is the query surface for order listing.
type OrderFilter struct {
	Status    string // exact delivery status match
	StartDate string // YYYY-MM-DD, inclusive from 00:00:00
	EndDate   string // YYYY-MM-DD, inclusive through 23:59:59.999
	Search    string // order number substring, user name substring, or exact id
	Page      int
	Limit     int
}

// Pagination describes one page of results. Pages is ceil(total/limit).
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func (f *OrderFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
}

// FranchiseOrders returns the franchise's orders, filtered and paginated.
// Access follows the stats rule: admins see any franchise, an orderManager
// only its own.
func (s *OrderService) FranchiseOrders(franchiseID uuid.UUID, p Principal, filter OrderFilter) ([]models.Order, string, *Pagination, error) {
	var franchise models.Franchise
	if err := s.DB.Where("id = ?", franchiseID).First(&franchise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", nil, apperrors.NotFound("Franchise not found")
		}
		return nil, "", nil, apperrors.Internal("Failed to fetch franchise", err)
	}

	if !p.CanAccessFranchise(franchiseID) {
		return nil, "", nil, apperrors.Forbidden("Not authorized to view orders for this franchise")
	}

	base := s.DB.Model(&models.Order{}).Where("franchise_id = ?", franchiseID)
	base, err := applyOrderFilter(base, filter)
	if err != nil {
		return nil, "", nil, err
	}

	orders, pagination, err := s.page(base, filter)
	if err != nil {
		return nil, "", nil, err
	}
	return orders, franchise.Name, pagination, nil
}

// AllOrders is the admin-wide listing with the same filter composition,
// optionally narrowed to one franchise.
func (s *OrderService) AllOrders(franchiseID *uuid.UUID, filter OrderFilter) ([]models.Order, *Pagination, error) {
	base := s.DB.Model(&models.Order{})
	if franchiseID != nil {
		base = base.Where("franchise_id = ?", franchiseID)
	}
	base, err := applyOrderFilter(base, filter)
	if err != nil {
		return nil, nil, err
	}
	return s.page(base, filter)
}

func (s *OrderService) page(base *gorm.DB, filter OrderFilter) ([]models.Order, *Pagination, error) {
	filter.normalize()

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, apperrors.Internal("Failed to count orders", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	var orders []models.Order
	if err := base.Session(&gorm.Session{}).
		Preload("User").Preload("Product").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&orders).Error; err != nil {
		return nil, nil, apperrors.Internal("Failed to fetch orders", err)
	}

	return orders, &Pagination{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
		Pages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func applyOrderFilter(query *gorm.DB, filter OrderFilter) (*gorm.DB, error) {
	if filter.Status != "" {
		query = query.Where("delivery_status = ?", filter.Status)
	}

	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return nil, apperrors.Validation("startDate must be YYYY-MM-DD")
		}
		query = query.Where("created_at >= ?", start)
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return nil, apperrors.Validation("endDate must be YYYY-MM-DD")
		}
		// Inclusive through the last millisecond of the given day.
		end = end.Add(24*time.Hour - time.Millisecond)
		query = query.Where("created_at <= ?", end)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		userSub := query.Session(&gorm.Session{NewDB: true}).
			Model(&models.User{}).
			Select("id").
			Where("LOWER(name) LIKE ?", like)

		if id, err := uuid.Parse(filter.Search); err == nil {
			query = query.Where("id = ? OR LOWER(order_number) LIKE ? OR user_id IN (?)", id, like, userSub)
		} else {
			query = query.Where("LOWER(order_number) LIKE ? OR user_id IN (?)", like, userSub)
		}
	}

	return query, nil
}
