package services

import (
	"errors"

	"retailhub-backend/apperrors"
	"retailhub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsService computes read-only per-franchise order statistics. Nothing
// here mutates any record.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// FranchiseStats is the aggregate summary for one franchise.
type FranchiseStats struct {
	Franchise      string                          `json:"franchise"`
	TotalOrders    int64                           `json:"total_orders"`
	OrdersByStatus map[models.DeliveryStatus]int64 `json:"orders_by_status"`
	TotalRevenue   float64                         `json:"total_revenue"`
	RecentOrders   []models.Order                  `json:"recent_orders"`
}

// FranchiseStats returns order counts per status, delivered-only revenue and
// the five most recent orders. An orderManager may only query its own
// franchise; admins may query any. A franchise with zero orders yields zero
// counts and zero revenue, never an error.
func (s *StatsService) FranchiseStats(franchiseID uuid.UUID, p Principal) (*FranchiseStats, error) {
	var franchise models.Franchise
	if err := s.DB.Where("id = ?", franchiseID).First(&franchise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Franchise not found")
		}
		return nil, apperrors.Internal("Failed to fetch franchise", err)
	}

	if !p.CanAccessFranchise(franchiseID) {
		return nil, apperrors.Forbidden("Not authorized to view stats for this franchise")
	}

	var total int64
	if err := s.DB.Model(&models.Order{}).Where("franchise_id = ?", franchiseID).Count(&total).Error; err != nil {
		return nil, apperrors.Internal("Failed to count orders", err)
	}

	// One GROUP BY instead of a count query per status.
	type statusCount struct {
		DeliveryStatus models.DeliveryStatus `gorm:"column:delivery_status"`
		Count          int64                 `gorm:"column:count"`
	}
	var counts []statusCount
	if err := s.DB.Model(&models.Order{}).
		Select("delivery_status, count(*) as count").
		Where("franchise_id = ?", franchiseID).
		Group("delivery_status").
		Find(&counts).Error; err != nil {
		return nil, apperrors.Internal("Failed to aggregate orders", err)
	}

	byStatus := make(map[models.DeliveryStatus]int64, len(models.DeliveryStatuses))
	for _, status := range models.DeliveryStatuses {
		byStatus[status] = 0
	}
	for _, sc := range counts {
		byStatus[sc.DeliveryStatus] = sc.Count
	}

	// Revenue counts delivered orders only; cancelled and in-flight orders
	// never contribute. COALESCE keeps the sum at 0 for an empty set.
	var revenue float64
	if err := s.DB.Model(&models.Order{}).
		Where("franchise_id = ? AND delivery_status = ?", franchiseID, models.StatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, apperrors.Internal("Failed to compute revenue", err)
	}

	var recent []models.Order
	if err := s.DB.Preload("User").Preload("Product").
		Where("franchise_id = ?", franchiseID).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch recent orders", err)
	}

	return &FranchiseStats{
		Franchise:      franchise.Name,
		TotalOrders:    total,
		OrdersByStatus: byStatus,
		TotalRevenue:   revenue,
		RecentOrders:   recent,
	}, nil
}
