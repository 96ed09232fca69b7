package services

import (
	"errors"
	"sync"

	"retailhub-backend/apperrors"
	"retailhub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentService maintains the bidirectional, at-most-one-to-one edge
// between a franchise and its order manager. The two back-references live on
// two rows, so every mutation runs inside a transaction, and calls touching
// the same manager are serialized through a per-manager mutex so concurrent
// reassignments cannot interleave and leave a one-sided edge.
type AssignmentService struct {
	DB *gorm.DB

	managerLocks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db}
}

func (s *AssignmentService) lockManager(managerID uuid.UUID) func() {
	v, _ := s.managerLocks.LoadOrStore(managerID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// AssignManager points franchiseID at managerID and managerID back at
// franchiseID. If the manager is currently attached to a different franchise,
// that edge is detached first - but only when the old franchise's manager
// pointer still actually equals this manager, which guards against stale
// half-written state.
func (s *AssignmentService) AssignManager(franchiseID, managerID uuid.UUID) (*models.Franchise, error) {
	unlock := s.lockManager(managerID)
	defer unlock()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var franchise models.Franchise
		if err := tx.Where("id = ?", franchiseID).First(&franchise).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Franchise not found")
			}
			return apperrors.Internal("Failed to fetch franchise", err)
		}

		var manager models.User
		if err := tx.Where("id = ?", managerID).First(&manager).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Manager not found")
			}
			return apperrors.Internal("Failed to fetch manager", err)
		}

		if manager.Role != models.RoleOrderManager {
			return apperrors.RoleMismatch("User is not an order manager")
		}

		// Detach the manager's previous franchise, if its pointer still
		// agrees that this manager holds it.
		if manager.FranchiseID != nil && *manager.FranchiseID != franchiseID {
			var previous models.Franchise
			if err := tx.Where("id = ?", manager.FranchiseID).First(&previous).Error; err == nil {
				if previous.OrderManagerID != nil && *previous.OrderManagerID == managerID {
					if err := tx.Model(&previous).Update("order_manager_id", nil).Error; err != nil {
						return apperrors.Internal("Failed to detach previous franchise", err)
					}
				}
			}
		}

		if err := tx.Model(&franchise).Update("order_manager_id", managerID).Error; err != nil {
			return apperrors.Internal("Failed to update franchise", err)
		}
		if err := tx.Model(&manager).Update("franchise_id", franchiseID).Error; err != nil {
			return apperrors.Internal("Failed to update manager", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Franchise
	if err := s.DB.Preload("OrderManager").Where("id = ?", franchiseID).First(&updated).Error; err != nil {
		return nil, apperrors.Internal("Failed to reload franchise", err)
	}
	return &updated, nil
}

// FranchisePatch carries the optional fields of an update request. Only
// non-nil fields are applied. Manager accepts a manager id to (re)assign, or
// an empty string to detach the current manager without assigning a new one.
type FranchisePatch struct {
	Name          *string         `json:"name"`
	Address       *models.Address `json:"address"`
	ContactNumber *string         `json:"contact_number"`
	Email         *string         `json:"email"`
	IsActive      *bool           `json:"is_active"`
	Manager       *string         `json:"manager"`
}

// UpdateFranchise applies the patch. When a new manager id is supplied the
// full assignment flow above runs; when the manager field is explicitly
// cleared the former manager's back-reference is cleared symmetrically.
func (s *AssignmentService) UpdateFranchise(franchiseID uuid.UUID, patch FranchisePatch) (*models.Franchise, error) {
	var franchise models.Franchise
	if err := s.DB.Where("id = ?", franchiseID).First(&franchise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Franchise not found")
		}
		return nil, apperrors.Internal("Failed to fetch franchise", err)
	}

	if patch.Address != nil && !patch.Address.IsEmpty() && !patch.Address.IsComplete() {
		return nil, apperrors.Validation("address requires street, city, state, pincode and country together")
	}

	if patch.Name != nil {
		franchise.Name = *patch.Name
	}
	if patch.Address != nil {
		franchise.Address = *patch.Address
	}
	if patch.ContactNumber != nil {
		franchise.ContactNumber = *patch.ContactNumber
	}
	if patch.Email != nil {
		franchise.Email = *patch.Email
	}
	if patch.IsActive != nil {
		franchise.IsActive = *patch.IsActive
	}

	if err := s.DB.Save(&franchise).Error; err != nil {
		return nil, apperrors.Internal("Failed to update franchise", err)
	}

	if patch.Manager != nil {
		if *patch.Manager == "" {
			if err := s.detachManager(franchiseID); err != nil {
				return nil, err
			}
		} else {
			managerID, err := uuid.Parse(*patch.Manager)
			if err != nil {
				return nil, apperrors.Validation("manager must be a valid user id")
			}
			return s.AssignManager(franchiseID, managerID)
		}
	}

	var updated models.Franchise
	if err := s.DB.Preload("OrderManager").Where("id = ?", franchiseID).First(&updated).Error; err != nil {
		return nil, apperrors.Internal("Failed to reload franchise", err)
	}
	return &updated, nil
}

// detachManager clears both sides of the edge for the franchise's current
// manager, if any.
func (s *AssignmentService) detachManager(franchiseID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var franchise models.Franchise
		if err := tx.Where("id = ?", franchiseID).First(&franchise).Error; err != nil {
			return apperrors.Internal("Failed to fetch franchise", err)
		}
		if franchise.OrderManagerID == nil {
			return nil
		}

		managerID := *franchise.OrderManagerID
		if err := tx.Model(&franchise).Update("order_manager_id", nil).Error; err != nil {
			return apperrors.Internal("Failed to clear franchise manager", err)
		}
		if err := tx.Model(&models.User{}).
			Where("id = ? AND franchise_id = ?", managerID, franchiseID).
			Update("franchise_id", nil).Error; err != nil {
			return apperrors.Internal("Failed to clear manager franchise", err)
		}
		return nil
	})
}

// DeleteFranchise removes the franchise, its stock rows and the manager
// back-reference. It refuses to delete while any order still references the
// franchise; orders must be reassigned or removed first. The delete is hard
// and irreversible.
func (s *AssignmentService) DeleteFranchise(franchiseID uuid.UUID) error {
	var franchise models.Franchise
	if err := s.DB.Where("id = ?", franchiseID).First(&franchise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Franchise not found")
		}
		return apperrors.Internal("Failed to fetch franchise", err)
	}

	var orderCount int64
	if err := s.DB.Model(&models.Order{}).Where("franchise_id = ?", franchiseID).Count(&orderCount).Error; err != nil {
		return apperrors.Internal("Failed to count orders", err)
	}
	if orderCount > 0 {
		return apperrors.Conflict("Cannot delete franchise with existing orders")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("franchise_id = ?", franchiseID).Delete(&models.FranchiseStock{}).Error; err != nil {
			return apperrors.Internal("Failed to delete franchise stock", err)
		}

		if franchise.OrderManagerID != nil {
			if err := tx.Model(&models.User{}).
				Where("id = ? AND franchise_id = ?", franchise.OrderManagerID, franchiseID).
				Update("franchise_id", nil).Error; err != nil {
				return apperrors.Internal("Failed to clear manager franchise", err)
			}
		}

		if err := tx.Delete(&franchise).Error; err != nil {
			return apperrors.Internal("Failed to delete franchise", err)
		}
		return nil
	})
}
