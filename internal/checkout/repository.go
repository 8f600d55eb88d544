package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateAllocation(ctx context.Context, allocation *Allocation, seats []AllocationSeat) error
	UpdateStatus(ctx context.Context, allocationID uuid.UUID, status string, failureReason *string) error
	GetByID(ctx context.Context, allocationID uuid.UUID) (*Allocation, []AllocationSeat, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAllocation(ctx context.Context, allocation *Allocation, seats []AllocationSeat) error {
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(allocation).Error; err != nil {
			return fmt.Errorf("failed to create allocation: %w", err)
		}
		for i := range seats {
			seats[i].AllocationID = allocation.ID
		}
		if err := tx.Create(&seats).Error; err != nil {
			return fmt.Errorf("failed to create allocation seats: %w", err)
		}
		return nil
	})
}

func (r *repository) UpdateStatus(ctx context.Context, allocationID uuid.UUID, status string, failureReason *string) error {
	updates := map[string]interface{}{"status": status}
	if failureReason != nil {
		updates["failure_reason"] = *failureReason
	}
	result := r.db.WithContext(ctx).Model(&Allocation{}).
		Where("id = ?", allocationID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAllocationNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, allocationID uuid.UUID) (*Allocation, []AllocationSeat, error) {
	var allocation Allocation
	err := r.db.WithContext(ctx).First(&allocation, "id = ?", allocationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAllocationNotFound
		}
		return nil, nil, err
	}

	var seats []AllocationSeat
	err = r.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		Order("seat_id ASC").
		Find(&seats).Error
	if err != nil {
		return nil, nil, err
	}
	return &allocation, seats, nil
}
