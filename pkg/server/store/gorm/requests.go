package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Ensure RequestsStore implements store.RequestsStore
var _ store.RequestsStore = (*RequestsStore)(nil)

// RequestsStore implements store.RequestsStore using GORM
type RequestsStore struct {
	db *gorm.DB
}

// NewRequestsStore creates a new RequestsStore
func NewRequestsStore(db *gorm.DB) *RequestsStore {
	return &RequestsStore{db: db}
}

func (s *RequestsStore) CreateJIT(request *model.JITRequest) error {
	return s.db.Create(request).Error
}

func (s *RequestsStore) FindJITByID(id string) (*model.JITRequest, error) {
	var request model.JITRequest
	tx := s.db.Where("id = ?", id).First(&request)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrRequestNotFound
		}
		return nil, tx.Error
	}
	return &request, nil
}

func (s *RequestsStore) ListJIT(filter store.RequestFilter) ([]model.JITRequest, error) {
	query := s.db.Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		query = query.Where("requester_id = ?", filter.UserID)
	}
	if filter.ItemID != "" {
		query = query.Where("item_id = ?", filter.ItemID)
	}

	var requests []model.JITRequest
	if tx := query.Find(&requests); tx.Error != nil {
		return nil, tx.Error
	}
	return requests, nil
}

// ApproveJIT flips a pending request to approved with a single conditional
// update, so a second concurrent decision loses and reports invalid state.
// Both timestamps come from the same instant: the grant expires exactly
// duration after approved_at.
func (s *RequestsStore) ApproveJIT(id, approverID string, duration time.Duration) (*model.JITRequest, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(duration)
	tx := s.db.Model(&model.JITRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Updates(map[string]interface{}{
			"status":      model.RequestApproved,
			"approved_by": approverID,
			"approved_at": now,
			"expires_at":  expiresAt,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}

	request, err := s.FindJITByID(id)
	if err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrInvalidState
	}
	return request, nil
}

func (s *RequestsStore) DenyJIT(id, approverID string) (*model.JITRequest, error) {
	now := time.Now().UTC()
	tx := s.db.Model(&model.JITRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Updates(map[string]interface{}{
			"status":      model.RequestDenied,
			"approved_by": approverID,
			"approved_at": now,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}

	request, err := s.FindJITByID(id)
	if err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrInvalidState
	}
	return request, nil
}

func (s *RequestsStore) ExpireOverdue(now time.Time) error {
	return s.db.Model(&model.JITRequest{}).
		Where("status = ? AND expires_at < ?", model.RequestApproved, now).
		Update("status", model.RequestExpired).
		Error
}

func (s *RequestsStore) HasActiveGrant(userID, itemID string, now time.Time) (bool, error) {
	var count int64
	tx := s.db.Model(&model.JITRequest{}).
		Where("requester_id = ? AND item_id = ? AND status = ? AND expires_at > ?",
			userID, itemID, model.RequestApproved, now).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

func (s *RequestsStore) CreateBreakGlass(request *model.BreakGlassRequest) error {
	return s.db.Create(request).Error
}

func (s *RequestsStore) FindBreakGlassByID(id string) (*model.BreakGlassRequest, error) {
	var request model.BreakGlassRequest
	tx := s.db.Where("id = ?", id).First(&request)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrRequestNotFound
		}
		return nil, tx.Error
	}
	return &request, nil
}

func (s *RequestsStore) ListBreakGlass(filter store.RequestFilter) ([]model.BreakGlassRequest, error) {
	query := s.db.Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		query = query.Where("requester_id = ?", filter.UserID)
	}
	if filter.ItemID != "" {
		query = query.Where("item_id = ?", filter.ItemID)
	}

	var requests []model.BreakGlassRequest
	if tx := query.Find(&requests); tx.Error != nil {
		return nil, tx.Error
	}
	return requests, nil
}

func (s *RequestsStore) ApproveBreakGlass(id, approverID string) (*model.BreakGlassRequest, error) {
	now := time.Now().UTC()
	tx := s.db.Model(&model.BreakGlassRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Updates(map[string]interface{}{
			"status":       model.RequestApproved,
			"approver_id":  approverID,
			"approved_at":  now,
			"completed_at": now,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}

	request, err := s.FindBreakGlassByID(id)
	if err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrInvalidState
	}
	return request, nil
}

func (s *RequestsStore) DenyBreakGlass(id, approverID string) (*model.BreakGlassRequest, error) {
	now := time.Now().UTC()
	tx := s.db.Model(&model.BreakGlassRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Updates(map[string]interface{}{
			"status":       model.RequestDenied,
			"approver_id":  approverID,
			"approved_at":  now,
			"completed_at": now,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}

	request, err := s.FindBreakGlassByID(id)
	if err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrInvalidState
	}
	return request, nil
}
