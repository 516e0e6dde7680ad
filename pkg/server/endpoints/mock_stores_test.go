package endpoints

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) FindByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) List() ([]model.User, error) {
	args := m.Called()
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersStore) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockVaultsStore implements store.VaultsStore for testing using testify/mock
type MockVaultsStore struct {
	mock.Mock
}

func NewMockVaultsStore() *MockVaultsStore {
	return &MockVaultsStore{}
}

func (m *MockVaultsStore) FindByID(id string) (*model.Vault, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vault), args.Error(1)
}

func (m *MockVaultsStore) FindByShareToken(token string) (*model.Vault, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vault), args.Error(1)
}

func (m *MockVaultsStore) FindByPath(path string) (*model.Vault, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vault), args.Error(1)
}

func (m *MockVaultsStore) List() ([]model.Vault, error) {
	args := m.Called()
	return args.Get(0).([]model.Vault), args.Error(1)
}

func (m *MockVaultsStore) ListByParent(parentID string) ([]model.Vault, error) {
	args := m.Called(parentID)
	return args.Get(0).([]model.Vault), args.Error(1)
}

func (m *MockVaultsStore) Create(vault *model.Vault) error {
	args := m.Called(vault)
	return args.Error(0)
}

func (m *MockVaultsStore) Update(vault *model.Vault, oldPath string) error {
	args := m.Called(vault, oldPath)
	return args.Error(0)
}

func (m *MockVaultsStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVaultsStore) CountItems(path string) (int64, error) {
	args := m.Called(path)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemsStore implements store.ItemsStore for testing using testify/mock
type MockItemsStore struct {
	mock.Mock
}

func NewMockItemsStore() *MockItemsStore {
	return &MockItemsStore{}
}

func (m *MockItemsStore) FindByID(id string) (*model.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemsStore) List(filter store.ItemFilter) ([]model.Item, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemsStore) Create(item *model.Item, password, notes string) error {
	args := m.Called(item, password, notes)
	return args.Error(0)
}

func (m *MockItemsStore) Update(item *model.Item, password, notes *string) error {
	args := m.Called(item, password, notes)
	return args.Error(0)
}

func (m *MockItemsStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockItemsStore) Reveal(id string) (*model.Item, *store.RevealedSecret, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Item), args.Get(1).(*store.RevealedSecret), args.Error(2)
}

func (m *MockItemsStore) Checkout(id, userID string) (*model.Item, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemsStore) Checkin(id string) (*model.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

// MockRequestsStore implements store.RequestsStore for testing using testify/mock
type MockRequestsStore struct {
	mock.Mock
}

func NewMockRequestsStore() *MockRequestsStore {
	return &MockRequestsStore{}
}

func (m *MockRequestsStore) CreateJIT(request *model.JITRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockRequestsStore) FindJITByID(id string) (*model.JITRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JITRequest), args.Error(1)
}

func (m *MockRequestsStore) ListJIT(filter store.RequestFilter) ([]model.JITRequest, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.JITRequest), args.Error(1)
}

func (m *MockRequestsStore) ApproveJIT(id, approverID string, duration time.Duration) (*model.JITRequest, error) {
	args := m.Called(id, approverID, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JITRequest), args.Error(1)
}

func (m *MockRequestsStore) DenyJIT(id, approverID string) (*model.JITRequest, error) {
	args := m.Called(id, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JITRequest), args.Error(1)
}

func (m *MockRequestsStore) ExpireOverdue(now time.Time) error {
	args := m.Called(now)
	return args.Error(0)
}

func (m *MockRequestsStore) HasActiveGrant(userID, itemID string, now time.Time) (bool, error) {
	args := m.Called(userID, itemID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestsStore) CreateBreakGlass(request *model.BreakGlassRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockRequestsStore) FindBreakGlassByID(id string) (*model.BreakGlassRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BreakGlassRequest), args.Error(1)
}

func (m *MockRequestsStore) ListBreakGlass(filter store.RequestFilter) ([]model.BreakGlassRequest, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.BreakGlassRequest), args.Error(1)
}

func (m *MockRequestsStore) ApproveBreakGlass(id, approverID string) (*model.BreakGlassRequest, error) {
	args := m.Called(id, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BreakGlassRequest), args.Error(1)
}

func (m *MockRequestsStore) DenyBreakGlass(id, approverID string) (*model.BreakGlassRequest, error) {
	args := m.Called(id, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BreakGlassRequest), args.Error(1)
}

// MockAuditStore implements store.AuditStore for testing using testify/mock
type MockAuditStore struct {
	mock.Mock
}

func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

func (m *MockAuditStore) SaveAuditLog(entry model.AuditLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockAuditStore) ListAuditLogs(filter store.AuditFilter) ([]model.AuditLog, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

func (m *MockAuditStore) CountAuditLogs(filter store.AuditFilter) (int64, error) {
	args := m.Called(filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatsStore implements store.StatsStore for testing using testify/mock
type MockStatsStore struct {
	mock.Mock
}

func NewMockStatsStore() *MockStatsStore {
	return &MockStatsStore{}
}

func (m *MockStatsStore) Dashboard() (*store.DashboardStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DashboardStats), args.Error(1)
}

func (m *MockStatsStore) RecentActivity(limit int) ([]model.AuditLog, error) {
	args := m.Called(limit)
	return args.Get(0).([]model.AuditLog), args.Error(1)
}
