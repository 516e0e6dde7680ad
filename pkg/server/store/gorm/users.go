package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) FindByID(id string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("id = ?", id).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

func (s *UsersStore) FindByEmail(email string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("email = ?", email).First(&user)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &user, nil
}

func (s *UsersStore) List() ([]model.User, error) {
	var users []model.User
	if tx := s.db.Order("created_at asc").Find(&users); tx.Error != nil {
		return nil, tx.Error
	}
	return users, nil
}

func (s *UsersStore) Create(user *model.User) error {
	return s.db.Create(user).Error
}

func (s *UsersStore) Update(user *model.User) error {
	return s.db.Save(user).Error
}
