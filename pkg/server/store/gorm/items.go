package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/keybox"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Ensure ItemsStore implements store.ItemsStore
var _ store.ItemsStore = (*ItemsStore)(nil)

// ItemsStore implements store.ItemsStore using GORM. It owns the data
// sealer: secret fields are encrypted on every write path and decrypted
// only by Reveal.
type ItemsStore struct {
	db     *gorm.DB
	sealer *keybox.Sealer
}

// NewItemsStore creates a new ItemsStore
func NewItemsStore(db *gorm.DB, sealer *keybox.Sealer) *ItemsStore {
	return &ItemsStore{db: db, sealer: sealer}
}

// Ciphertext tokens are bound to the item and field so a row swap or a
// column swap fails decryption.
func passwordAAD(itemID string) string { return itemID + ":password" }
func notesAAD(itemID string) string    { return itemID + ":notes" }

func (s *ItemsStore) FindByID(id string) (*model.Item, error) {
	var item model.Item
	tx := s.db.Where("id = ?", id).First(&item)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrItemNotFound
		}
		return nil, tx.Error
	}
	return &item, nil
}

func (s *ItemsStore) List(filter store.ItemFilter) ([]model.Item, error) {
	query := s.db.Order("title asc")
	if filter.VaultID != "" {
		query = query.Where("vault_id = ?", filter.VaultID)
	}
	if filter.Environment != "" {
		query = query.Where("environment = ?", filter.Environment)
	}
	if filter.Criticality != "" {
		query = query.Where("criticality = ?", filter.Criticality)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR login ILIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var items []model.Item
	if tx := query.Find(&items); tx.Error != nil {
		return nil, tx.Error
	}
	return items, nil
}

func (s *ItemsStore) Create(item *model.Item, password, notes string) error {
	var err error
	item.PasswordEncrypted, err = s.sealer.Seal(passwordAAD(item.ID), password)
	if err != nil {
		return err
	}
	item.NotesEncrypted, err = s.sealer.Seal(notesAAD(item.ID), notes)
	if err != nil {
		return err
	}
	return s.db.Create(item).Error
}

func (s *ItemsStore) Update(item *model.Item, password, notes *string) error {
	if password != nil {
		sealed, err := s.sealer.Seal(passwordAAD(item.ID), *password)
		if err != nil {
			return err
		}
		item.PasswordEncrypted = sealed
	}
	if notes != nil {
		sealed, err := s.sealer.Seal(notesAAD(item.ID), *notes)
		if err != nil {
			return err
		}
		item.NotesEncrypted = sealed
	}
	return s.db.Save(item).Error
}

func (s *ItemsStore) Delete(id string) error {
	tx := s.db.Where("id = ?", id).Delete(&model.Item{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrItemNotFound
	}
	return nil
}

func (s *ItemsStore) Reveal(id string) (*model.Item, *store.RevealedSecret, error) {
	item, err := s.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	password, err := s.sealer.Open(passwordAAD(id), item.PasswordEncrypted)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.sealer.Open(notesAAD(id), item.NotesEncrypted)
	if err != nil {
		return nil, nil, err
	}
	return item, &store.RevealedSecret{Password: password, Notes: notes}, nil
}

// Checkout takes the exclusive hold with a single conditional update so two
// racing callers cannot both win.
func (s *ItemsStore) Checkout(id, userID string) (*model.Item, error) {
	now := time.Now().UTC()
	tx := s.db.Model(&model.Item{}).
		Where("id = ? AND requires_checkout AND checked_out_by = ''", id).
		Updates(map[string]interface{}{
			"checked_out_by": userID,
			"checked_out_at": now,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}

	item, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		if !item.RequiresCheckout {
			return nil, store.ErrInvalidState
		}
		return nil, &store.CheckoutConflictError{HolderID: item.CheckedOutBy}
	}
	return item, nil
}

func (s *ItemsStore) Checkin(id string) (*model.Item, error) {
	tx := s.db.Model(&model.Item{}).
		Where("id = ? AND checked_out_by <> ''", id).
		Updates(map[string]interface{}{
			"checked_out_by": "",
			"checked_out_at": nil,
		})
	if tx.Error != nil {
		return nil, tx.Error
	}

	item, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if tx.RowsAffected == 0 {
		return nil, store.ErrNotCheckedOut
	}
	return item, nil
}
