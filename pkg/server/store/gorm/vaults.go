package gorm

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Ensure VaultsStore implements store.VaultsStore
var _ store.VaultsStore = (*VaultsStore)(nil)

// VaultsStore implements store.VaultsStore using GORM
type VaultsStore struct {
	db *gorm.DB
}

// NewVaultsStore creates a new VaultsStore
func NewVaultsStore(db *gorm.DB) *VaultsStore {
	return &VaultsStore{db: db}
}

func (s *VaultsStore) FindByID(id string) (*model.Vault, error) {
	var vault model.Vault
	tx := s.db.Where("id = ?", id).First(&vault)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrVaultNotFound
		}
		return nil, tx.Error
	}
	return &vault, nil
}

func (s *VaultsStore) FindByShareToken(token string) (*model.Vault, error) {
	var vault model.Vault
	tx := s.db.Where("share_token = ? AND share_enabled", token).First(&vault)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrVaultNotFound
		}
		return nil, tx.Error
	}
	return &vault, nil
}

// FindByPath returns (nil, nil) when no vault has the path, so callers can
// distinguish "absent" from a query failure.
func (s *VaultsStore) FindByPath(path string) (*model.Vault, error) {
	var vault model.Vault
	tx := s.db.Where("path = ?", path).First(&vault)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &vault, nil
}

func (s *VaultsStore) List() ([]model.Vault, error) {
	var vaults []model.Vault
	if tx := s.db.Order("path asc").Find(&vaults); tx.Error != nil {
		return nil, tx.Error
	}
	return vaults, nil
}

func (s *VaultsStore) ListByParent(parentID string) ([]model.Vault, error) {
	var vaults []model.Vault
	query := s.db.Order("name asc")
	if parentID == "" {
		query = query.Where("parent_id = ''")
	} else {
		query = query.Where("parent_id = ?", parentID)
	}
	if tx := query.Find(&vaults); tx.Error != nil {
		return nil, tx.Error
	}
	return vaults, nil
}

func (s *VaultsStore) Create(vault *model.Vault) error {
	return s.db.Create(vault).Error
}

// Update saves the vault. When the path changed, every descendant path is
// rewritten in the same transaction so the tree never holds a stale prefix.
func (s *VaultsStore) Update(vault *model.Vault, oldPath string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(vault).Error; err != nil {
			return err
		}
		if oldPath == "" || oldPath == vault.Path {
			return nil
		}
		// substr counts characters, not bytes; multibyte vault names must
		// not shift the cut point.
		oldPrefix := oldPath + model.PathSeparator
		return tx.Model(&model.Vault{}).
			Where("path LIKE ?", likePrefix(oldPrefix)).
			Update("path", gorm.Expr("? || substr(path, ?)", vault.Path+model.PathSeparator, utf8.RuneCountInString(oldPrefix)+1)).
			Error
	})
}

// Delete removes the vault, its descendants, and all items in the subtree.
func (s *VaultsStore) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var vault model.Vault
		if err := tx.Where("id = ?", id).First(&vault).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrVaultNotFound
			}
			return err
		}

		subtree := tx.Model(&model.Vault{}).Select("id").
			Where("id = ? OR path LIKE ?", id, likePrefix(vault.Path+model.PathSeparator))

		if err := tx.Where("vault_id IN (?)", subtree).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? OR path LIKE ?", id, likePrefix(vault.Path+model.PathSeparator)).
			Delete(&model.Vault{}).Error
	})
}

func (s *VaultsStore) CountItems(path string) (int64, error) {
	subtree := s.db.Model(&model.Vault{}).Select("id").
		Where("path = ? OR path LIKE ?", path, likePrefix(path+model.PathSeparator))

	var count int64
	tx := s.db.Model(&model.Item{}).Where("vault_id IN (?)", subtree).Count(&count)
	return count, tx.Error
}

// likePrefix escapes LIKE metacharacters so a path is matched literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
