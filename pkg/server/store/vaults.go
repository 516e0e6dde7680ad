package store

import "github.com/keyhaven/keyhaven/pkg/model"

// VaultsStore abstracts vault tree storage operations
type VaultsStore interface {
	// FindByID returns the vault with the given ID, or ErrVaultNotFound.
	FindByID(id string) (*model.Vault, error)

	// FindByShareToken returns the vault holding the share token, or
	// ErrVaultNotFound. Vaults with sharing disabled never match.
	FindByShareToken(token string) (*model.Vault, error)

	// FindByPath returns the vault with the given materialized path, or
	// (nil, nil) when no vault has it.
	FindByPath(path string) (*model.Vault, error)

	// List returns all vaults ordered by path.
	List() ([]model.Vault, error)

	// ListByParent returns the direct children of a vault. An empty
	// parentID lists the roots.
	ListByParent(parentID string) ([]model.Vault, error)

	// Create stores a new vault.
	Create(vault *model.Vault) error

	// Update persists changes to a vault. When the path changed, the
	// paths of all descendants are rewritten in the same transaction.
	Update(vault *model.Vault, oldPath string) error

	// Delete removes a vault, all of its descendant vaults, and every
	// item they contain.
	Delete(id string) error

	// CountItems returns the number of items in a vault subtree.
	CountItems(path string) (int64, error)
}
