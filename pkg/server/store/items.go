package store

import "github.com/keyhaven/keyhaven/pkg/model"

// ItemFilter narrows item listings. Zero fields are ignored.
type ItemFilter struct {
	VaultID     string
	Query       string
	Environment string
	Criticality string
	Limit       int
}

// RevealedSecret carries the decrypted fields of an item. It exists only in
// memory for the duration of a reveal response.
type RevealedSecret struct {
	Password string
	Notes    string
}

// ItemsStore abstracts encrypted item storage. Implementations own the data
// cipher: secret fields are encrypted on write and decrypted only by Reveal.
type ItemsStore interface {
	// FindByID returns the item with the given ID, or ErrItemNotFound.
	// Secret fields stay encrypted.
	FindByID(id string) (*model.Item, error)

	// List returns items matching the filter, secret fields encrypted.
	List(filter ItemFilter) ([]model.Item, error)

	// Create encrypts the secret fields and stores a new item.
	Create(item *model.Item, password, notes string) error

	// Update persists item changes. A non-nil password or notes replaces
	// and re-encrypts that field; nil leaves the stored ciphertext alone.
	Update(item *model.Item, password, notes *string) error

	// Delete removes an item.
	Delete(id string) error

	// Reveal decrypts and returns the secret fields of an item.
	Reveal(id string) (*model.Item, *RevealedSecret, error)

	// Checkout marks an item as exclusively held by userID. It fails with
	// CheckoutConflictError when another user already holds it, and with
	// ErrInvalidState when the item does not require checkout.
	Checkout(id, userID string) (*model.Item, error)

	// Checkin releases a held item. ErrNotCheckedOut when nobody holds it.
	Checkin(id string) (*model.Item, error)
}
