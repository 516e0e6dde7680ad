package gorm

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keyhaven/keyhaven/pkg/keybox"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

func newMockDB(t *testing.T) (*gormlib.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gormlib.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gormlib.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)
	return gormDB, mock
}

func testSealer(t *testing.T) *keybox.Sealer {
	t.Helper()
	sealer, err := keybox.NewSealerFromPassphrase("unit-test-passphrase")
	require.NoError(t, err)
	return sealer
}

func itemColumns() []string {
	return []string{"id", "vault_id", "title", "password_encrypted", "notes_encrypted", "requires_checkout", "checked_out_by"}
}

func TestItemsCheckoutWinsRace(t *testing.T) {
	db, mock := newMockDB(t)
	items := NewItemsStore(db, testSealer(t))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "items" SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "it-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "items" WHERE id =`).
		WithArgs("it-1").
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow("it-1", "v-1", "prod db", "", "", true, "u-1"))

	item, err := items.Checkout("it-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", item.CheckedOutBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemsCheckoutConflictReportsHolder(t *testing.T) {
	db, mock := newMockDB(t)
	items := NewItemsStore(db, testSealer(t))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "items" SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "it-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "items" WHERE id =`).
		WithArgs("it-1").
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow("it-1", "v-1", "prod db", "", "", true, "someone-else"))

	_, err := items.Checkout("it-1", "u-1")
	var conflict *store.CheckoutConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "someone-else", conflict.HolderID)
}

func TestItemsCheckoutNotRequired(t *testing.T) {
	db, mock := newMockDB(t)
	items := NewItemsStore(db, testSealer(t))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "items" SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "it-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "items" WHERE id =`).
		WithArgs("it-1").
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow("it-1", "v-1", "prod db", "", "", false, ""))

	_, err := items.Checkout("it-1", "u-1")
	assert.ErrorIs(t, err, store.ErrInvalidState)
}

func TestItemsRevealDecryptsBoundCiphertext(t *testing.T) {
	db, mock := newMockDB(t)
	sealer := testSealer(t)
	items := NewItemsStore(db, sealer)

	password, err := sealer.Seal("it-1:password", "hunter2")
	require.NoError(t, err)
	notes, err := sealer.Seal("it-1:notes", "rotate quarterly")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "items" WHERE id =`).
		WithArgs("it-1").
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow("it-1", "v-1", "prod db", password, notes, false, ""))

	_, secret, err := items.Reveal("it-1")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret.Password)
	assert.Equal(t, "rotate quarterly", secret.Notes)
}

func TestItemsRevealRejectsForeignCiphertext(t *testing.T) {
	db, mock := newMockDB(t)
	sealer := testSealer(t)
	items := NewItemsStore(db, sealer)

	// Sealed for a different item; a row swap must not decrypt.
	password, err := sealer.Seal("it-2:password", "hunter2")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "items" WHERE id =`).
		WithArgs("it-1").
		WillReturnRows(sqlmock.NewRows(itemColumns()).
			AddRow("it-1", "v-1", "prod db", password, password, false, ""))

	_, _, err = items.Reveal("it-1")
	assert.ErrorIs(t, err, keybox.ErrDecryption)
}

func TestRequestsExpireOverdue(t *testing.T) {
	db, mock := newMockDB(t)
	requests := NewRequestsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jit_requests" SET "status"=.+ WHERE status = .+ AND expires_at <`).
		WithArgs(model.RequestExpired, model.RequestApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, requests.ExpireOverdue(time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestsApproveJITAlreadyDecided(t *testing.T) {
	db, mock := newMockDB(t)
	requests := NewRequestsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jit_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "jit_requests" WHERE id =`).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("req-1", model.RequestDenied))

	_, err := requests.ApproveJIT("req-1", "approver", time.Hour)
	assert.ErrorIs(t, err, store.ErrInvalidState)
}

// timeRecorder matches any time.Time argument and keeps it for later asserts.
type timeRecorder struct {
	captured *time.Time
}

func (r timeRecorder) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if ok {
		*r.captured = ts
	}
	return ok
}

func TestRequestsApproveJITDerivesExpiryFromApproval(t *testing.T) {
	db, mock := newMockDB(t)
	requests := NewRequestsStore(db)

	var approvedAt, expiresAt time.Time
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jit_requests" SET`).
		WithArgs(timeRecorder{&approvedAt}, "approver", timeRecorder{&expiresAt},
			model.RequestApproved, "req-1", model.RequestPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "jit_requests" WHERE id =`).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("req-1", model.RequestApproved))

	_, err := requests.ApproveJIT("req-1", "approver", 6*time.Hour)
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(approvedAt.Add(6*time.Hour)),
		"expiry must be duration past the approval instant, got %s vs %s", expiresAt, approvedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVaultsRenameCascadeCountsCharacters(t *testing.T) {
	db, mock := newMockDB(t)
	vaults := NewVaultsStore(db)

	// "Café Ops > " is 11 characters but 12 bytes; the cascade offset must
	// be the character count plus one.
	vault := &model.Vault{ID: "v-1", Name: "Café Renamed", Path: "Café Renamed"}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "vaults" SET .+ WHERE "id" =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "vaults" SET "path"=.+substr\(path`).
		WithArgs("Café Renamed > ", 12, sqlmock.AnyArg(), `Café Ops > %`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, vaults.Update(vault, "Café Ops"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersFindByEmailAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email =`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	user, err := users.FindByEmail("ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLikePrefixEscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `Ops \% Infra > %`, likePrefix("Ops % Infra > "))
	assert.Equal(t, `a\_b%`, likePrefix("a_b"))
}
