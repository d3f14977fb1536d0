package marketplace

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	originalDB := database.DB
	database.DB = db

	return mock, func() {
		database.DB = originalDB
		mockDB.Close()
	}
}

func transactionRow(status TransactionStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "listing_id", "buyer_id", "amount_cents", "status", "stripe_session_id"}).
		AddRow("tx-1", time.Now(), time.Now(), "listing-1", "buyer-1", 4500, string(status), "cs_123")
}

func TestCompleteBySessionCompletesPending(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	mock.ExpectQuery(`SELECT`).WillReturnRows(transactionRow(TransactionPending))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// Listing vendu
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "listings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	// Annulation des autres transactions pendantes
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := CompleteBySession("cs_123")

	assert.NoError(t, err)
	assert.NotNil(t, tx)
	assert.Equal(t, TransactionCompleted, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteBySessionNoOpWhenAlreadyCompleted(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	// Relivraison : la transaction est déjà COMPLETED, aucun UPDATE ne part
	mock.ExpectQuery(`SELECT`).WillReturnRows(transactionRow(TransactionCompleted))

	tx, err := CompleteBySession("cs_123")

	assert.NoError(t, err)
	assert.Equal(t, TransactionCompleted, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteBySessionMissingTransaction(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tx, err := CompleteBySession("cs_inconnue")

	assert.ErrorIs(t, err, ErrNoPendingTransaction)
	assert.Nil(t, tx)
}

func TestCancelBySessionCancelsPending(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	mock.ExpectQuery(`SELECT`).WillReturnRows(transactionRow(TransactionPending))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := CancelBySession("cs_123")

	assert.NoError(t, err)
	assert.Equal(t, TransactionCancelled, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBySessionNoOpWhenTerminal(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	// Une transaction déjà COMPLETED ne doit jamais repasser CANCELLED
	mock.ExpectQuery(`SELECT`).WillReturnRows(transactionRow(TransactionCompleted))

	tx, err := CancelBySession("cs_123")

	assert.NoError(t, err)
	assert.Equal(t, TransactionCompleted, tx.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
