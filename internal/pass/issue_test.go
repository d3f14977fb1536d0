package pass

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

func passRows() []string {
	return []string{"id", "created_at", "user_id", "park_id", "pass_type", "expires_at", "stripe_payment_id"}
}

func TestIssueFromPaymentCreatesPass(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	// Aucun pass existant pour ce paiement
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(passRows()))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "passes"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	p, err := IssueFromPayment("user-1", "park-1", PassMonth, "pi_123")

	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, PassMonth, p.PassType)
	assert.Equal(t, "user-1", p.UserID)
	assert.WithinDuration(t, time.Now().Add(PassMonth.Duration()), p.ExpiresAt, time.Minute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueFromPaymentIsIdempotent(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	// Relivraison du webhook : le pass existe déjà pour cette référence de
	// paiement, aucun INSERT ne doit partir
	existing := sqlmock.NewRows(passRows()).
		AddRow("pass-1", time.Now(), "user-1", "park-1", "month", time.Now().Add(30*24*time.Hour), "pi_123")
	mock.ExpectQuery(`SELECT`).WillReturnRows(existing)

	p, err := IssueFromPayment("user-1", "park-1", PassMonth, "pi_123")

	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, "pass-1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueFromPaymentValidation(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		passType   PassType
		paymentRef string
	}{
		{name: "missing user", userID: "", passType: PassDay, paymentRef: "pi_1"},
		{name: "missing payment ref", userID: "user-1", passType: PassDay, paymentRef: ""},
		{name: "unknown pass type", userID: "user-1", passType: PassType("vip"), paymentRef: "pi_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := IssueFromPayment(tt.userID, "park-1", tt.passType, tt.paymentRef)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestPassTypeDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, PassDay.Duration())
	assert.Equal(t, 30*24*time.Hour, PassMonth.Duration())
	assert.Equal(t, 90*24*time.Hour, PassSeason.Duration())
	assert.Equal(t, 365*24*time.Hour, PassAnnual.Duration())
}
