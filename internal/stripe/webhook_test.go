package stripe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
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

func postWebhook(payload []byte, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	c.Request.Header.Set("Stripe-Signature", signature)
	HandleStripeWebhook(c)
	return w
}

func signPayload(t *testing.T, payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%x", now.Unix(), sig)
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	mock, teardown := setupMockDB(t)
	defer teardown()

	payload := []byte(`{"type":"checkout.session.completed"}`)
	w := postWebhook(payload, "t=12345,v1=deadbeef")

	// Signature invalide : 400 et aucune écriture en base
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookAcknowledgesUnhandledEvent(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	mock, teardown := setupMockDB(t)
	defer teardown()

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{}}}`)
	w := postWebhook(payload, signPayload(t, payload, "whsec_test"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func checkoutCompletedEvent(t *testing.T, session map[string]interface{}) stripego.Event {
	raw, err := json.Marshal(session)
	assert.NoError(t, err)
	return stripego.Event{
		Type: "checkout.session.completed",
		Data: &stripego.EventData{Raw: raw},
	}
}

func TestDispatchPassCheckoutIssuesPass(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	// Émission du pass
	mock.ExpectQuery(`SELECT .* FROM "passes"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "passes"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Notification in-app puis recherche des abonnements push (aucun appareil)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "notifications"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "push_subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Activité de feed
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "activities"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := checkoutCompletedEvent(t, map[string]interface{}{
		"id": "cs_test_1",
		"metadata": map[string]string{
			"kind":      "pass",
			"user_id":   "user-1",
			"park_id":   "park-1",
			"pass_type": "month",
		},
	})

	dispatchEvent(event)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchListingCheckoutUnknownSession(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	// Aucune transaction pendante : l'événement est acquitté sans mutation
	mock.ExpectQuery(`SELECT .* FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	event := checkoutCompletedEvent(t, map[string]interface{}{
		"id": "cs_unknown",
		"metadata": map[string]string{
			"kind": "listing",
		},
	})

	dispatchEvent(event)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchSessionExpiredCancelsTransaction(t *testing.T) {
	mock, teardown := setupMockDB(t)
	defer teardown()

	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "listing_id", "buyer_id", "amount_cents", "status", "stripe_session_id"}).
		AddRow("tx-1", time.Now(), time.Now(), "listing-1", "buyer-1", 4500, "pending", "cs_exp")
	mock.ExpectQuery(`SELECT .* FROM "transactions"`).WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	raw, _ := json.Marshal(map[string]interface{}{"id": "cs_exp"})
	dispatchEvent(stripego.Event{
		Type: "checkout.session.expired",
		Data: &stripego.EventData{Raw: raw},
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
