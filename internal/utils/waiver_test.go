package utils

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LucasBertrand/SkateHub-Back/internal/database"
)

func TestHasValidWaiver(t *testing.T) {
	// Setup mock database
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	// Configure GORM with mock
	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	// Assign mock DB to database.DB for testing
	originalDB := database.DB
	database.DB = db
	defer func() { database.DB = originalDB }()

	waiverColumns := []string{"id", "created_at", "user_id", "park_id", "guardian_name", "signed_at", "signature_url", "revision"}

	tests := []struct {
		name          string
		userID        string
		parkID        string
		revision      int
		mockRows      *sqlmock.Rows
		expectedValid bool
		expectedError bool
	}{
		{
			name:     "Signed waiver for current revision",
			userID:   "user1",
			parkID:   "park1",
			revision: 2,
			mockRows: sqlmock.NewRows(waiverColumns).
				AddRow("waiver1", time.Now(), "user1", "park1", "", time.Now(), "https://bucket.s3.amazonaws.com/waivers/sig.png", 2),
			expectedValid: true,
			expectedError: false,
		},
		{
			name:          "No waiver signed",
			userID:        "user1",
			parkID:        "park1",
			revision:      2,
			mockRows:      sqlmock.NewRows(waiverColumns),
			expectedValid: false,
			expectedError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := `SELECT`
			mock.ExpectQuery(query).WillReturnRows(tt.mockRows)

			valid, err := HasValidWaiver(tt.userID, tt.parkID, tt.revision)

			assert.Equal(t, tt.expectedValid, valid)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
