package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func pendingRow(appID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "application_status", "business_name"}).
		AddRow(appID, 10, "pending", "GreenFarm Ltd")
}

func TestReviewApprovesPendingApplication(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "endorsement_applications"`).
		WillReturnRows(pendingRow(1))
	mock.ExpectExec(`UPDATE "endorsement_applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	score := 85
	err := repo.Review(1, 42, domain.ReviewDecisionApproved, &score, nil, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewGuardRejectsConcurrentDecision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	// The row reads as pending but another decision lands first, so the
	// status-guarded update matches nothing.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "endorsement_applications"`).
		WillReturnRows(pendingRow(1))
	mock.ExpectExec(`UPDATE "endorsement_applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Review(1, 42, domain.ReviewDecisionRejected, nil, nil, nil)

	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewMissingApplication(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "endorsement_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Review(404, 42, domain.ReviewDecisionApproved, nil, nil, nil)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDPreloadsDocuments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "endorsement_applications"`).
		WillReturnRows(pendingRow(1))
	mock.ExpectQuery(`SELECT \* FROM "application_documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "doc_type", "file_url"}).
			AddRow(7, 1, "cac_document", "https://cdn.example/nnypadocuments/10/1"))

	app, err := repo.FindByID(1)

	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	require.Len(t, app.Documents, 1)
	assert.Equal(t, domain.DocumentTypeCAC, app.Documents[0].DocType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithDocumentsInsertsChildRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "endorsement_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "application_documents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	app := &domain.EndorsementApplication{
		UserID:              10,
		Status:              domain.ApplicationStatusPending,
		BusinessName:        "GreenFarm Ltd",
		BusinessType:        "Limited Liability",
		BusinessSector:      "Agriculture",
		BusinessDescription: "Cassava processing",
		BusinessState:       "Oyo",
		BusinessLGA:         "Ibadan North",
		BusinessAddress:     "12 Ring Road",
	}
	docs := []domain.ApplicationDocument{
		{DocType: domain.DocumentTypeCAC, FileURL: "https://cdn.example/doc"},
	}

	err := repo.CreateWithDocuments(app, docs)

	require.NoError(t, err)
	assert.Equal(t, uint(1), app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithDocumentsRollsBackOnChildFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "endorsement_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "application_documents"`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	docs := []domain.ApplicationDocument{
		{DocType: domain.DocumentTypeCAC, FileURL: "https://cdn.example/doc"},
	}

	err := repo.CreateWithDocuments(&domain.EndorsementApplication{UserID: 10}, docs)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
