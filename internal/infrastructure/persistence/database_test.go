package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDatabase wires a Database around a sqlmock connection so SQL
// expectations can be asserted without a real MySQL server.
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	err := db.Ping(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	err := db.Close()
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The tracker column names contain spaces and parentheses, so the
// generated SQL must backtick-quote them.
func TestDefectQuery_QuotesTrackerColumns(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT \\* FROM `defects_table_acc` WHERE `Issue key` = \\?").
		WithArgs("OSF-101", 1).
		WillReturnRows(sqlmock.NewRows([]string{"Issue key", "Summary", "Priority"}).
			AddRow("OSF-101", "Order stuck in RESERVED", "High"))

	var model DefectModel
	err := db.DB.Table("defects_table_acc").
		Where("`Issue key` = ?", "OSF-101").
		First(&model).Error
	require.NoError(t, err)

	assert.Equal(t, "OSF-101", model.IssueKey)
	assert.Equal(t, "Order stuck in RESERVED", model.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
