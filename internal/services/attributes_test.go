package services

import (
	"regexp"
	"testing"

	"game_inventory/internal/models"
	"game_inventory/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestAttributeService_Create(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewAttributeService(st, nil)

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `attributes`")).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := service.Create(&models.Attribute{
			Name: "completed",
			Type: models.AttributeBoolean,
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `attributes`")).
			WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'completed'"})
		mock.ExpectRollback()

		result, err := service.Create(&models.Attribute{
			Name: "completed",
			Type: models.AttributeBoolean,
		})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, storage.ErrExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := service.Create(&models.Attribute{Name: "broken", Type: "enum"})

		assert.Error(t, err)
	})

	t.Run("select needs options", func(t *testing.T) {
		_, err := service.Create(&models.Attribute{Name: "region", Type: models.AttributeSelect})

		assert.Error(t, err)
	})
}

func TestAttributeService_GetGlobal(t *testing.T) {
	st, mock := setupMockDB(t)
	defer st.Close()

	service := NewAttributeService(st, nil)

	rows := sqlmock.NewRows([]string{"id", "name", "type", "is_global"}).
		AddRow("id-1", "completed", "boolean", true).
		AddRow("id-2", "rating", "number", true)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `attributes` WHERE is_global = ?")).
		WithArgs(true).
		WillReturnRows(rows)

	attributes, err := service.GetGlobal()

	assert.NoError(t, err)
	assert.Len(t, attributes, 2)
	assert.True(t, attributes[0].IsGlobal)
	assert.NoError(t, mock.ExpectationsWereMet())
}
