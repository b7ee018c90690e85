package repository

import (
	"testing"

	"quizentia_backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gdb, mock
}

func TestURLExists(t *testing.T) {
	gdb, mock := mockDB(t)
	repo := NewQuizRepository(gdb)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `quizzes`").
		WithArgs("https://example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.URLExists("https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `quizzes`").
		WithArgs("https://example.com/b").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.URLExists("https://example.com/b")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	gdb, mock := mockDB(t)
	repo := NewQuizRepository(gdb)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM `quizzes`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "url", "questions"}).
				AddRow(7, "Quiz Seven", "https://example.com/7", `[]`))

		quiz, err := repo.GetByID(7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), quiz.ID)
		assert.Equal(t, "Quiz Seven", quiz.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM `quizzes`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(404)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDsEmptyInput(t *testing.T) {
	gdb, mock := mockDB(t)
	repo := NewQuizRepository(gdb)

	// No query expected for an empty id list.
	quizzes, err := repo.GetByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, quizzes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch(t *testing.T) {
	gdb, mock := mockDB(t)
	repo := NewQuizRepository(gdb)

	questions := []model.Question{
		{Question: "Q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a", Hint: "h"},
	}
	items := []PendingQuiz{
		{Title: "First", URL: "https://example.com/1", Questions: questions},
		{Title: "Second", URL: "https://example.com/2", Questions: questions},
	}

	t.Run("CommitsQuizAndDefinitionPairs", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `quizzes`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO `quiz_definitions`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO `quizzes`").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec("INSERT INTO `quiz_definitions`").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		ids, err := repo.CreateBatch(items, "251201")
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, ids)
	})

	t.Run("RollsBackOnFailure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `quizzes`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO `quiz_definitions`").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := repo.CreateBatch(items, "251201")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithDefinition(t *testing.T) {
	gdb, mock := mockDB(t)
	repo := NewQuizRepository(gdb)

	quiz := &model.Quiz{ID: 5}

	t.Run("WithDefinition", func(t *testing.T) {
		def := &model.QuizDefinition{ID: 9, QuizID: 5}

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `quiz_definitions`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM `quizzes`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteWithDefinition(quiz, def))
	})

	t.Run("WithoutDefinition", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `quizzes`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteWithDefinition(quiz, nil))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDefinitionGetByQuizID(t *testing.T) {
	gdb, mock := mockDB(t)
	repo := NewQuizDefinitionRepository(gdb)

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM `quiz_definitions`").
			WithArgs(uint(3), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "week_id"}).
				AddRow(1, 3, "251201"))

		def, err := repo.GetByQuizID(3)
		require.NoError(t, err)
		require.NotNil(t, def)
		assert.Equal(t, "251201", def.WeekID)
	})

	t.Run("MissingIsNilNotError", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM `quiz_definitions`").
			WithArgs(uint(4), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		def, err := repo.GetByQuizID(4)
		require.NoError(t, err)
		assert.Nil(t, def)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
