package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/models"
)

// newMockDB swaps the package connection for a sqlmock-backed one and returns
// the mock plus a restore func.
func newMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	prev := db.DB
	db.DB = gdb
	return mock, func() {
		db.DB = prev
		sqlDB.Close()
	}
}

func answerRow(id, questionID, userID uint, helpful, expert int, accepted bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "question_id", "user_id", "helpful_count", "expert_count", "is_accepted"}).
		AddRow(id, questionID, userID, helpful, expert, accepted)
}

func questionRow(id, userID uint, hidden bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "is_hidden"}).
		AddRow(id, userID, hidden)
}

func TestToggleReactionAddsNewReaction(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 0, 0, false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "answer_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "answer_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "answers" SET "helpful_count"=helpful_count \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 1, 0, false))

	result, err := ToggleReaction(5, 7, models.ReactionHelpful)
	require.NoError(t, err)
	assert.Equal(t, ReactionAdded, result.Action)
	assert.Equal(t, 1, result.HelpfulCount)
	assert.Equal(t, 0, result.ExpertCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleReactionSameTypeRemoves(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 1, 0, false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "answer_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "answer_id", "type"}).
			AddRow(1, 5, 7, "helpful"))
	mock.ExpectExec(`DELETE FROM "answer_reactions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "answers" SET "helpful_count"=helpful_count \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 0, 0, false))

	result, err := ToggleReaction(5, 7, models.ReactionHelpful)
	require.NoError(t, err)
	assert.Equal(t, ReactionRemoved, result.Action)
	assert.Equal(t, 0, result.HelpfulCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleReactionDifferentTypeReplaces(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 1, 0, false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "answer_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "answer_id", "type"}).
			AddRow(1, 5, 7, "helpful"))
	mock.ExpectExec(`UPDATE "answer_reactions" SET "type"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Old counter down, new counter up, inside the same transaction.
	mock.ExpectExec(`UPDATE "answers" SET "helpful_count"=helpful_count \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "answers" SET "expert_count"=expert_count \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 0, 1, false))

	result, err := ToggleReaction(5, 7, models.ReactionExpert)
	require.NoError(t, err)
	assert.Equal(t, ReactionChanged, result.Action)
	assert.Equal(t, 0, result.HelpfulCount)
	assert.Equal(t, 1, result.ExpertCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleReactionNotHelpfulSkipsCounters(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 0, 0, false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "answer_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "answer_reactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	// No counter update follows: not_helpful only lives in the reaction table.
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 2, 0, 0, false))

	result, err := ToggleReaction(5, 7, models.ReactionNotHelpful)
	require.NoError(t, err)
	assert.Equal(t, ReactionAdded, result.Action)
	assert.Equal(t, 0, result.HelpfulCount)
	assert.Equal(t, 0, result.ExpertCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAnswerFirstAccept(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "questions"`).
		WillReturnRows(questionRow(3, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 1, 0, 0, false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE "answers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "answers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := AcceptAnswer(3, 7, 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Moving the accepted mark to another answer must clear every answer of the
// question before setting the new one, so the run ends with exactly one
// accepted row.
func TestAcceptAnswerClearsPreviousBeforeSetting(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "questions"`).
		WillReturnRows(questionRow(3, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(9, 3, 1, 0, 0, false))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 3, 1, 2, 0, true))
	mock.ExpectExec(`UPDATE "answers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "answers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := AcceptAnswer(3, 9, 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAnswerOwnerOnly(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "questions"`).
		WillReturnRows(questionRow(3, 1, false))

	err := AcceptAnswer(3, 7, 9)
	assert.ErrorIs(t, err, ErrNotQuestionOwner)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAnswerHiddenQuestion(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "questions"`).
		WillReturnRows(questionRow(3, 1, true))

	err := AcceptAnswer(3, 7, 1)
	assert.ErrorIs(t, err, ErrQuestionHidden)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAnswerRejectsForeignAnswer(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM "questions"`).
		WillReturnRows(questionRow(3, 1, false))
	mock.ExpectQuery(`SELECT (.+) FROM "answers"`).
		WillReturnRows(answerRow(7, 4, 1, 0, 0, false))

	err := AcceptAnswer(3, 7, 1)
	assert.ErrorIs(t, err, ErrAnswerMismatch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordQuestionViewBumpsQuestionAndAnswers(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE "questions" SET "views"=views \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "answers" SET "views"=views \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, RecordQuestionView(3, []uint{7, 9}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordQuestionViewWithoutAnswers(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	mock.ExpectExec(`UPDATE "questions" SET "views"=views \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, RecordQuestionView(3, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
