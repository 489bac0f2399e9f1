package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/riskibarqy/career-league/internal/domain/payroll"
	"github.com/stretchr/testify/require"
)

func TestPayrollRepository_InsertIfAbsent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPayrollRepository(db)
	insertSQL := "INSERT INTO payroll_batches (league_id, round, club_id, total_wage, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (league_id, round, club_id) DO NOTHING"
	batch := payroll.Batch{LeagueID: "l1", Round: 3, ClubID: "c1", TotalWage: 70, CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs("l1", 3, "c1", int64(70), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs("l1", 3, "c1", int64(70), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.InsertIfAbsent(context.Background(), batch)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(context.Background(), batch)
	require.NoError(t, err)
	require.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_SumByClub(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPayrollRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(total_wage), 0) FROM payroll_batches WHERE league_id = $1 AND club_id = $2")).
		WithArgs("l1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(210)))

	total, err := repo.SumByClub(context.Background(), "l1", "c1")
	require.NoError(t, err)
	require.Equal(t, int64(210), total)
	require.NoError(t, mock.ExpectationsWereMet())
}
