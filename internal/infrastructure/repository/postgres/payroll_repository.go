package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/payroll"
	qb "github.com/riskibarqy/career-league/internal/platform/querybuilder"
)

type PayrollRepository struct {
	db DBTX
}

func NewPayrollRepository(db DBTX) *PayrollRepository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) InsertIfAbsent(ctx context.Context, b payroll.Batch) (bool, error) {
	row := payrollBatchTableModel{
		LeagueID:  b.LeagueID,
		Round:     b.Round,
		ClubID:    b.ClubID,
		TotalWage: b.TotalWage,
		CreatedAt: b.CreatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("payroll_batches", row, "ON CONFLICT (league_id, round, club_id) DO NOTHING")
	if err != nil {
		return false, errors.Wrap(err, "build insert payroll batch query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrapf(err, "insert payroll batch league=%s round=%d club=%s", b.LeagueID, b.Round, b.ClubID)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PayrollRepository) ListByRound(ctx context.Context, leagueID string, round int) ([]payroll.Batch, error) {
	query, args, err := qb.Select(payrollColumns...).From("payroll_batches").
		Where(qb.Eq("league_id", leagueID), qb.Eq("round", round)).
		OrderBy("club_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select payroll batches query")
	}

	var rows []payrollBatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select payroll batches league=%s round=%d", leagueID, round)
	}

	out := make([]payroll.Batch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PayrollRepository) SumByClub(ctx context.Context, leagueID, clubID string) (int64, error) {
	query, args, err := qb.Select("COALESCE(SUM(total_wage), 0)").From("payroll_batches").
		Where(qb.Eq("league_id", leagueID), qb.Eq("club_id", clubID)).
		ToSQL()
	if err != nil {
		return 0, errors.Wrap(err, "build sum payroll query")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, errors.Wrapf(err, "sum payroll league=%s club=%s", leagueID, clubID)
	}
	return total, nil
}
