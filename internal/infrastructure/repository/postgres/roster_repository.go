package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/roster"
	qb "github.com/riskibarqy/career-league/internal/platform/querybuilder"
)

// RosterRepository relies on the partial unique index
// roster_assignments(scope_id, player_id) WHERE active.
type RosterRepository struct {
	db DBTX
}

func NewRosterRepository(db DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetActive(ctx context.Context, scopeID, playerID string) (roster.Assignment, bool, error) {
	return r.getActive(ctx, scopeID, playerID, false)
}

func (r *RosterRepository) GetActiveForUpdate(ctx context.Context, scopeID, playerID string) (roster.Assignment, bool, error) {
	return r.getActive(ctx, scopeID, playerID, true)
}

func (r *RosterRepository) getActive(ctx context.Context, scopeID, playerID string, lock bool) (roster.Assignment, bool, error) {
	builder := qb.Select(rosterColumns...).From("roster_assignments").
		Where(
			qb.Eq("scope_id", scopeID),
			qb.Eq("player_id", playerID),
			qb.IsTrue("active"),
		)
	if lock {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return roster.Assignment{}, false, errors.Wrap(err, "build select active assignment query")
	}

	var row rosterAssignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Assignment{}, false, nil
		}
		return roster.Assignment{}, false, errors.Wrapf(err, "select active assignment scope=%s player=%s", scopeID, playerID)
	}
	return row.toDomain(), true, nil
}

func (r *RosterRepository) CountActiveByClub(ctx context.Context, leagueID, clubID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("roster_assignments").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("club_id", clubID),
			qb.IsTrue("active"),
		).
		ToSQL()
	if err != nil {
		return 0, errors.Wrap(err, "build count roster query")
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrapf(err, "count roster league=%s club=%s", leagueID, clubID)
	}
	return count, nil
}

func (r *RosterRepository) ListActiveByClub(ctx context.Context, leagueID, clubID string) ([]roster.Assignment, error) {
	query, args, err := qb.Select(rosterColumns...).From("roster_assignments").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("club_id", clubID),
			qb.IsTrue("active"),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select roster query")
	}

	var rows []rosterAssignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select roster league=%s club=%s", leagueID, clubID)
	}

	out := make([]roster.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RosterRepository) ListClubsWithActive(ctx context.Context, leagueID string) ([]string, error) {
	query, args, err := qb.Select("DISTINCT club_id").From("roster_assignments").
		Where(qb.Eq("league_id", leagueID), qb.IsTrue("active")).
		OrderBy("club_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select rostered clubs query")
	}

	out := make([]string, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select rostered clubs league=%s", leagueID)
	}
	return out, nil
}

func (r *RosterRepository) Insert(ctx context.Context, a roster.Assignment) error {
	query, args, err := qb.InsertInto("roster_assignments").
		Columns(rosterColumns...).
		Values(a.ID, a.ScopeID, a.LeagueID, a.PlayerID, a.ClubID, a.AcquiredValue, a.Wage, a.Active, a.AcquiredAt.UTC(), nullTime(a.ReleasedAt)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build insert assignment query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return economy.Conflict(err, "insert roster assignment")
		}
		return errors.Wrapf(err, "insert assignment player=%s club=%s", a.PlayerID, a.ClubID)
	}
	return nil
}

func (r *RosterRepository) Deactivate(ctx context.Context, assignmentID string, releasedAt time.Time) error {
	query, args, err := qb.Update("roster_assignments").
		SetExpr("active", "FALSE").
		Set("released_at", releasedAt.UTC()).
		Where(qb.Eq("id", assignmentID), qb.IsTrue("active")).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build deactivate assignment query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "deactivate assignment %s", assignmentID)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return economy.Conflict(errors.Newf("assignment %s is not active", assignmentID), "deactivate roster assignment")
	}
	return nil
}
