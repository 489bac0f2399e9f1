package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	qb "github.com/riskibarqy/career-league/internal/platform/querybuilder"
)

// TransferRepository is the append-only ledger. Rows carry a bigserial seq
// that orders them by insertion.
type TransferRepository struct {
	db DBTX
}

func NewTransferRepository(db DBTX) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Append(ctx context.Context, rec transfer.Record) error {
	query, args, err := qb.InsertInto("transfer_records").
		Columns(transferColumns...).
		Values(
			rec.ID,
			rec.LeagueID,
			rec.ScopeID,
			rec.PlayerID,
			nullString(rec.OriginLeagueID),
			nullString(rec.OriginClubID),
			rec.DestinationClubID,
			string(rec.Type),
			rec.Amount,
			nullString(rec.CorrelationID),
			rec.Note,
			rec.CreatedAt.UTC(),
		).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build insert transfer record query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return economy.Conflict(err, "insert transfer record")
		}
		return errors.Wrapf(err, "insert transfer record %s", rec.ID)
	}
	return nil
}

// List returns newest records first.
func (r *TransferRepository) List(ctx context.Context, filter transfer.Filter) ([]transfer.Record, error) {
	conditions := make([]qb.Condition, 0, 3)
	switch {
	case filter.LeagueID != "" && filter.ClubID != "":
		// A club id is only unique within its league; pair each side.
		conditions = append(conditions, qb.Or(
			qb.And(qb.Eq("league_id", filter.LeagueID), qb.Eq("destination_club_id", filter.ClubID)),
			qb.And(qb.Eq("origin_league_id", filter.LeagueID), qb.Eq("origin_club_id", filter.ClubID)),
		))
	case filter.LeagueID != "":
		conditions = append(conditions, qb.Or(qb.Eq("league_id", filter.LeagueID), qb.Eq("origin_league_id", filter.LeagueID)))
	case filter.ClubID != "":
		conditions = append(conditions, qb.Or(qb.Eq("origin_club_id", filter.ClubID), qb.Eq("destination_club_id", filter.ClubID)))
	}
	if filter.PlayerID != "" {
		conditions = append(conditions, qb.Eq("player_id", filter.PlayerID))
	}

	query, args, err := qb.Select(transferColumns...).From("transfer_records").
		Where(conditions...).
		OrderBy("seq DESC").
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select transfer records query")
	}

	var rows []transferRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select transfer records")
	}

	out := make([]transfer.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TransferRepository) NetForClub(ctx context.Context, leagueID, clubID string) (int64, error) {
	credits, err := r.sumAmount(ctx, qb.Eq("origin_league_id", leagueID), qb.Eq("origin_club_id", clubID))
	if err != nil {
		return 0, errors.Wrapf(err, "sum credits league=%s club=%s", leagueID, clubID)
	}
	debits, err := r.sumAmount(ctx, qb.Eq("league_id", leagueID), qb.Eq("destination_club_id", clubID))
	if err != nil {
		return 0, errors.Wrapf(err, "sum debits league=%s club=%s", leagueID, clubID)
	}
	return credits - debits, nil
}

func (r *TransferRepository) sumAmount(ctx context.Context, conditions ...qb.Condition) (int64, error) {
	query, args, err := qb.Select("COALESCE(SUM(amount), 0)").From("transfer_records").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return 0, errors.Wrap(err, "build sum transfer amount query")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}
