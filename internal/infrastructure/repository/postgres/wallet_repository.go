package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
	qb "github.com/riskibarqy/career-league/internal/platform/querybuilder"
)

type WalletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, w wallet.Wallet) (bool, error) {
	row := walletTableModel{
		LeagueID:        w.LeagueID,
		ClubID:          w.ClubID,
		Balance:         w.Balance,
		StartingBalance: w.StartingBalance,
		CreatedAt:       w.CreatedAt.UTC(),
		UpdatedAt:       w.UpdatedAt.UTC(),
	}
	query, args, err := qb.InsertModel("wallets", row, "ON CONFLICT (league_id, club_id) DO NOTHING")
	if err != nil {
		return false, errors.Wrap(err, "build insert wallet query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrapf(err, "insert wallet league=%s club=%s", w.LeagueID, w.ClubID)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *WalletRepository) Get(ctx context.Context, leagueID, clubID string) (wallet.Wallet, bool, error) {
	return r.get(ctx, leagueID, clubID, false)
}

func (r *WalletRepository) GetForUpdate(ctx context.Context, leagueID, clubID string) (wallet.Wallet, bool, error) {
	return r.get(ctx, leagueID, clubID, true)
}

func (r *WalletRepository) get(ctx context.Context, leagueID, clubID string, lock bool) (wallet.Wallet, bool, error) {
	builder := qb.Select(walletColumns...).From("wallets").
		Where(qb.Eq("league_id", leagueID), qb.Eq("club_id", clubID))
	if lock {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return wallet.Wallet{}, false, errors.Wrap(err, "build select wallet query")
	}

	var row walletTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return wallet.Wallet{}, false, nil
		}
		return wallet.Wallet{}, false, errors.Wrapf(err, "select wallet league=%s club=%s", leagueID, clubID)
	}
	return row.toDomain(), true, nil
}

func (r *WalletRepository) ApplyDelta(ctx context.Context, leagueID, clubID string, delta int64, allowNegative bool) (int64, error) {
	w, ok, err := r.GetForUpdate(ctx, leagueID, clubID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Wrapf(economy.ErrNotFound, "wallet league=%s club=%s", leagueID, clubID)
	}

	next, err := wallet.Apply(w.Balance, delta, allowNegative)
	if err != nil {
		return w.Balance, errors.Wrapf(err, "club=%s", clubID)
	}

	query, args, err := qb.Update("wallets").
		Set("balance", next).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("league_id", leagueID), qb.Eq("club_id", clubID)).
		ToSQL()
	if err != nil {
		return w.Balance, errors.Wrap(err, "build update wallet balance query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return w.Balance, errors.Wrapf(err, "update wallet balance league=%s club=%s", leagueID, clubID)
	}
	return next, nil
}

func (r *WalletRepository) ListByLeague(ctx context.Context, leagueID string) ([]wallet.Wallet, error) {
	query, args, err := qb.Select(walletColumns...).From("wallets").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("club_id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select wallets by league query")
	}

	var rows []walletTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select wallets league=%s", leagueID)
	}

	out := make([]wallet.Wallet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
