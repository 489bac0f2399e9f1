package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
)

type walletStore struct {
	st  *state
	now func() time.Time
}

func walletKey(leagueID, clubID string) string {
	return leagueID + "/" + clubID
}

func (r *walletStore) Create(_ context.Context, w wallet.Wallet) (bool, error) {
	key := walletKey(w.LeagueID, w.ClubID)
	if _, ok := r.st.wallets[key]; ok {
		return false, nil
	}
	r.st.wallets[key] = w
	return true, nil
}

func (r *walletStore) Get(_ context.Context, leagueID, clubID string) (wallet.Wallet, bool, error) {
	w, ok := r.st.wallets[walletKey(leagueID, clubID)]
	return w, ok, nil
}

func (r *walletStore) GetForUpdate(ctx context.Context, leagueID, clubID string) (wallet.Wallet, bool, error) {
	return r.Get(ctx, leagueID, clubID)
}

func (r *walletStore) ApplyDelta(_ context.Context, leagueID, clubID string, delta int64, allowNegative bool) (int64, error) {
	key := walletKey(leagueID, clubID)
	w, ok := r.st.wallets[key]
	if !ok {
		return 0, errors.Wrapf(economy.ErrNotFound, "wallet league=%s club=%s", leagueID, clubID)
	}

	next, err := wallet.Apply(w.Balance, delta, allowNegative)
	if err != nil {
		return w.Balance, errors.Wrapf(err, "club=%s", clubID)
	}
	w.Balance = next
	w.UpdatedAt = r.now().UTC()
	r.st.wallets[key] = w
	return next, nil
}

func (r *walletStore) ListByLeague(_ context.Context, leagueID string) ([]wallet.Wallet, error) {
	out := make([]wallet.Wallet, 0)
	for _, w := range r.st.wallets {
		if w.LeagueID == leagueID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClubID < out[j].ClubID })
	return out, nil
}
