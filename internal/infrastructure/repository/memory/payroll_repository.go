package memory

import (
	"context"
	"sort"
	"strconv"

	"github.com/riskibarqy/career-league/internal/domain/payroll"
)

type payrollStore struct {
	st *state
}

func batchKey(leagueID string, round int, clubID string) string {
	return leagueID + "/" + strconv.Itoa(round) + "/" + clubID
}

func (r *payrollStore) InsertIfAbsent(_ context.Context, b payroll.Batch) (bool, error) {
	key := batchKey(b.LeagueID, b.Round, b.ClubID)
	if _, ok := r.st.batches[key]; ok {
		return false, nil
	}
	r.st.batches[key] = b
	return true, nil
}

func (r *payrollStore) ListByRound(_ context.Context, leagueID string, round int) ([]payroll.Batch, error) {
	out := make([]payroll.Batch, 0)
	for _, b := range r.st.batches {
		if b.LeagueID == leagueID && b.Round == round {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClubID < out[j].ClubID })
	return out, nil
}

func (r *payrollStore) SumByClub(_ context.Context, leagueID, clubID string) (int64, error) {
	var total int64
	for _, b := range r.st.batches {
		if b.LeagueID == leagueID && b.ClubID == clubID {
			total += b.TotalWage
		}
	}
	return total, nil
}
