package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/riskibarqy/career-league/internal/domain/transfer"
	"github.com/riskibarqy/career-league/internal/domain/wallet"
	idgen "github.com/riskibarqy/career-league/internal/platform/id"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/metrics"
)

// ClubBalance is a wallet balance after a committed operation.
type ClubBalance struct {
	LeagueID string `json:"league_id"`
	ClubID   string `json:"club_id"`
	Balance  int64  `json:"balance"`
}

// TransferEvent is the published shape of a ledger record.
type TransferEvent struct {
	ID                string    `json:"id"`
	LeagueID          string    `json:"league_id"`
	ScopeID           string    `json:"scope_id"`
	PlayerID          string    `json:"player_id"`
	OriginLeagueID    string    `json:"origin_league_id,omitempty"`
	OriginClubID      string    `json:"origin_club_id,omitempty"`
	DestinationClubID string    `json:"destination_club_id"`
	Type              string    `json:"type"`
	Amount            int64     `json:"amount"`
	CorrelationID     string    `json:"correlation_id,omitempty"`
	Note              string    `json:"note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// TransferEventFrom maps a ledger record to its published and served shape.
func TransferEventFrom(rec transfer.Record) TransferEvent {
	return TransferEvent{
		ID:                rec.ID,
		LeagueID:          rec.LeagueID,
		ScopeID:           rec.ScopeID,
		PlayerID:          rec.PlayerID,
		OriginLeagueID:    rec.OriginLeagueID,
		OriginClubID:      rec.OriginClubID,
		DestinationClubID: rec.DestinationClubID,
		Type:              string(rec.Type),
		Amount:            rec.Amount,
		CorrelationID:     rec.CorrelationID,
		Note:              rec.Note,
		CreatedAt:         rec.CreatedAt,
	}
}

type walletRef struct {
	leagueID string
	clubID   string
}

func (r walletRef) key() string {
	return r.leagueID + "/" + r.clubID
}

// lockWallets takes the row locks of every referenced wallet in key order.
func lockWallets(ctx context.Context, wallets wallet.Repository, refs ...walletRef) (map[walletRef]wallet.Wallet, error) {
	sorted := append([]walletRef(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].key() < sorted[j].key() })

	out := make(map[walletRef]wallet.Wallet, len(sorted))
	for _, ref := range sorted {
		if _, seen := out[ref]; seen {
			continue
		}
		w, ok, err := wallets.GetForUpdate(ctx, ref.leagueID, ref.clubID)
		if err != nil {
			return nil, fmt.Errorf("lock wallet league=%s club=%s: %w", ref.leagueID, ref.clubID, err)
		}
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "wallet league=%s club=%s", ref.leagueID, ref.clubID)
		}
		out[ref] = w
	}
	return out, nil
}

func appendRecord(ctx context.Context, ledger transfer.Repository, rec transfer.Record) error {
	if err := rec.Validate(); err != nil {
		return errors.Wrapf(err, "build %s record", rec.Type)
	}
	if err := ledger.Append(ctx, rec); err != nil {
		return fmt.Errorf("append %s record: %w", rec.Type, err)
	}
	return nil
}

func loadLeague(ctx context.Context, repo league.Repository, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	item, ok, err := repo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league=%s: %w", leagueID, err)
	}
	if !ok {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

func loadPlayer(ctx context.Context, repo player.Repository, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	item, ok, err := repo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player=%s: %w", playerID, err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return item, nil
}

func requireID(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return value, nil
}

func newID(gen idgen.Generator) (string, error) {
	id, err := gen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}

func observeFailure(operation string, err error) {
	if err == nil {
		return
	}
	metrics.OperationFailuresTotal.WithLabelValues(operation, string(economy.KindOf(err))).Inc()
}

func observeRecords(records []transfer.Record) {
	for _, rec := range records {
		metrics.TransfersTotal.WithLabelValues(string(rec.Type)).Inc()
		metrics.TransferAmountTotal.WithLabelValues(string(rec.Type)).Add(float64(rec.Amount))
	}
}

func publishRecords(ctx context.Context, events EventPublisher, logger *logging.Logger, records []transfer.Record) {
	for _, rec := range records {
		key := rec.ScopeID + ":" + rec.PlayerID
		if err := events.Publish(ctx, key, EventTransferRecorded, TransferEventFrom(rec)); err != nil {
			logger.WarnContext(ctx, "publish transfer event failed",
				"record_id", rec.ID,
				"type", rec.Type,
				"error", err,
			)
		}
	}
}
