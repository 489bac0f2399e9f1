package usecase

import (
	"context"
	"time"
)

// JobQueue schedules a delayed HTTP callback into this service.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// EventPublisher emits ledger events after a unit of work has committed.
// Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(_ context.Context, _, _ string, _ any) error {
	return nil
}

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

const (
	EventTransferRecorded = "transfer.recorded"
	EventPayrollCharged   = "payroll.charged"
	EventAuctionBid       = "auction.bid"
	EventAuctionFinalized = "auction.finalized"
	EventAuctionCancelled = "auction.cancelled"
)

const (
	JobPathSettleAuction = "/v1/internal/jobs/settle-auction"
	JobPathSweepAuctions = "/v1/internal/jobs/sweep-auctions"
)
