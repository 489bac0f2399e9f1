package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/domain/economy"
)

var (
	ErrInvalidInput          = economy.ErrValidation
	ErrNotFound              = economy.ErrNotFound
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
