// Package dto defines the data transfer objects exchanged between the
// service layer and the repositories: read-optimized projections, create
// payloads, and partial updates.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized DTO for account queries. Balance and the
// three limits are signed decimals; only Balance is ever written back by
// this core.
type AccountRead struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	IBAN          string
	Balance       decimal.Decimal
	AbsoluteLimit decimal.Decimal
	DailyLimit    decimal.Decimal
	WithdrawLimit decimal.Decimal
	CreatedAt     time.Time
}
