package atm

import (
	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/shopspring/decimal"
)

// CreateAtmTransactionRequest is the request body for submitting a cash
// transaction. The transaction is created pending; settlement happens on
// the next cycle.
type CreateAtmTransactionRequest struct {
	IBAN   string  `json:"iban" validate:"required,min=15,max=34"`
	Type   string  `json:"type" validate:"required,oneof=DEPOSIT WITHDRAW"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// AtmTransactionResponse is the API representation of a cash transaction.
type AtmTransactionResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     string          `json:"timestamp"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
}

// ToAtmTransactionResponse maps a domain transaction to its API shape.
func ToAtmTransactionResponse(tx *domain.AtmTransaction) *AtmTransactionResponse {
	return &AtmTransactionResponse{
		ID:            tx.ID.String(),
		AccountID:     tx.AccountID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Timestamp:     tx.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
	}
}
