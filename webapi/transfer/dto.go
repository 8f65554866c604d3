package transfer

import (
	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/shopspring/decimal"
)

// PostTransferRequest is the request body for an account-to-account
// transfer. Transfers settle synchronously; the response carries the
// terminal status.
type PostTransferRequest struct {
	SourceIBAN  string  `json:"source_iban" validate:"required,min=15,max=34"`
	TargetIBAN  string  `json:"target_iban" validate:"required,min=15,max=34"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=255"`
}

// TransferResponse is the API representation of a transfer record.
type TransferResponse struct {
	ID              string          `json:"id"`
	SourceAccountID string          `json:"source_account_id"`
	TargetAccountID string          `json:"target_account_id"`
	SourceIBAN      string          `json:"source_iban,omitempty"`
	TargetIBAN      string          `json:"target_iban,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Timestamp       string          `json:"timestamp"`
	Status          string          `json:"status"`
}

const timestampLayout = "2006-01-02T15:04:05Z07:00"

// ToTransferResponse maps a domain transfer to its API shape.
func ToTransferResponse(tx *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:              tx.ID.String(),
		SourceAccountID: tx.SourceAccountID.String(),
		TargetAccountID: tx.TargetAccountID.String(),
		Amount:          tx.Amount,
		Description:     tx.Description,
		Timestamp:       tx.Timestamp.Format(timestampLayout),
		Status:          string(tx.Status),
	}
}

// ToTransferReadResponse maps a transfer read DTO to its API shape.
func ToTransferReadResponse(tx dto.TransferRead) *TransferResponse {
	return &TransferResponse{
		ID:              tx.ID.String(),
		SourceAccountID: tx.SourceAccountID.String(),
		TargetAccountID: tx.TargetAccountID.String(),
		SourceIBAN:      tx.SourceIBAN,
		TargetIBAN:      tx.TargetIBAN,
		Amount:          tx.Amount,
		Description:     tx.Description,
		Timestamp:       tx.Timestamp.Format(timestampLayout),
		Status:          string(tx.Status),
	}
}
