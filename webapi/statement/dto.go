package statement

import (
	"github.com/amberbank/bankcore/pkg/dto"
	"github.com/shopspring/decimal"
)

// CombinedTransactionResponse is the API shape of one combined entry.
type CombinedTransactionResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	SourceIBAN    string          `json:"source_iban,omitempty"`
	TargetIBAN    string          `json:"target_iban,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Timestamp     string          `json:"timestamp"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
}

// PageResponse is the paginated envelope: one page of entries plus the
// total filtered count for client-side page-count computation.
type PageResponse struct {
	Content    []CombinedTransactionResponse `json:"content"`
	TotalCount int                           `json:"total_count"`
	Page       int                           `json:"page"`
	PageSize   int                           `json:"page_size"`
}

// ToPageResponse maps a service page to its API shape.
func ToPageResponse(page *dto.Page[dto.CombinedTransactionRead], pageNum, pageSize int) *PageResponse {
	out := &PageResponse{
		Content:    make([]CombinedTransactionResponse, 0, len(page.Content)),
		TotalCount: page.TotalCount,
		Page:       pageNum,
		PageSize:   pageSize,
	}
	for _, rec := range page.Content {
		out.Content = append(out.Content, CombinedTransactionResponse{
			ID:            rec.ID.String(),
			Kind:          string(rec.Kind),
			SourceIBAN:    rec.SourceIBAN,
			TargetIBAN:    rec.TargetIBAN,
			Amount:        rec.Amount,
			Description:   rec.Description,
			Timestamp:     rec.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Status:        rec.Status,
			FailureReason: rec.FailureReason,
		})
	}
	return out
}
