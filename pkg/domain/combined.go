package domain

// TransactionKind tags entries of the combined projection.
type TransactionKind string

const (
	KindAtm      TransactionKind = "ATM"
	KindTransfer TransactionKind = "TRANSFER"
)
