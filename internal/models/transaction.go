package models

import "time"

type TransactionType string

const (
	TransactionIncome     TransactionType = "income"
	TransactionExpense    TransactionType = "expense"
	TransactionInvestment TransactionType = "investment"
)

type TransactionStatus string

const (
	TransactionPaid     TransactionStatus = "Pago"
	TransactionPending  TransactionStatus = "Pendente"
	TransactionReceived TransactionStatus = "Recebido"
)

// Transaction is one row of the financial ledger. Values are in MZN.
type Transaction struct {
	ID          string            `json:"id"`
	Description string            `json:"desc"`
	Date        time.Time         `json:"date"`
	Category    string            `json:"cat"`
	Value       float64           `json:"val"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
}
