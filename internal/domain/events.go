/**
 * @description
 * This file defines the events published by the bank client.
 * These structs are the contract for messages sent to the message broker (RabbitMQ).
 */
package domain

import "time"

// BalanceMismatchRoutingKey is the routing key for BalanceMismatchEvent.
const BalanceMismatchRoutingKey = "ledger.balance.mismatch"

// BalanceMismatchEvent is published when the balance reconstructed from an
// account's transactions differs from the balance the service reports.
type BalanceMismatchEvent struct {
	AccountID            int64     `json:"account_id"`
	StatementID          int64     `json:"statement_id,omitempty"`
	ReconstructedBalance string    `json:"reconstructed_balance"`
	RemoteBalance        string    `json:"remote_balance"`
	Discrepancy          string    `json:"discrepancy"`
	LastTransactionID    int64     `json:"last_transaction_id,omitempty"`
	DetectedAt           time.Time `json:"detected_at"`
}

// NewBalanceMismatchEvent describes the mismatch recorded in s.
func NewBalanceMismatchEvent(s Statement) BalanceMismatchEvent {
	event := BalanceMismatchEvent{
		AccountID:            s.AccountID,
		StatementID:          s.ID,
		ReconstructedBalance: s.ClosingBalance.String(),
		RemoteBalance:        s.RemoteBalance.String(),
		Discrepancy:          s.Discrepancy().String(),
		DetectedAt:           s.CreatedAt,
	}
	if n := len(s.Entries); n > 0 {
		event.LastTransactionID = s.Entries[n-1].Transaction.ID
	}
	return event
}
