package domain

// ReconOutcome is the closed set of recon engine results for one staging entry.
type ReconOutcome string

const (
	// OutcomeCreated: TRANSACTION mode generated a new expectation pair.
	OutcomeCreated ReconOutcome = "CREATED"
	// OutcomeFulfilled: CONFIRMATION mode matched and evolved a transaction.
	OutcomeFulfilled ReconOutcome = "FULFILLED"
	// OutcomeNoMatch: no candidate expected entry was found (or no rule/order id).
	OutcomeNoMatch ReconOutcome = "NO_MATCH"
	// OutcomeAmbiguous: more than one candidate expected entry matched.
	OutcomeAmbiguous ReconOutcome = "AMBIGUOUS_MATCH"
	// OutcomeMismatch: a single candidate matched but disagreed on amount,
	// currency or entry type.
	OutcomeMismatch ReconOutcome = "MISMATCH"
	// OutcomeNoRule: TRANSACTION mode found no recon rule for the account.
	OutcomeNoRule ReconOutcome = "NO_RECON_RULE"
	// OutcomeFailed: generic failure outside the specific branches above.
	OutcomeFailed ReconOutcome = "FAILED"
)

// ReconResult reports what the recon engine did with a staging entry.
type ReconResult struct {
	Outcome              ReconOutcome `json:"outcome"`
	StagingEntryID       string       `json:"stagingEntryID"`
	TransactionID        string       `json:"transactionID,omitempty"`        // created or matched transaction
	EvolvedTransactionID string       `json:"evolvedTransactionID,omitempty"` // new version created by fulfillment
}
