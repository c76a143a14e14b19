package transaction

import (
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

// Transaction status groups.
const (
	GroupConfirmed   = "confirmed"
	GroupUnconfirmed = "unconfirmed"
	GroupFailed      = "failed"
	GroupPartial     = "partial"
)

// StatusSuccess is the status of accepted transactions.
const StatusSuccess = "Success"

// TransactionStatus is the network view of an announced transaction.
type TransactionStatus struct {
	Group    string
	Status   string
	Hash     util.Uint256
	Deadline Deadline
	Height   util.Uint64
}

// IsFailed reports whether the network rejected the transaction.
func (s *TransactionStatus) IsFailed() bool {
	return s.Group == GroupFailed || (s.Status != "" && s.Status != StatusSuccess)
}
