package dto

import (
	"encoding/json"

	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

type statusDTO struct {
	Group    string      `json:"group"`
	Status   string      `json:"status"`
	Hash     string      `json:"hash"`
	Deadline util.Uint64 `json:"deadline"`
	Height   util.Uint64 `json:"height"`
}

func (s *statusDTO) toStatus() (*transaction.TransactionStatus, error) {
	h, err := ParseHash(s.Hash)
	if err != nil {
		return nil, err
	}
	res := &transaction.TransactionStatus{
		Group:  s.Group,
		Status: s.Status,
		Hash:   h,
		Height: s.Height,
	}
	if s.Deadline != 0 {
		res.Deadline = transaction.NewDeadlineFromTimestamp(uint64(s.Deadline))
	}
	return res, nil
}

// ResolveStatus converts the status JSON of a single transaction.
func ResolveStatus(data []byte) (*transaction.TransactionStatus, error) {
	var s statusDTO
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.toStatus()
}

// ResolveStatuses converts a JSON array of transaction statuses.
func ResolveStatuses(data []byte) ([]*transaction.TransactionStatus, error) {
	var list []statusDTO
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	res := make([]*transaction.TransactionStatus, len(list))
	for i := range list {
		s, err := list[i].toStatus()
		if err != nil {
			return nil, err
		}
		res[i] = s
	}
	return res, nil
}
