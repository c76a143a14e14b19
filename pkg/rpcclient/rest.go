package rpcclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/dto"
)

type (
	nemesisBlock struct {
		Meta struct {
			Hash           string `json:"hash"`
			GenerationHash string `json:"generationHash"`
		} `json:"meta"`
		Block struct {
			Signer  string `json:"signer"`
			Version int32  `json:"version"`
			Type    uint16 `json:"type"`
		} `json:"block"`
	}

	announceResult struct {
		Message string `json:"message"`
	}

	transactionIDs struct {
		TransactionIDs []string `json:"transactionIds"`
	}

	transactionHashes struct {
		Hashes []string `json:"hashes"`
	}
)

func (c *Client) getNemesis() (*nemesisBlock, error) {
	resp := new(nemesisBlock)
	if err := c.performRequest(http.MethodGet, "/block/{height}", "/block/1", nil, resp); err != nil {
		return nil, err
	}
	if err := dto.ValidateHash(resp.Meta.GenerationHash); err != nil {
		return nil, fmt.Errorf("generation hash: %w", err)
	}
	return resp, nil
}

// Announce sends a signed transaction to the network and returns the node
// reply message.
func (c *Client) Announce(signed *transaction.SignedTransaction) (string, error) {
	return c.announce("/transaction", signed)
}

// AnnounceAggregateBonded sends a signed aggregate bonded transaction to the
// partial transaction cache where it waits for cosignatures. The hash lock
// for it must be confirmed first.
func (c *Client) AnnounceAggregateBonded(signed *transaction.SignedTransaction) (string, error) {
	if signed.EntityType != transaction.AggregateBondedType {
		return "", fmt.Errorf("%w: %s can't be announced as partial", transaction.ErrWrongTransactionKind, signed.EntityType)
	}
	return c.announce("/transaction/partial", signed)
}

// AnnounceCosignature sends a cosignature of an aggregate bonded transaction.
func (c *Client) AnnounceCosignature(cosig *transaction.CosignatureSignedTransaction) (string, error) {
	return c.announce("/transaction/cosignature", cosig)
}

func (c *Client) announce(path string, body any) (string, error) {
	resp := new(announceResult)
	if err := c.performRequest(http.MethodPut, path, path, body, resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// GetTransaction returns a transaction by its hash. Confirmed transactions
// are cached, every call returns a new Transaction the caller owns.
func (c *Client) GetTransaction(hash string) (transaction.Transaction, error) {
	if err := dto.ValidateHash(hash); err != nil {
		return nil, err
	}
	if raw, ok := c.txCache.Get(strings.ToUpper(hash)); ok {
		return dto.Resolve(raw.(json.RawMessage))
	}
	var raw json.RawMessage
	if err := c.performRequest(http.MethodGet, "/transaction/{hash}", "/transaction/"+hash, nil, &raw); err != nil {
		return nil, err
	}
	tx, err := dto.Resolve(raw)
	if err != nil {
		return nil, err
	}
	c.remember(strings.ToUpper(hash), raw, tx)
	return tx, nil
}

// GetTransactions returns transactions by their hashes in the order the node
// returns them.
func (c *Client) GetTransactions(hashes []string) ([]transaction.Transaction, error) {
	if err := dto.ValidateHashes(hashes); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.performRequest(http.MethodPost, "/transaction", "/transaction", transactionIDs{hashes}, &raw); err != nil {
		return nil, err
	}
	txs, err := dto.ResolveBatch(raw)
	if err != nil {
		return nil, err
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	for i, tx := range txs {
		if info := tx.Header().Info; info != nil {
			c.remember(info.Hash.String(), elems[i], tx)
		}
	}
	return txs, nil
}

// GetTransactionStatus returns the status of a transaction by its hash.
func (c *Client) GetTransactionStatus(hash string) (*transaction.TransactionStatus, error) {
	if err := dto.ValidateHash(hash); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.performRequest(http.MethodGet, "/transaction/{hash}/status", "/transaction/"+hash+"/status", nil, &raw); err != nil {
		return nil, err
	}
	return dto.ResolveStatus(raw)
}

// GetTransactionStatuses returns statuses of transactions by their hashes.
func (c *Client) GetTransactionStatuses(hashes []string) ([]*transaction.TransactionStatus, error) {
	if err := dto.ValidateHashes(hashes); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.performRequest(http.MethodPost, "/transaction/statuses", "/transaction/statuses", transactionHashes{hashes}, &raw); err != nil {
		return nil, err
	}
	return dto.ResolveStatuses(raw)
}

// remember caches the JSON of a confirmed transaction, hits are resolved
// again so that callers never share a Transaction.
func (c *Client) remember(hash string, raw json.RawMessage, tx transaction.Transaction) {
	if tx.Header().IsConfirmed() {
		c.txCache.Add(hash, raw)
	}
}
