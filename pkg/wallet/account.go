package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
)

// PublicAccount is the public part of an account: its key and the address
// derived from it.
type PublicAccount struct {
	PublicKey *keys.PublicKey
	Address   *address.Address
}

// publicAccount is an intermediate struct used for json marshalling.
type publicAccount struct {
	PublicKey string `json:"publicKey"`
	Address   string `json:"address"`
}

// Account holds the private key along with the public account derived from
// it. Accounts are the only holders of secret material.
type Account struct {
	*PublicAccount
	privateKey *keys.PrivateKey
}

// NewPublicAccount creates a public account from a hex public key.
func NewPublicAccount(pubHex string, network netmode.Type) (*PublicAccount, error) {
	pub, err := keys.NewPublicKeyFromString(pubHex)
	if err != nil {
		return nil, err
	}
	return NewPublicAccountFromKey(pub, network), nil
}

// NewPublicAccountFromKey creates a public account for the key on the given
// network.
func NewPublicAccountFromKey(pub *keys.PublicKey, network netmode.Type) *PublicAccount {
	return &PublicAccount{
		PublicKey: pub,
		Address:   address.FromKey(pub, network),
	}
}

// Network returns the network the account address belongs to.
func (p *PublicAccount) Network() netmode.Type {
	return p.Address.Network
}

// Verify checks the signature of data made by the account.
func (p *PublicAccount) Verify(signature, data []byte) bool {
	return p.PublicKey.Verify(signature, data)
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicAccount{
		PublicKey: p.PublicKey.String(),
		Address:   p.Address.String(),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicAccount) UnmarshalJSON(data []byte) error {
	var pa publicAccount
	if err := json.Unmarshal(data, &pa); err != nil {
		return err
	}
	pub, err := keys.NewPublicKeyFromString(pa.PublicKey)
	if err != nil {
		return err
	}
	addr, err := address.FromRaw(pa.Address)
	if err != nil {
		return err
	}
	if !addr.Equals(address.FromKey(pub, addr.Network)) {
		return fmt.Errorf("address %s doesn't match public key %s", addr, pub)
	}
	p.PublicKey = pub
	p.Address = addr
	return nil
}

// NewAccount creates a new Account with a random generated PrivateKey.
func NewAccount(network netmode.Type) (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return newAccountFromPrivateKey(priv, network), nil
}

// NewAccountFromPrivateKey creates an Account from a hex private key.
func NewAccountFromPrivateKey(privHex string, network netmode.Type) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromHex(privHex)
	if err != nil {
		return nil, err
	}
	return newAccountFromPrivateKey(priv, network), nil
}

func newAccountFromPrivateKey(p *keys.PrivateKey, network netmode.Type) *Account {
	return &Account{
		PublicAccount: NewPublicAccountFromKey(p.PublicKey(), network),
		privateKey:    p,
	}
}

// PrivateKey returns private key corresponding to the account.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// Close cleans up the private key used by the account and disassociates it
// from the account.
func (a *Account) Close() {
	if a.privateKey == nil {
		return
	}
	a.privateKey.Destroy()
	a.privateKey = nil
}

// Sign signs tx for the network identified by the generation hash.
func (a *Account) Sign(tx transaction.Transaction, generationHash string) (*transaction.SignedTransaction, error) {
	return transaction.Sign(tx, a.privateKey, generationHash)
}

// SignWithCosignatories signs an aggregate with the account and appends the
// cosignatures of cosigners.
func (a *Account) SignWithCosignatories(tx *transaction.AggregateTransaction, cosigners []*Account, generationHash string) (*transaction.SignedTransaction, error) {
	privs, err := privateKeys(cosigners)
	if err != nil {
		return nil, err
	}
	return transaction.SignWithCosignatories(tx, a.privateKey, privs, generationHash)
}

// CosignAggregateBonded appends cosignatures of the account and cosigners to
// a signed aggregate bonded transaction.
func (a *Account) CosignAggregateBonded(signed *transaction.SignedTransaction, cosigners ...*Account) (*transaction.SignedTransaction, error) {
	privs, err := privateKeys(append([]*Account{a}, cosigners...))
	if err != nil {
		return nil, err
	}
	return transaction.CosignAggregateBonded(signed, privs)
}

// SignCosignature cosigns an announced aggregate bonded transaction by its
// hash.
func (a *Account) SignCosignature(parentHash string) (*transaction.CosignatureSignedTransaction, error) {
	return transaction.SignCosignature(a.privateKey, parentHash)
}

// SignData signs arbitrary data with the account key.
func (a *Account) SignData(data []byte) ([]byte, error) {
	if a.privateKey == nil {
		return nil, transaction.ErrEmptySigner
	}
	return a.privateKey.Sign(data), nil
}

func privateKeys(accounts []*Account) ([]*keys.PrivateKey, error) {
	res := make([]*keys.PrivateKey, len(accounts))
	for i, acc := range accounts {
		if acc == nil || acc.privateKey == nil {
			return nil, fmt.Errorf("%w: cosigner %d", transaction.ErrEmptySigner, i)
		}
		res[i] = acc.privateKey
	}
	return res, nil
}
