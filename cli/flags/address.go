package flags

import (
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/urfave/cli"
)

// Address is a wrapper for an address with flag.Value methods.
type Address struct {
	IsSet bool
	Value *address.Address
}

var _ cli.Generic = (*Address)(nil)

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	if a.Value == nil {
		return ""
	}
	return a.Value.String()
}

// Set implements the flag.Value interface.
func (a *Address) Set(s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	a.IsSet = true
	a.Value = addr
	return nil
}

// Address returns the parsed address.
func (a *Address) Address() *address.Address {
	if !a.IsSet {
		// It is a programmer error to call this method without
		// checking if the value was provided.
		panic("address was not set")
	}
	return a.Value
}

// ParseAddress parses an address in the raw, the pretty or the hex encoded
// form.
func ParseAddress(s string) (*address.Address, error) {
	if len(s) == address.EncodedSize {
		return address.FromEncoded(s)
	}
	return address.FromRaw(s)
}
