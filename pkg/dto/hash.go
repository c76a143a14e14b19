package dto

import (
	"fmt"
	"regexp"

	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/util"
)

var hashPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ValidateHash checks that s is a 64 character hex hash.
func ValidateHash(s string) error {
	if !hashPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", transaction.ErrInvalidHashEncoding, s)
	}
	return nil
}

// ValidateHashes checks every hash of the list, an empty list is an error.
func ValidateHashes(hashes []string) error {
	if len(hashes) == 0 {
		return fmt.Errorf("%w: empty hash list", transaction.ErrInvalidHashEncoding)
	}
	for _, h := range hashes {
		if err := ValidateHash(h); err != nil {
			return err
		}
	}
	return nil
}

// ParseHash validates and decodes a hex hash.
func ParseHash(s string) (util.Uint256, error) {
	if err := ValidateHash(s); err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeString(s)
}
