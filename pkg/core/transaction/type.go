package transaction

import (
	"errors"
	"fmt"
	"strings"
)

// EntityType is the type of a network entity, mostly transactions.
type EntityType uint16

// Entity types. Every transaction kind has its own type, aggregates come in
// complete and bonded flavors.
const (
	TransferType                  EntityType = 0x4154
	MosaicDefinitionType          EntityType = 0x414D
	MosaicSupplyChangeType        EntityType = 0x424D
	RegisterNamespaceType         EntityType = 0x414E
	AddressAliasType              EntityType = 0x424E
	MosaicAliasType               EntityType = 0x434E
	LockType                      EntityType = 0x4148
	SecretLockType                EntityType = 0x4152
	SecretProofType               EntityType = 0x4252
	ModifyMultisigType            EntityType = 0x4155
	AccountLinkType               EntityType = 0x414C
	AccountPropertyAddressType    EntityType = 0x4150
	AccountPropertyMosaicType     EntityType = 0x4250
	AccountPropertyEntityTypeType EntityType = 0x4350
	AggregateCompleteType         EntityType = 0x4141
	AggregateBondedType           EntityType = 0x4241
	NetworkConfigType             EntityType = 0x4159
	BlockchainUpgradeType         EntityType = 0x4158

	BlockType        EntityType = 0x8143
	NemesisBlockType EntityType = 0x8043
)

// ErrUnknownEntityType is returned for entity types that aren't known.
var ErrUnknownEntityType = errors.New("unknown entity type")

var entityNames = map[EntityType]string{
	TransferType:                  "transfer",
	MosaicDefinitionType:          "mosaic definition",
	MosaicSupplyChangeType:        "mosaic supply change",
	RegisterNamespaceType:         "register namespace",
	AddressAliasType:              "address alias",
	MosaicAliasType:               "mosaic alias",
	LockType:                      "hash lock",
	SecretLockType:                "secret lock",
	SecretProofType:               "secret proof",
	ModifyMultisigType:            "modify multisig account",
	AccountLinkType:               "account link",
	AccountPropertyAddressType:    "account property address",
	AccountPropertyMosaicType:     "account property mosaic",
	AccountPropertyEntityTypeType: "account property entity type",
	AggregateCompleteType:         "aggregate complete",
	AggregateBondedType:           "aggregate bonded",
	NetworkConfigType:             "network config",
	BlockchainUpgradeType:         "blockchain upgrade",
	BlockType:                     "block",
	NemesisBlockType:              "nemesis block",
}

// String implements the stringer interface.
func (t EntityType) String() string {
	if name, ok := entityNames[t]; ok {
		return name
	}
	return fmt.Sprintf("entity 0x%04X", uint16(t))
}

// Hex returns the 4-character upper-case hex form of t.
func (t EntityType) Hex() string {
	return fmt.Sprintf("%04X", uint16(t))
}

// IsAggregate reports whether t is one of the aggregate types.
func (t EntityType) IsAggregate() bool {
	return t == AggregateCompleteType || t == AggregateBondedType
}

// IsTransaction reports whether t is a known transaction type.
func (t EntityType) IsTransaction() bool {
	_, ok := kinds[t]
	return ok
}

// EntityTypeFromString parses an entity type name as returned by String.
func EntityTypeFromString(s string) (EntityType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range entityNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
}
