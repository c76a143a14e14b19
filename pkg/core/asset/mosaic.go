package asset

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/sirius-go/pkg/util"
)

const (
	// XPXDivisibility is the number of decimal places of the XPX mosaic.
	XPXDivisibility = 6
	// MaxDivisibility is the largest divisibility a mosaic can have.
	MaxDivisibility = 6

	xpxUnit = 1_000_000
)

// XPXNamespaceID is the id of the "prx.xpx" namespace aliasing the network
// currency.
const XPXNamespaceID NamespaceID = 0xBFFB42A19116BDF6

// Mosaic property flags.
const (
	SupplyMutable uint8 = 0x01
	Transferable  uint8 = 0x02
)

// PropertyID identifies a mosaic property.
type PropertyID uint8

// Mosaic property ids.
const (
	PropertyFlags        PropertyID = 0
	PropertyDivisibility PropertyID = 1
	PropertyDuration     PropertyID = 2
)

var (
	// ErrMissingRequiredProperty is returned when no mosaic properties are
	// given.
	ErrMissingRequiredProperty = errors.New("missing required mosaic property")
	// ErrUnknownProperty is returned for unknown property ids.
	ErrUnknownProperty = errors.New("unknown mosaic property")
	// ErrInvalidDivisibility is returned for divisibility above MaxDivisibility.
	ErrInvalidDivisibility = errors.New("invalid divisibility")
)

// Mosaic is an amount of some asset. ID is either a mosaic id or a namespace
// id aliasing one.
type Mosaic struct {
	ID     util.Uint64 `json:"id"`
	Amount util.Uint64 `json:"amount"`
}

// NewMosaic returns a mosaic of amount units of id.
func NewMosaic(id util.Uint64, amount uint64) Mosaic {
	return Mosaic{ID: id, Amount: util.Uint64(amount)}
}

// XPX returns amount of the smallest XPX units.
func XPX(amount uint64) Mosaic {
	return NewMosaic(XPXNamespaceID.Uint64(), amount)
}

// XPXRelative returns amount of whole XPX.
func XPXRelative(amount uint64) Mosaic {
	return XPX(amount * xpxUnit)
}

// MosaicProperty is a single (id, value) property pair as found on the wire.
type MosaicProperty struct {
	ID    PropertyID  `json:"id"`
	Value util.Uint64 `json:"value"`
}

// MosaicProperties describes a mosaic definition.
type MosaicProperties struct {
	SupplyMutable bool
	Transferable  bool
	Divisibility  uint8
	// Duration in blocks, zero means eternal.
	Duration util.Uint64
}

// NewMosaicProperties checks and returns mosaic properties.
func NewMosaicProperties(supplyMutable, transferable bool, divisibility uint8, duration util.Uint64) (*MosaicProperties, error) {
	if divisibility > MaxDivisibility {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDivisibility, divisibility)
	}
	return &MosaicProperties{
		SupplyMutable: supplyMutable,
		Transferable:  transferable,
		Divisibility:  divisibility,
		Duration:      duration,
	}, nil
}

// MosaicPropertiesFromList builds properties from the wire list.
func MosaicPropertiesFromList(list []MosaicProperty) (*MosaicProperties, error) {
	if len(list) == 0 {
		return nil, ErrMissingRequiredProperty
	}
	var (
		flags        uint8
		divisibility uint8
		duration     util.Uint64
	)
	for _, p := range list {
		switch p.ID {
		case PropertyFlags:
			flags = uint8(p.Value)
		case PropertyDivisibility:
			divisibility = uint8(p.Value)
		case PropertyDuration:
			duration = p.Value
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownProperty, p.ID)
		}
	}
	return NewMosaicProperties(flags&SupplyMutable != 0, flags&Transferable != 0, divisibility, duration)
}

// Flags returns the packed flags byte.
func (p *MosaicProperties) Flags() uint8 {
	var flags uint8
	if p.SupplyMutable {
		flags |= SupplyMutable
	}
	if p.Transferable {
		flags |= Transferable
	}
	return flags
}

// OptionalProperties returns the properties that are serialized as a list,
// that is only a non-zero duration.
func (p *MosaicProperties) OptionalProperties() []MosaicProperty {
	if p.Duration == 0 {
		return nil
	}
	return []MosaicProperty{{ID: PropertyDuration, Value: p.Duration}}
}

// List returns all properties in the wire list form.
func (p *MosaicProperties) List() []MosaicProperty {
	return append([]MosaicProperty{
		{ID: PropertyFlags, Value: util.Uint64(p.Flags())},
		{ID: PropertyDivisibility, Value: util.Uint64(p.Divisibility)},
	}, p.OptionalProperties()...)
}

// AliasAction links or unlinks an alias.
type AliasAction uint8

// Alias actions.
const (
	AliasLink   AliasAction = 0
	AliasUnlink AliasAction = 1
)

// NamespaceType distinguishes root namespaces and subnamespaces.
type NamespaceType uint8

// Namespace types.
const (
	RootNamespace NamespaceType = 0
	SubNamespace  NamespaceType = 1
)

// MarshalJSON implements the json.Marshaler interface.
func (m MosaicID) MarshalJSON() ([]byte, error) {
	return json.Marshal(util.Uint64(m))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *MosaicID) UnmarshalJSON(data []byte) error {
	return (*util.Uint64)(m).UnmarshalJSON(data)
}

// MarshalJSON implements the json.Marshaler interface.
func (n NamespaceID) MarshalJSON() ([]byte, error) {
	return json.Marshal(util.Uint64(n))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *NamespaceID) UnmarshalJSON(data []byte) error {
	return (*util.Uint64)(n).UnmarshalJSON(data)
}
