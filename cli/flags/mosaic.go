package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/sirius-go/pkg/core/asset"
	"github.com/nspcc-dev/sirius-go/pkg/util"
	"github.com/urfave/cli"
)

// Mosaics is a list of mosaics given as repeated id:amount flags. The id is
// either a hex mosaic or namespace id or a namespace name like prx.xpx,
// amount is in the smallest units.
type Mosaics []asset.Mosaic

var _ cli.Generic = (*Mosaics)(nil)

// String implements the fmt.Stringer interface.
func (m Mosaics) String() string {
	parts := make([]string, len(m))
	for i := range m {
		parts[i] = fmt.Sprintf("%016X:%d", uint64(m[i].ID), uint64(m[i].Amount))
	}
	return strings.Join(parts, ",")
}

// Set implements the flag.Value interface.
func (m *Mosaics) Set(s string) error {
	mosaic, err := ParseMosaic(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	*m = append(*m, mosaic)
	return nil
}

// ParseMosaic parses an id:amount pair.
func ParseMosaic(s string) (asset.Mosaic, error) {
	idStr, amountStr, ok := strings.Cut(s, ":")
	if !ok {
		return asset.Mosaic{}, fmt.Errorf("invalid mosaic %q, id:amount expected", s)
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		return asset.Mosaic{}, fmt.Errorf("invalid mosaic amount: %w", err)
	}
	id, err := util.Uint64FromHex(idStr)
	if err != nil {
		ns, nsErr := asset.NewNamespaceIDFromName(idStr)
		if nsErr != nil {
			return asset.Mosaic{}, fmt.Errorf("invalid mosaic id %q: neither hex id (%v) nor namespace (%v)", idStr, err, nsErr)
		}
		id = ns.Uint64()
	}
	return asset.NewMosaic(id, amount), nil
}
