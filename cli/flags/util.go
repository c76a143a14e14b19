package flags

import (
	"strings"

	"github.com/urfave/cli"
)

// MarkRequired returns a copy of flagSet with string and generic flags
// named by their long names marked as required.
func MarkRequired(flagSet []cli.Flag, names ...string) []cli.Flag {
	res := make([]cli.Flag, 0, len(flagSet))
	for _, f := range flagSet {
		long, _, _ := strings.Cut(f.GetName(), ",")
		for _, n := range names {
			if n != long {
				continue
			}
			switch typed := f.(type) {
			case cli.StringFlag:
				typed.Required = true
				f = typed
			case cli.GenericFlag:
				typed.Required = true
				f = typed
			}
		}
		res = append(res, f)
	}
	return res
}
