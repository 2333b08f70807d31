package bench

import (
	"fmt"
	"strings"

	"github.com/banshee-data/rastergrid/internal/gridmap"
)

// Variant is one timed configuration of gridmap.Transfer.
type Variant struct {
	Name        string
	Description string
	// Street selects the street map as the transfer source. Otherwise the
	// map combines with itself.
	Street  bool
	Options gridmap.TransferOptions
}

// TargetLayer is the map layer the variant writes to.
func (v Variant) TargetLayer() string { return v.Name }

// DefaultVariants returns every variant in run order: the street map
// transfers first, then the same-grid max combines.
func DefaultVariants() []Variant {
	street := func(name, desc string, m gridmap.Mapping, a gridmap.Access) Variant {
		return Variant{Name: name, Description: desc, Street: true,
			Options: gridmap.TransferOptions{Op: gridmap.OpCopy, Mapping: m, Access: a}}
	}
	local := func(name, desc string, a gridmap.Access) Variant {
		return Variant{Name: name, Description: desc,
			Options: gridmap.TransferOptions{Op: gridmap.OpMax, Mapping: gridmap.MappingIdentity, Access: a}}
	}
	return []Variant{
		street("street-convenient", "street map iterator (convenient use)", gridmap.MappingPosition, gridmap.AccessNamed),
		street("street-direct", "street map iterator (direct access to data layers)", gridmap.MappingPosition, gridmap.AccessIndex),
		street("street-linear", "street map iterator (linear index)", gridmap.MappingPosition, gridmap.AccessLinear),
		street("street-offset", "street map iterator (direct access, translated index)", gridmap.MappingOffset, gridmap.AccessIndex),
		local("convenient", "grid map iterator (convenient use)", gridmap.AccessNamed),
		local("direct", "grid map iterator (direct access to data layers)", gridmap.AccessIndex),
		local("linear", "grid map iterator (linear index)", gridmap.AccessLinear),
		local("bulk", "gonum dense apply", gridmap.AccessBulk),
		local("custom-index", "custom index iteration", gridmap.AccessNested),
		local("custom-linear", "custom linear index iteration", gridmap.AccessFlat),
	}
}

// SelectVariants returns the named variants in the given order. An empty
// list selects all of them.
func SelectVariants(names []string) ([]Variant, error) {
	all := DefaultVariants()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Variant, len(all))
	known := make([]string, 0, len(all))
	for _, v := range all {
		byName[v.Name] = v
		known = append(known, v.Name)
	}
	out := make([]Variant, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		v, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown variant %q (known: %s)", n, strings.Join(known, ", "))
		}
		if seen[n] {
			return nil, fmt.Errorf("variant %q listed twice", n)
		}
		seen[n] = true
		out = append(out, v)
	}
	return out, nil
}
