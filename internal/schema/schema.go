// Package schema describes the fifteen trade-setup parameters: their grouping,
// labels and the helpers used to initialize, validate and display them.
package schema

import (
	"strings"

	"trade-checker-go/internal/models"
)

// Definition is the display metadata of a single parameter.
type Definition struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Group is a titled set of three parameters.
type Group struct {
	Title      string       `json:"title"`
	Parameters []Definition `json:"parameters"`
}

// Groups holds the five parameter groups in display order.
var Groups = []Group{
	{
		Title: "SROOT Analysis (P1-P3)",
		Parameters: []Definition{
			{Key: "p1", Label: "P1: .50 touch after SROOT?", Description: "Did price touch .50 level after SROOT was established?"},
			{Key: "p2", Label: "P2: Venus Touch before SROOT(+.50)", Description: "Did Venus indicator touch before SROOT plus .50?"},
			{Key: "p3", Label: "P3: Mercury Touch before SROOT(+.50)", Description: "Did Mercury indicator touch before SROOT plus .50?"},
		},
	},
	{
		Title: "Post-SROOT Touches (P4-P6)",
		Parameters: []Definition{
			{Key: "p4", Label: "P4: Venus touch AFTER SROOT?", Description: "Did Venus indicator touch after SROOT was established?"},
			{Key: "p5", Label: "P5: Mercury touch AFTER SROOT?", Description: "Did Mercury indicator touch after SROOT was established?"},
			{Key: "p6", Label: "P6: R Venus touch right after -1.0?", Description: "Did reverse Venus touch right after -1.0 level?"},
		},
	},
	{
		Title: "Reverse Analysis (P7-P9)",
		Parameters: []Definition{
			{Key: "p7", Label: "P7: R Mercury touch right after -1.0?", Description: "Did reverse Mercury touch right after -1.0 level?"},
			{Key: "p8", Label: "P8: R Venus Touch after -.50", Description: "Did reverse Venus touch after -.50 level?"},
			{Key: "p9", Label: "P9: R Mercury touch after -.50", Description: "Did reverse Mercury touch after -.50 level?"},
		},
	},
	{
		Title: "Salt & Trigger Analysis (P10-P12)",
		Parameters: []Definition{
			{Key: "p10", Label: "P10: -.50 touch after Salt Achieved &(before Trigger)?", Description: "Did price touch -.50 after Salt was achieved but before Trigger?"},
			{Key: "p11", Label: "P11: -1.0 Reswept?", Description: "Was the -1.0 level reswept during the trade?"},
			{Key: "p12", Label: "P12: Reverse Highest C Candle redefined?", Description: "Was the reverse highest close candle redefined?"},
		},
	},
	{
		Title: "VL & EB Levels (P13-P15)",
		Parameters: []Definition{
			{Key: "p13", Label: "P13: VL under .114?", Description: "Was the VL (Volume Level) under .114?"},
			{Key: "p14", Label: "P14: VL above .836?", Description: "Was the VL (Volume Level) above .836?"},
			{Key: "p15", Label: "P15: EB above .836", Description: "Was the EB (Entry Block) above .836?"},
		},
	},
}

// Initialize returns a vector with every parameter unset.
func Initialize() models.Parameters {
	return models.Parameters{}
}

// Validate reports whether every parameter holds Yes or No.
func Validate(p models.Parameters) bool {
	for _, v := range p {
		if !v.IsSet() {
			return false
		}
	}
	return true
}

// DisplayValue renders a parameter value for humans.
func DisplayValue(v models.TriState) string {
	switch v {
	case models.Yes:
		return "Yes"
	case models.No:
		return "No"
	default:
		return "Not Set"
	}
}

// Filled counts the parameters that have been answered.
func Filled(p models.Parameters) int {
	n := 0
	for _, v := range p {
		if v.IsSet() {
			n++
		}
	}
	return n
}

// Lookup returns the definition of key.
func Lookup(key string) (Definition, bool) {
	for _, g := range Groups {
		for _, d := range g.Parameters {
			if d.Key == key {
				return d, true
			}
		}
	}
	return Definition{}, false
}

// ShortLabel returns the "P1".."P15" prefix of a parameter label.
func ShortLabel(key string) string {
	d, ok := Lookup(key)
	if !ok {
		return strings.ToUpper(key)
	}
	short, _, _ := strings.Cut(d.Label, ":")
	return short
}

// Summary renders the vector one group at a time:
// "<title>: v, v, v | <title>: v, v, v | ...".
func Summary(p models.Parameters) string {
	parts := make([]string, 0, len(Groups))
	for _, g := range Groups {
		values := make([]string, 0, len(g.Parameters))
		for _, d := range g.Parameters {
			v, _ := p.Get(d.Key)
			values = append(values, DisplayValue(v))
		}
		parts = append(parts, g.Title+": "+strings.Join(values, ", "))
	}
	return strings.Join(parts, " | ")
}
