package vectorpack

import "slices"

// Band is the coarse color family a pixel is assigned to.
type Band int

const (
	Dark Band = iota
	Soft
	Light
	Other
)

// Bands lists every band in document order.
var Bands = [...]Band{Dark, Soft, Light, Other}

func (b Band) String() string {
	switch b {
	case Dark:
		return "Dark Color"
	case Soft:
		return "Soft Color"
	case Light:
		return "Light Color"
	default:
		return "Other"
	}
}

// Class is the result of classifying one pixel.
type Class struct {
	Band  Band
	Label string // e.g. "Dark Color: Black"
}

// Rule is one row of the classification table.
type Rule struct {
	Class
	Match func(r, g, b int) bool
}

func rule(band Band, name string, match func(r, g, b int) bool) Rule {
	return Rule{Class: Class{Band: band, Label: band.String() + ": " + name}, Match: match}
}

// Rows overlap on purpose; only row order decides. Near-white pixels such
// as (240,240,240) land in Soft Pink because no white row precedes it.
var rules = []Rule{
	rule(Dark, "Black", func(r, g, b int) bool { return r < 50 && g < 50 && b < 50 }),
	rule(Dark, "Dark Gray", func(r, g, b int) bool { return r < 70 && g < 70 && b < 70 }),
	rule(Dark, "Dark Blue", func(r, g, b int) bool { return r < 50 && g < 50 && b > 50 }),
	rule(Dark, "Dark Red", func(r, g, b int) bool { return r < 50 && g > 50 && b < 50 }),
	rule(Dark, "Dark Cyan", func(r, g, b int) bool { return r < 50 && g > 50 && b > 50 }),
	rule(Dark, "Dark Magenta", func(r, g, b int) bool { return r < 100 && g < 100 && b > 100 }),
	rule(Dark, "Dark Green", func(r, g, b int) bool { return r < 100 && g > 100 && b < 100 }),

	rule(Soft, "Soft Pink", func(r, g, b int) bool { return r > 150 && g > 100 && b > 100 }),
	rule(Soft, "Soft Yellow", func(r, g, b int) bool { return r > 200 && g > 200 && b < 150 }),
	rule(Soft, "Soft Purple", func(r, g, b int) bool { return r < 200 && g > 150 && b < 200 }),
	rule(Soft, "Soft Blue", func(r, g, b int) bool { return r < 200 && g < 200 && b > 150 }),
	rule(Soft, "Soft Magenta", func(r, g, b int) bool { return r > 100 && g < 100 && b > 100 }),
	rule(Soft, "Soft Light Gray", func(r, g, b int) bool { return r < 150 && g < 150 && b > 150 }),

	rule(Light, "Light Yellow", func(r, g, b int) bool { return r > 200 && g > 200 && b < 100 }),
	rule(Light, "Light Magenta", func(r, g, b int) bool { return r > 200 && g < 200 && b > 200 }),
	rule(Light, "Light Green", func(r, g, b int) bool { return r < 150 && g > 200 && b < 150 }),
	rule(Light, "Light Blue", func(r, g, b int) bool { return r < 150 && g < 150 && b > 200 }),
	rule(Light, "Light Red", func(r, g, b int) bool { return r > 200 && g < 150 && b < 150 }),
	rule(Light, "Light Gray", func(r, g, b int) bool { return r < 200 && g > 200 && b > 200 }),
	rule(Light, "Light Coral", func(r, g, b int) bool { return r > 150 && g > 50 && b < 50 }),
	rule(Light, "Light Olive", func(r, g, b int) bool { return r < 200 && g > 200 && b > 100 }),
}

var otherClass = Class{Band: Other, Label: "Other"}

// Rules returns a copy of the classification table in evaluation order.
func Rules() []Rule {
	return slices.Clone(rules)
}

// Classify returns the class of the first table row matching c, or Other.
func Classify(c RGB) Class {
	r, g, b := int(c.R), int(c.G), int(c.B)
	for _, ru := range rules {
		if ru.Match(r, g, b) {
			return ru.Class
		}
	}
	return otherClass
}
