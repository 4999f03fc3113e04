package activities

import (
	"fmt"
	"math/rand"
	"strings"
)

// Word lists combined to produce human-looking names for created tokens and NFT collections.
var (
	nameAdjectives = []string{
		"Amber", "Bold", "Crimson", "Drifting", "Ember", "Frosted", "Gilded", "Hollow",
		"Iron", "Jade", "Keen", "Lunar", "Misty", "Noble", "Opal", "Polar",
		"Quiet", "Rustic", "Silver", "Twilight", "Umber", "Vivid", "Wandering", "Zephyr",
	}
	nameNouns = []string{
		"Falcon", "Grove", "Harbor", "Isle", "Jackal", "Kite", "Lantern", "Meadow",
		"Nimbus", "Orchard", "Pine", "Quarry", "Ridge", "Summit", "Thicket", "Vale",
		"Willow", "Yonder", "Basin", "Cairn", "Delta", "Eddy", "Fjord", "Glacier",
	}
)

// RandomName composes a two-word name from the dictionary using the provided random source.
func RandomName(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s", nameAdjectives[rng.Intn(len(nameAdjectives))], nameNouns[rng.Intn(len(nameNouns))])
}

// RandomSymbol derives a short uppercase ticker from a two-word name, suffixed with a random digit pair to reduce
// collisions.
func RandomSymbol(rng *rand.Rand, name string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(name) {
		initials.WriteByte(word[0])
	}
	return fmt.Sprintf("%s%02d", strings.ToUpper(initials.String()), rng.Intn(100))
}
