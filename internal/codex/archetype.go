package codex

import "strings"

// Archetype is a Sol Archetype: the mission category assigned from the sun sign.
type Archetype string

const (
	ArchetypeInnovator Archetype = "Innovator"
	ArchetypeNurturer  Archetype = "Nurturer"
	ArchetypeCatalyst  Archetype = "Catalyst"
	ArchetypeSovereign Archetype = "Sovereign"
	ArchetypeSage      Archetype = "Sage"
	ArchetypeAlchemist Archetype = "Alchemist"

	// DefaultArchetype is used when the requested archetype is empty or unknown.
	DefaultArchetype = ArchetypeInnovator

	archetypePrefix = "sol "
)

// Archetypes lists the closed set in display order.
var Archetypes = []Archetype{
	ArchetypeInnovator,
	ArchetypeNurturer,
	ArchetypeCatalyst,
	ArchetypeSovereign,
	ArchetypeSage,
	ArchetypeAlchemist,
}

var sunSignArchetypes = map[string]Archetype{
	"aries":       ArchetypeInnovator,
	"aquarius":    ArchetypeInnovator,
	"taurus":      ArchetypeNurturer,
	"cancer":      ArchetypeNurturer,
	"gemini":      ArchetypeCatalyst,
	"libra":       ArchetypeCatalyst,
	"leo":         ArchetypeSovereign,
	"capricorn":   ArchetypeSovereign,
	"virgo":       ArchetypeSage,
	"sagittarius": ArchetypeSage,
	"scorpio":     ArchetypeAlchemist,
	"pisces":      ArchetypeAlchemist,
}

// ParseArchetype resolves a user supplied name ("sage", "Sol Sage") to an Archetype.
func ParseArchetype(name string) (Archetype, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, archetypePrefix)
	for _, a := range Archetypes {
		if strings.ToLower(string(a)) == n {
			return a, true
		}
	}
	return "", false
}

// ArchetypeForSunSign maps a zodiac sign to its Sol Archetype.
func ArchetypeForSunSign(sign string) (Archetype, bool) {
	a, ok := sunSignArchetypes[strings.ToLower(strings.TrimSpace(sign))]
	return a, ok
}
