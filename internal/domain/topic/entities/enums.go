package entities

// Urgency is the four-level classification derived from a severity score
type Urgency string

const (
	UrgencyBreaking      Urgency = "breaking"
	UrgencyCritical      Urgency = "critical"
	UrgencyModerate      Urgency = "moderate"
	UrgencyInformational Urgency = "informational"
)

// UrgencyFor derives urgency from a 0-100 severity score
func UrgencyFor(score int) Urgency {
	switch {
	case score >= 80:
		return UrgencyBreaking
	case score >= 60:
		return UrgencyCritical
	case score >= 30:
		return UrgencyModerate
	default:
		return UrgencyInformational
	}
}

// Category is the enumerated subject area of a topic
type Category string

const (
	CategoryAirQuality    Category = "air_quality"
	CategoryDeforestation Category = "deforestation"
	CategoryOcean         Category = "ocean"
	CategoryClimate       Category = "climate"
	CategoryPollution     Category = "pollution"
	CategoryBiodiversity  Category = "biodiversity"
	CategoryWildlife      Category = "wildlife"
	CategoryEnergy        Category = "energy"
	CategoryWaste         Category = "waste"
	CategoryWater         Category = "water"
)

// Categories lists every valid category
var Categories = []Category{
	CategoryAirQuality,
	CategoryDeforestation,
	CategoryOcean,
	CategoryClimate,
	CategoryPollution,
	CategoryBiodiversity,
	CategoryWildlife,
	CategoryEnergy,
	CategoryWaste,
	CategoryWater,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SourceType tells how an article entered the system
type SourceType string

const (
	SourceTypeAPI    SourceType = "api"
	SourceTypeRSS    SourceType = "rss"
	SourceTypeManual SourceType = "manual"
)
