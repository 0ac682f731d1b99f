package model

import "time"

// Research field names cached per company
const (
	ResearchFieldOverview         = "overview"
	ResearchFieldCulture          = "culture"
	ResearchFieldNews             = "news"
	ResearchFieldPositionAnalysis = "position_analysis"
)

// ResearchFieldNames lists every field a full refresh populates
var ResearchFieldNames = []string{
	ResearchFieldOverview,
	ResearchFieldCulture,
	ResearchFieldNews,
	ResearchFieldPositionAnalysis,
}

// ResearchField is one independently expiring slice of company research
type ResearchField struct {
	Content   string    `json:"content"`
	Sources   []string  `json:"sources,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResearchEntry is the cached research for one company
type ResearchEntry struct {
	Company  string                   `json:"company"`
	Position string                   `json:"position,omitempty"`
	Fields   map[string]ResearchField `json:"fields"`
}

// Fresh returns the fields whose expiry has not passed at the given instant.
// Expiry is per field: stale fields drop out while fresh ones survive.
func (e *ResearchEntry) Fresh(now time.Time) map[string]ResearchField {
	fresh := make(map[string]ResearchField, len(e.Fields))
	for name, f := range e.Fields {
		if f.ExpiresAt.After(now) {
			fresh[name] = f
		}
	}
	return fresh
}

// ResearchData is the assembled research view handed to sessions and prompts
type ResearchData struct {
	CompanyName      string              `json:"company_name" bson:"companyName"`
	Position         string              `json:"position,omitempty" bson:"position,omitempty"`
	Overview         string              `json:"overview" bson:"overview"`
	Culture          string              `json:"culture" bson:"culture"`
	News             string              `json:"news" bson:"news"`
	PositionAnalysis string              `json:"position_analysis" bson:"positionAnalysis"`
	Sources          map[string][]string `json:"sources,omitempty" bson:"sources,omitempty"`
	FetchedAt        time.Time           `json:"research_timestamp" bson:"researchTimestamp"`
	FromCache        bool                `json:"from_cache,omitempty" bson:"fromCache,omitempty"`
}
