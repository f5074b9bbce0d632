package models

import "time"

type LeagueRef struct {
	Country string
	League  string
	ID      string
}

// Attribute is a single key/value pair copied from a feed element.
type Attribute struct {
	Key   string
	Value string
}

// Attributes keeps feed attributes in document order. The feed schema is not
// fixed, so records carry whatever keys the element had.
type Attributes []Attribute

func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces an existing key in place or appends a new one.
func (a *Attributes) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attribute{Key: key, Value: value})
}

func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Key
	}
	return keys
}

const TeamNameKey = "Team-name"

type PlayerRecord struct {
	Attributes Attributes
}

func (p PlayerRecord) TeamName() string {
	name, _ := p.Attributes.Get(TeamNameKey)
	return name
}

type TeamRecord struct {
	Attributes Attributes
}

const (
	UnknownTeam  = "Unknown"
	UnknownDate  = "Unknown date"
	UnknownTime  = "Unknown time"
	UnknownVenue = "Unknown venue"
)

type FixtureRecord struct {
	HomeTeam string `csv:"Home Team"`
	AwayTeam string `csv:"Away Team"`
	Date     string `csv:"Date"`
	Time     string `csv:"Time"`
	Venue    string `csv:"Venue"`
}

type PlayerSet struct {
	Players   []PlayerRecord
	TeamNames []string
	Teams     []TeamRecord
}

type FixtureSet struct {
	Fixtures []FixtureRecord
	// Skipped counts match elements whose teams could not be resolved.
	Skipped int
}

// Session holds the results of the last league fetch for one caller.
type Session struct {
	League    LeagueRef
	Players   []PlayerRecord
	TeamNames []string
	Teams     []TeamRecord
	Fixtures  []FixtureRecord
	FetchedAt time.Time
}
