package similarity

// Tables holds the data-driven vocabularies the engine normalizes and
// expands with. They are injected via Config so deployments can extend them
// without touching scoring code.
type Tables struct {
	// LegalSuffixes are organization-name suffix tokens stripped before
	// company comparison.
	LegalSuffixes []string `yaml:"legal_suffixes"`

	// Nicknames maps a canonical first name to its short forms.
	Nicknames map[string][]string `yaml:"nicknames"`
}

// DefaultTables returns the built-in vocabularies.
func DefaultTables() Tables {
	return Tables{
		LegalSuffixes: []string{
			"inc", "incorporated", "llc", "llp", "lp", "ltd", "limited",
			"corp", "corporation", "co", "company", "group", "holdings",
			"plc", "gmbh", "ag", "sa", "pllc", "pc", "intl", "international",
		},
		Nicknames: map[string][]string{
			"alexander":   {"alex", "al", "sasha"},
			"andrew":      {"andy", "drew"},
			"anthony":     {"tony"},
			"barbara":     {"barb"},
			"benjamin":    {"ben", "benny"},
			"charles":     {"charlie", "chuck"},
			"christopher": {"chris", "topher"},
			"cynthia":     {"cindy"},
			"daniel":      {"dan", "danny"},
			"david":       {"dave"},
			"deborah":     {"deb", "debbie"},
			"donald":      {"don"},
			"edward":      {"ed", "eddie", "ted"},
			"elizabeth":   {"liz", "beth", "eliza", "lizzie"},
			"frederick":   {"fred"},
			"gerald":      {"jerry"},
			"gregory":     {"greg"},
			"jacqueline":  {"jackie"},
			"james":       {"jim", "jimmy", "jamie"},
			"jennifer":    {"jen", "jenny"},
			"jonathan":    {"jon"},
			"joseph":      {"joe", "joey"},
			"katherine":   {"kate", "katie", "kathy", "kat"},
			"kenneth":     {"ken", "kenny"},
			"kimberly":    {"kim"},
			"lawrence":    {"larry"},
			"margaret":    {"maggie", "meg", "peggy"},
			"matthew":     {"matt"},
			"michael":     {"mike", "mick"},
			"nicholas":    {"nick"},
			"patricia":    {"pat", "patty", "trish"},
			"peter":       {"pete"},
			"raymond":     {"ray"},
			"rebecca":     {"becky"},
			"richard":     {"rick", "rich", "dick"},
			"robert":      {"bob", "rob", "bobby", "robbie"},
			"ronald":      {"ron"},
			"samuel":      {"sam", "sammy"},
			"stephanie":   {"steph"},
			"steven":      {"steve"},
			"susan":       {"sue", "susie"},
			"thomas":      {"tom", "tommy"},
			"timothy":     {"tim"},
			"victoria":    {"vicky", "tori"},
			"william":     {"bill", "will", "billy", "liam"},
		},
	}
}
