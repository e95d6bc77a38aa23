package classifier

// Rule maps a keyword family to a department and an urgency contribution.
// Rules earlier in the table win department ties.
type Rule struct {
	Name       string
	Department string
	// Severe keywords mark the report as high urgency.
	Severe bool
	// Minor keywords pull a report without department down to low urgency.
	Minor    bool
	Keywords []string
}

// DefaultRules is the built-in keyword table.
var DefaultRules = []Rule{
	{
		Name:       "lighting",
		Department: "Electricity",
		Keywords: []string{
			"streetlight", "street light", "light", "lamp", "power line", "power cut",
			"electricity", "transformer", "bijli", "wire",
		},
	},
	{
		Name:       "roads",
		Department: "Roads & Transport",
		Keywords: []string{
			"pothole", "road", "footpath", "pavement", "bus stop", "bus", "speed breaker",
			"metro", "signal", "traffic", "sadak",
		},
	},
	{
		Name:       "water",
		Department: "Water Supply",
		Keywords: []string{
			"water supply", "water", "pipeline", "tap", "leak", "paani", "tanker",
		},
	},
	{
		Name:       "sanitation",
		Department: "Sanitation",
		Keywords: []string{
			"garbage", "trash", "waste", "dustbin", "litter", "smell", "dump", "kachra",
			"dirty", "pest",
		},
	},
	{
		Name:       "drainage",
		Department: "Sewage & Drainage",
		Keywords: []string{
			"sewer", "sewage", "drain", "manhole", "overflow", "waterlogging", "flood",
		},
	},
	{
		Name:       "parks",
		Department: "Parks & Horticulture",
		Keywords: []string{
			"park", "playground", "swing", "slide", "bench", "tree", "garden",
			"graffiti", "vandal",
		},
	},
	{
		Name:       "enforcement",
		Department: "Enforcement",
		Keywords: []string{
			"parking", "illegal", "encroachment", "police", "blocking", "noise",
		},
	},
	{
		Name:   "hazard",
		Severe: true,
		Keywords: []string{
			"urgent", "danger", "hazard", "emergency", "accident", "hurt", "injured",
			"burst", "collapse", "electrocut", "fire", "unsafe", "sparking",
		},
	},
	{
		Name:  "minor",
		Minor: true,
		Keywords: []string{
			"suggestion", "request", "whenever possible", "cosmetic", "minor",
		},
	},
}
