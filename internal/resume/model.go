package resume

// DocumentModel is the assembled, in-memory résumé handed to the renderer.
// It is rebuilt from the store on every request and never cached; only the
// rendered/compiled output is.
type DocumentModel struct {
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Links     []Link              `json:"links"`
	Education []EducationEntry    `json:"education"`
	Skills    map[string][]string `json:"skills"`
	Projects  []ProjectEntry      `json:"projects"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Dates  string `json:"dates"`
	GPA    string `json:"gpa,omitempty"`
}

// ProjectEntry is one project section. Skills is the comma-joined per-project
// line (already deduplicated and capped). Bullets is deliberately untyped:
// depending on where the entry came from, it is a []string, a plain string,
// or a JSON-encoded list inside a string; the renderer normalizes all shapes
// to the same flat sequence.
type ProjectEntry struct {
	Title   string `json:"title"`
	Dates   string `json:"dates"`
	Skills  string `json:"skills"`
	Bullets any    `json:"bullets"`
}
