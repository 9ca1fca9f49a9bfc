package latex

import (
	"sort"
	"strings"
	"unicode"

	"github.com/COSC-499-W2025/capstone-project-team-3-sub001/internal/resume"
)

// Render converts a document model into LaTeX source. It is a pure function
// of its input: no I/O, no shared state. Every user-supplied text field goes
// through Escape before insertion; the email is substituted verbatim because
// it sits inside a mailto link.
func Render(m *resume.DocumentModel) string {
	tex := documentTemplate
	tex = strings.ReplaceAll(tex, "{name}", Escape(m.Name))
	tex = strings.ReplaceAll(tex, "{email}", m.Email)
	tex = strings.ReplaceAll(tex, "{links_block}", renderLinks(m.Links))
	tex = strings.ReplaceAll(tex, "{education_section}", renderEducation(m.Education))
	tex = strings.ReplaceAll(tex, "{skills_table}", renderSkills(m.Skills))
	tex = strings.ReplaceAll(tex, "{projects}", renderProjects(m.Projects))
	return tex
}

// renderLinks renders a row of labeled hyperlinks joined by \quad. An empty
// list renders to the empty string.
func renderLinks(links []resume.Link) string {
	if len(links) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(links))
	for _, l := range links {
		rendered = append(rendered, `\textbf{\href{`+Escape(l.URL)+`}{`+Escape(l.Label)+`}}`)
	}
	return strings.Join(rendered, ` \quad `)
}

func renderEducation(entries []resume.EducationEntry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		b.WriteString(`\textbf{` + Escape(e.School) + `}\\` + "\n")
		b.WriteString(Escape(e.Degree) + ` \hfill ` + Escape(e.Dates) + `\\`)
		// GPA line only when a value is present; no empty placeholder.
		if gpa := strings.TrimSpace(e.GPA); gpa != "" {
			b.WriteString("\n" + `{\sl GPA: ` + Escape(gpa) + `}\\`)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\\vspace{2mm}\n")
}

// renderSkills emits one longtable row per category.
func renderSkills(skills map[string][]string) string {
	categories := make([]string, 0, len(skills))
	for c := range skills {
		categories = append(categories, c)
	}
	// Map order is random; fix it so identical models render identical markup
	// (the compilation cache keys on the rendered bytes).
	sort.Strings(categories)
	rows := make([]string, 0, len(categories))
	for _, c := range categories {
		escaped := make([]string, 0, len(skills[c]))
		for _, item := range skills[c] {
			escaped = append(escaped, Escape(item))
		}
		rows = append(rows, Escape(c)+`: & `+strings.Join(escaped, ", ")+` \\`)
	}
	return strings.Join(rows, "\n")
}

func renderProjects(projects []resume.ProjectEntry) string {
	blocks := make([]string, 0, len(projects))
	for _, p := range projects {
		var b strings.Builder
		b.WriteString(" \\vspace*{3mm}\n")
		b.WriteString("\t\\textbf{" + Escape(capitalizeFirst(p.Title)) + `} \hfill ` + Escape(p.Dates) + "\\\\\n")
		b.WriteString(`    {\textbf{Skills: }\sl ` + Escape(p.Skills) + `}\\[1mm]` + "\n")
		bullets := NormalizeBullets(p.Bullets)
		if len(bullets) > 0 {
			b.WriteString("    \\begin{itemize}[leftmargin=2em]\n")
			for _, item := range bullets {
				b.WriteString("\\item " + Escape(item) + "\n")
			}
			b.WriteString("\\end{itemize}\n")
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// capitalizeFirst upper-cases only the first character; the rest of the title
// is left untouched.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
