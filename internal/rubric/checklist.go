package rubric

import "fmt"

// Keys is the fixed checklist schema, in reporting order. Adding or removing a
// key is a breaking change for every consumer of the grading API.
var Keys = []string{
	// About
	"about_section", "about_name", "about_photo", "about_intro",
	"about_professional_photo",
	// Projects
	"projects_section", "projects_minimum", "projects_samples",
	"projects_deployed", "projects_links", "projects_finished",
	"projects_summary", "projects_hero_image", "projects_tech_stack",
	// Skills
	"skills_section", "skills_highlighted",
	// Contact
	"contact_section", "contact_linkedin", "contact_github",
	// Technical
	"links_correct", "responsive_design", "professional_url",
	"grammar_checked", "single_page_navbar", "no_design_issues",
	"external_links_new_tab",
}

// Item is the outcome of a single rubric parameter.
type Item struct {
	Pass     bool     `json:"pass"`
	Evidence []string `json:"evidence"`
}

// Checklist maps every rubric parameter to its outcome. Every key in Keys is
// always present; a parameter that was never evaluated stays failed with no
// evidence.
type Checklist map[string]*Item

// NewChecklist returns a checklist with every parameter initialized to a
// failed, evidence-free state.
func NewChecklist() Checklist {
	c := make(Checklist, len(Keys))
	for _, key := range Keys {
		c[key] = &Item{Evidence: []string{}}
	}
	return c
}

// Passed counts the parameters that passed.
func (c Checklist) Passed() int {
	n := 0
	for _, item := range c {
		if item != nil && item.Pass {
			n++
		}
	}
	return n
}

// Failed returns the keys of failed parameters, in schema order.
func (c Checklist) Failed() []string {
	var failed []string
	for _, key := range Keys {
		if item, ok := c[key]; !ok || item == nil || !item.Pass {
			failed = append(failed, key)
		}
	}
	return failed
}

// pass marks a parameter as passed and appends a formatted evidence line.
func (c Checklist) pass(key, format string, args ...any) {
	item := c[key]
	item.Pass = true
	item.Evidence = append(item.Evidence, fmt.Sprintf(format, args...))
}

// fail appends a formatted evidence line without changing the pass state.
func (c Checklist) fail(key, format string, args ...any) {
	item := c[key]
	item.Evidence = append(item.Evidence, fmt.Sprintf(format, args...))
}

// set records a boolean outcome with a pass or fail message.
func (c Checklist) set(key string, ok bool, passMsg, failMsg string) {
	if ok {
		c.pass(key, "%s", passMsg)
	} else {
		c.fail(key, "%s", failMsg)
	}
}
