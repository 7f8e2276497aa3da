package rubric

// Label identifies one of the four content sections a portfolio is expected to have.
type Label string

// Section labels evaluated by the rubric.
const (
	LabelAbout    Label = "about"
	LabelProjects Label = "projects"
	LabelSkills   Label = "skills"
	LabelContact  Label = "contact"
)

// AllLabels returns the section labels in evaluation order.
func AllLabels() []Label {
	return []Label{LabelAbout, LabelProjects, LabelSkills, LabelContact}
}

// Config holds the keyword and pattern lists the heuristics run against.
// Values are treated as immutable once passed to NewEvaluator; tests swap in
// trimmed-down configs instead of mutating package state.
type Config struct {
	// SectionKeywords maps each section label to its curated synonyms.
	SectionKeywords map[Label][]string

	// TechKeywords are technology names whose presence counts as a tech-stack mention.
	TechKeywords []string

	// CardClassPatterns are regex sources matched against candidate card class attributes.
	CardClassPatterns []string

	// GridClassPattern matches class attributes that suggest a layout container.
	GridClassPattern string

	// HostingPattern matches hrefs that point at code hosting or deployment platforms.
	HostingPattern string

	// DeploymentDomains are substrings of hrefs that count as a deployed/live link.
	DeploymentDomains []string

	// Profile photo scoring word lists.
	ProfileAltWords    []string
	ProfileSrcWords    []string
	ProfileParentWords []string
	DecorativeWords    []string
	ProjectImageWords  []string

	// CommonTypos is the fixed list checked by the grammar pass.
	CommonTypos []string
}

// DefaultConfig returns the keyword lists used in production grading.
func DefaultConfig() *Config {
	return &Config{
		SectionKeywords: map[Label][]string{
			LabelAbout: {
				"about", "aboutme", "about-me", "about_me", "bio", "biography",
				"introduction", "intro", "profile", "whoami", "who-am-i", "background",
			},
			LabelProjects: {
				"project", "projects", "portfolio", "work", "works", "case", "cases",
				"showcase", "my-work", "mywork", "my-projects",
			},
			LabelSkills: {
				"skill", "skills", "tech", "techstack", "tech-stack", "stack",
				"expertise", "technologies", "technology", "toolset", "abilities",
			},
			LabelContact: {
				"contact", "contacts", "reach", "reachout", "reach-out", "connect",
				"getintouch", "get-in-touch", "social", "touch", "contactme", "contact-me",
			},
		},
		TechKeywords: []string{
			"react", "javascript", "typescript", "css", "html", "node", "express",
			"mongo", "mysql", "postgres", "tailwind", "chakra", "bootstrap",
			"material-ui", "redux", "next", "vite", "webpack", "sass", "vue",
			"angular", "python", "django", "flask", "java", "spring", "docker",
			"kubernetes", "aws", "azure", "gcp",
		},
		CardClassPatterns: []string{
			`project[-_]?card`, `project[-_]?item`, `project`,
			`card`, `portfolio[-_]?item`, `work[-_]?item`,
			`case[-_]?study`, `item`, `project[-_]?box`, `col`,
		},
		GridClassPattern: `grid|flex|row|container|columns`,
		HostingPattern:   `github\.com|netlify|vercel|herokuapp|render\.com|github\.io`,
		DeploymentDomains: []string{
			"vercel.app", "netlify.app", "herokuapp.com", "render.com", "github.io",
		},
		ProfileAltWords: []string{
			"profile", "photo", "picture", "portrait", "avatar", "headshot",
			"me", "myself", "author", "face",
		},
		ProfileSrcWords: []string{
			"profile", "photo", "avatar", "headshot", "portrait", "me", "about",
			"author", "person", "face", "user",
		},
		ProfileParentWords: []string{
			"profile", "photo", "avatar", "about", "hero", "author",
		},
		DecorativeWords: []string{
			"icon", "logo", "decoration", "background", "banner", "pattern",
		},
		ProjectImageWords: []string{
			"project-", "work-", "portfolio-item", "screenshot",
		},
		CommonTypos: []string{"teh", "recieve", "definately", "seperate"},
	}
}
