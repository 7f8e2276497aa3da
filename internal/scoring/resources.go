package scoring

import (
	"strings"

	"github.com/jonathan/portfolio-grader/internal/rubric"
	"github.com/jonathan/portfolio-grader/internal/types"
)

// maxResources caps how many suggestions a single grading returns.
const maxResources = 3

// resourceTemplates maps a failed-key topic to one fixed suggestion.
var resourceTemplates = map[string]types.Resource{
	"about": {
		Topic: "about",
		Title: "How to write a great developer bio",
		URL:   "https://www.freecodecamp.org/news/how-to-write-a-great-personal-bio/",
	},
	"projects": {
		Topic: "projects",
		Title: "Showcasing projects in a developer portfolio",
		URL:   "https://www.freecodecamp.org/news/how-to-build-a-developer-portfolio/",
	},
	"skills": {
		Topic: "skills",
		Title: "Presenting your tech stack effectively",
		URL:   "https://roadmap.sh/",
	},
	"contact": {
		Topic: "contact",
		Title: "Building your professional online presence",
		URL:   "https://www.linkedin.com/help/linkedin/answer/a542685",
	},
	"responsive": {
		Topic: "responsive",
		Title: "Responsive web design basics",
		URL:   "https://web.dev/articles/responsive-web-design-basics",
	},
}

// topicForKey maps one checklist key to its resource topic, empty when the key
// has no associated resource.
func topicForKey(key string) string {
	switch {
	case strings.HasPrefix(key, "about_"):
		return "about"
	case strings.HasPrefix(key, "projects_"):
		return "projects"
	case strings.HasPrefix(key, "skills_"):
		return "skills"
	case strings.HasPrefix(key, "contact_"):
		return "contact"
	case key == "responsive_design":
		return "responsive"
	}
	return ""
}

// Resources suggests up to three learning resources for the failed keys, one
// per topic, prioritized by schema order of the first failed key per topic.
func Resources(checklist rubric.Checklist) []types.Resource {
	var out []types.Resource
	seen := make(map[string]struct{})

	for _, key := range rubric.Keys {
		if item, ok := checklist[key]; ok && item != nil && item.Pass {
			continue
		}
		topic := topicForKey(key)
		if topic == "" {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, resourceTemplates[topic])
		if len(out) == maxResources {
			break
		}
	}
	return out
}
