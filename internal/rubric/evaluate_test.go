package rubric

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completePortfolio is a minimal page expected to pass every parameter.
const completePortfolio = `<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>@media (max-width: 600px) { body { font-size: 14px; } }</style>
</head>
<body>
  <nav><a href="#about">About</a><a href="#projects">Projects</a></nav>
  <section id="about">
    <h1>Jane Doe</h1>
    <img src="/img/profile.jpg" alt="profile photo of Jane Doe">
    <p>I am a full-stack developer with five years of experience building web applications for startups.</p>
  </section>
  <section id="projects">
    <div class="project-card">
      <h3>Task Tracker</h3>
      <img src="/img/task.png" alt="task tracker screenshot">
      <p>A task management application built with react and express, featuring drag and drop boards.</p>
      <a href="https://github.com/jane/tracker" target="_blank">Code</a>
      <a href="https://tracker.vercel.app" target="_blank">Live</a>
    </div>
    <div class="project-card">
      <h3>Weather Now</h3>
      <img src="/img/weather.png" alt="weather dashboard screenshot">
      <p>A weather dashboard using typescript and tailwind that shows hourly forecasts for any city.</p>
      <a href="https://github.com/jane/weather" target="_blank">Code</a>
      <a href="https://weather.netlify.app" target="_blank">Live</a>
    </div>
    <div class="project-card">
      <h3>Recipe Box</h3>
      <img src="/img/recipes.png" alt="recipe box screenshot">
      <p>A recipe manager built with node and mongo where users can save, tag, and search recipes.</p>
      <a href="https://github.com/jane/recipes" target="_blank">Code</a>
      <a href="https://recipes.github.io" target="_blank">Live</a>
    </div>
  </section>
  <section id="skills">
    <ul>
      <li class="skill-tag">React</li>
      <li class="skill-tag">TypeScript</li>
      <li class="skill-tag">PostgreSQL</li>
    </ul>
  </section>
  <section id="contact">
    <a href="https://linkedin.com/in/janedoe" target="_blank">LinkedIn</a>
    <a href="https://github.com/jane" target="_blank">GitHub</a>
  </section>
</body>
</html>`

func TestEvaluateCompletePortfolio(t *testing.T) {
	e := NewEvaluator(nil)
	checklist := e.Evaluate(completePortfolio, "https://janedoe.dev")

	for _, key := range Keys {
		item, ok := checklist[key]
		require.True(t, ok, "missing key %s", key)
		assert.True(t, item.Pass, "expected %s to pass, evidence: %v", key, item.Evidence)
	}
	assert.Equal(t, len(Keys), checklist.Passed())
	assert.Empty(t, checklist.Failed())
}

func TestEvaluateSchemaAlwaysComplete(t *testing.T) {
	e := NewEvaluator(nil)

	for _, html := range []string{"", "<html></html>", "<p>hello", completePortfolio} {
		checklist := e.Evaluate(html, "https://example.com")
		assert.Len(t, checklist, len(Keys))
		for _, key := range Keys {
			item := checklist[key]
			require.NotNil(t, item, "key %s", key)
			assert.NotNil(t, item.Evidence, "evidence for %s must never be nil", key)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	e := NewEvaluator(nil)

	first := e.Evaluate(completePortfolio, "https://janedoe.dev")
	second := e.Evaluate(completePortfolio, "https://janedoe.dev")

	require.Equal(t, len(first), len(second))
	for _, key := range Keys {
		assert.Equal(t, first[key].Pass, second[key].Pass, key)
		assert.Equal(t, first[key].Evidence, second[key].Evidence, key)
	}
}

func TestEvaluateEmptyPage(t *testing.T) {
	e := NewEvaluator(nil)
	checklist := e.Evaluate("<html><body></body></html>", "https://example.com")

	for _, key := range []string{
		"about_section", "projects_section", "skills_section", "contact_section",
		"responsive_design", "single_page_navbar", "links_correct",
	} {
		assert.False(t, checklist[key].Pass, key)
	}

	// With nothing on the page these pass vacuously.
	assert.True(t, checklist["no_design_issues"].Pass)
	assert.True(t, checklist["grammar_checked"].Pass)
	assert.True(t, checklist["professional_url"].Pass)
}

func TestEvaluateLocalURL(t *testing.T) {
	e := NewEvaluator(nil)

	for _, u := range []string{"http://localhost:3000", "https://localhost:3000", "https://127.0.0.1:8080"} {
		checklist := e.Evaluate(completePortfolio, u)
		assert.False(t, checklist["professional_url"].Pass, u)
	}
}

func TestEvaluateExternalLinksEvidence(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><section id="about"><p>hi</p></section>`)
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, `<a href="https://external%d.com/page">link %d</a>`, i, i)
	}
	b.WriteString(`</body></html>`)

	e := NewEvaluator(nil)
	checklist := e.Evaluate(b.String(), "https://janedoe.dev")

	item := checklist["external_links_new_tab"]
	assert.False(t, item.Pass)
	require.Len(t, item.Evidence, 1)
	assert.Contains(t, item.Evidence[0], "8 of 8")
	assert.Contains(t, item.Evidence[0], "and 3 more")
}

func TestEvaluateNoExternalLinksStaysSilent(t *testing.T) {
	page := `<html><body><a href="#about">About</a><a href="/contact">Contact</a></body></html>`

	e := NewEvaluator(nil)
	checklist := e.Evaluate(page, "https://janedoe.dev")

	assert.False(t, checklist["external_links_new_tab"].Pass)
	assert.Empty(t, checklist["external_links_new_tab"].Evidence)
	// Internal links with real hrefs are still valid links.
	assert.True(t, checklist["links_correct"].Pass)
}

func TestEvaluateInvalidLinks(t *testing.T) {
	page := `<html><body>
	  <a href="">Empty</a>
	  <a href="javascript:void(0)">JS</a>
	  <a href="https://real.example.com" target="_blank">Real</a>
	</body></html>`

	e := NewEvaluator(nil)
	checklist := e.Evaluate(page, "https://janedoe.dev")

	item := checklist["links_correct"]
	assert.False(t, item.Pass)
	require.Len(t, item.Evidence, 1)
	assert.Contains(t, item.Evidence[0], "2 link(s)")
}

func TestEvaluateGrammarTypos(t *testing.T) {
	page := `<html><body><p>I will recieve teh award definately.</p></body></html>`

	e := NewEvaluator(nil)
	checklist := e.Evaluate(page, "https://example.com")

	item := checklist["grammar_checked"]
	assert.False(t, item.Pass)
	require.Len(t, item.Evidence, 1)
	assert.Contains(t, item.Evidence[0], "recieve")
	assert.Contains(t, item.Evidence[0], "teh")
}

func TestEvaluateGrammarWholeWordsOnly(t *testing.T) {
	// "the" contains no typo and "teheran" must not match "teh".
	page := `<html><body><p>I visited Teheran and enjoyed the city.</p></body></html>`

	e := NewEvaluator(nil)
	checklist := e.Evaluate(page, "https://example.com")
	assert.True(t, checklist["grammar_checked"].Pass)
}

func TestEvaluateProjectsOrAggregation(t *testing.T) {
	// Only one of three cards has a deployed link; that is enough.
	page := `<html><body><section id="projects">
	  <div class="project-card"><h3>One</h3><p>A long enough description of the very first project built with react for testing.</p></div>
	  <div class="project-card"><h3>Two</h3><p>A long enough description of the second project, again with plenty of words in it.</p></div>
	  <div class="project-card"><h3>Three</h3><p>Third project description, also long enough to count as substantial for the card.</p>
	    <a href="https://three.vercel.app" target="_blank">Live</a></div>
	</section></body></html>`

	e := NewEvaluator(nil)
	checklist := e.Evaluate(page, "https://example.com")

	assert.True(t, checklist["projects_minimum"].Pass)
	assert.True(t, checklist["projects_deployed"].Pass)
	assert.True(t, checklist["projects_summary"].Pass)
	assert.True(t, checklist["projects_finished"].Pass)
	assert.False(t, checklist["projects_links"].Pass)
	assert.False(t, checklist["projects_hero_image"].Pass)
}

func TestEvaluateProjectsSectionMissing(t *testing.T) {
	e := NewEvaluator(nil)
	checklist := e.Evaluate("<html><body><p>nothing here</p></body></html>", "https://example.com")

	assert.False(t, checklist["projects_section"].Pass)
	// Downstream project keys stay failed without evidence.
	assert.False(t, checklist["projects_minimum"].Pass)
	assert.Empty(t, checklist["projects_minimum"].Evidence)
}

func TestEvaluatePerCardEvidence(t *testing.T) {
	e := NewEvaluator(nil)
	checklist := e.Evaluate(completePortfolio, "https://janedoe.dev")

	item := checklist["projects_samples"]
	assert.True(t, item.Pass)
	require.Len(t, item.Evidence, 3)
	assert.Contains(t, item.Evidence[0], "Project 1:")
	assert.Contains(t, item.Evidence[0], "Task Tracker")
}
