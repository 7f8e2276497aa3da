package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-grader/internal/rubric"
)

func checklistWithPasses(passed ...string) rubric.Checklist {
	c := rubric.NewChecklist()
	for _, key := range passed {
		c[key].Pass = true
	}
	return c
}

func fullPassChecklist() rubric.Checklist {
	return checklistWithPasses(rubric.Keys...)
}

func TestScoreBounds(t *testing.T) {
	assert.Equal(t, 0, Score(rubric.NewChecklist()))
	assert.Equal(t, 100, Score(fullPassChecklist()))
}

func TestScoreRounding(t *testing.T) {
	// 13 of 26 is exactly half.
	c := checklistWithPasses(rubric.Keys[:13]...)
	assert.Equal(t, 50, Score(c))

	// 1 of 26 is 3.85, rounded to 4.
	c = checklistWithPasses(rubric.Keys[0])
	assert.Equal(t, 4, Score(c))
}

func TestScoreMonotonic(t *testing.T) {
	prev := -1
	for i := 0; i <= len(rubric.Keys); i++ {
		score := Score(checklistWithPasses(rubric.Keys[:i]...))
		assert.Greater(t, score, prev, "score must strictly increase with passes")
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}

func TestCategoryWeightsSumTo100(t *testing.T) {
	total := 0
	covered := make(map[string]bool)
	for _, cat := range categories {
		total += cat.weight
		for _, key := range cat.keys {
			assert.False(t, covered[key], "key %s in two categories", key)
			covered[key] = true
		}
	}
	assert.Equal(t, 100, total)
	assert.Len(t, covered, len(rubric.Keys), "every checklist key belongs to a category")
}

func TestCategoriesAllOrNothing(t *testing.T) {
	// One of two contact keys passing earns nothing.
	c := checklistWithPasses("contact_linkedin")
	for _, sc := range Categories(c) {
		if sc.Name == "contact" {
			assert.Equal(t, 1, sc.Passed)
			assert.Equal(t, 0, sc.Earned)
		}
	}

	// Both passing earns the full weight.
	c = checklistWithPasses("contact_linkedin", "contact_github")
	for _, sc := range Categories(c) {
		if sc.Name == "contact" {
			assert.Equal(t, 10, sc.Earned)
		}
	}
}

func TestWeightedScoreBounds(t *testing.T) {
	assert.Equal(t, 0, WeightedScore(rubric.NewChecklist()))
	assert.Equal(t, 100, WeightedScore(fullPassChecklist()))
}

func TestResourcesForFailedKeys(t *testing.T) {
	// Everything passes except the about photo and the skills highlight.
	c := fullPassChecklist()
	c["about_photo"].Pass = false
	c["skills_highlighted"].Pass = false

	resources := Resources(c)
	require.Len(t, resources, 2)
	assert.Equal(t, "about", resources[0].Topic)
	assert.Equal(t, "skills", resources[1].Topic)
}

func TestResourcesCapAndDedup(t *testing.T) {
	// Every key failed: many topics qualify but only three come back, in
	// schema order, one per topic.
	resources := Resources(rubric.NewChecklist())
	require.Len(t, resources, 3)
	assert.Equal(t, "about", resources[0].Topic)
	assert.Equal(t, "projects", resources[1].Topic)
	assert.Equal(t, "skills", resources[2].Topic)
}

func TestResourcesEmptyOnPerfectChecklist(t *testing.T) {
	assert.Empty(t, Resources(fullPassChecklist()))
}
