package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	catalog, err := Default()
	require.NoError(t, err)

	assert.Len(t, catalog.Quiz.Questions, 10)
	assert.NotEmpty(t, catalog.Quiz.Topic)
	assert.NotEmpty(t, catalog.Podcasts)
	assert.NotEmpty(t, catalog.Lessons)

	ep, ok := catalog.Episode("ep1")
	require.True(t, ok)
	assert.NotEmpty(t, ep.Summary)

	_, ok = catalog.Episode("missing")
	assert.False(t, ok)

	lesson, ok := catalog.Lesson("week1")
	require.True(t, ok)
	assert.NotEmpty(t, lesson.Textbook)
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{
		"quiz": {
			"title": "T",
			"questions": [{"id": 1, "question": "Q?", "options": ["A", "B"], "correct": 1}]
		},
		"podcasts": [{"id": "p1", "title": "P", "summary": "S"}]
	}`)

	catalog, err := Parse(data, "content.JSON")
	require.NoError(t, err)

	assert.Equal(t, "T", catalog.Quiz.Title)
	assert.Equal(t, 1, catalog.Quiz.Questions[0].CorrectOptionIndex)
	assert.Len(t, catalog.Podcasts, 1)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(`{"quiz": {"title": "T"}, "extra": 1}`), "content.json")
	assert.Error(t, err)

	_, err = Parse([]byte("quiz:\n  title: T\nextra: 1\n"), "content.yaml")
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	const quizYAML = `quiz:
  title: T
  questions:
    - id: 1
      question: Q?
      options: [A, B]
      correct: 0
`

	testCases := []struct {
		name string
		data string
	}{
		{name: "invalid quiz", data: "quiz:\n  title: T\n"},
		{name: "podcast without id", data: quizYAML + "podcasts:\n  - summary: S\n"},
		{name: "podcast id with colon", data: quizYAML + "podcasts:\n  - id: \"a:b\"\n    summary: S\n"},
		{name: "podcast without text", data: quizYAML + "podcasts:\n  - id: p1\n"},
		{name: "duplicate podcast", data: quizYAML + "podcasts:\n  - id: p1\n    summary: S\n  - id: p1\n    summary: S\n"},
		{name: "lesson without title", data: quizYAML + "lessons:\n  - id: l1\n"},
		{name: "duplicate lesson", data: quizYAML + "lessons:\n  - id: l1\n    title: L\n  - id: l1\n    title: L\n"},
		{name: "multiple documents", data: quizYAML + "---\n" + quizYAML},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			catalog, err := Parse([]byte(tc.data), "content.yaml")
			assert.Error(t, err)
			assert.Nil(t, catalog)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o600))

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, catalog.Quiz.Questions, 10)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	catalog, err = Load("")
	require.NoError(t, err)
	assert.NotNil(t, catalog)
}

func TestPaginate(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccccccccc"

	pages := Paginate(text, 10)
	assert.Equal(t, []string{"aaaa\n\nbbbb", "cccccccccc"}, pages)

	pages = Paginate(strings.Repeat("가", 25), 10)
	require.Len(t, pages, 3)
	assert.Equal(t, strings.Repeat("가", 10), pages[0])
	assert.Equal(t, strings.Repeat("가", 5), pages[2])

	assert.Nil(t, Paginate("   ", 10))
	assert.Nil(t, Paginate("text", 0))
}
