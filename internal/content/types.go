package content

import "github.com/letsssgooo/shepherdBot/internal/quiz"

// Catalog содержит весь учебный материал курса.
type Catalog struct {
	Quiz     quiz.Quiz `json:"quiz" yaml:"quiz"`
	Podcasts []Episode `json:"podcasts" yaml:"podcasts"`
	Lessons  []Lesson  `json:"lessons" yaml:"lessons"`
}

// Episode представляет выпуск подкаста.
type Episode struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Summary    string `json:"summary" yaml:"summary"`
	Transcript string `json:"transcript" yaml:"transcript"`
	Duration   string `json:"duration" yaml:"duration"`
}

// Lesson представляет видеоурок вместе с текстом учебника.
type Lesson struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	VideoURL    string `json:"video_url" yaml:"video_url"`
	WatchURL    string `json:"watch_url" yaml:"watch_url"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	Textbook    string `json:"textbook" yaml:"textbook"`
}

// Episode возвращает выпуск подкаста по ID.
func (c *Catalog) Episode(id string) (Episode, bool) {
	for _, e := range c.Podcasts {
		if e.ID == id {
			return e, true
		}
	}

	return Episode{}, false
}

// Lesson возвращает урок по ID.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == id {
			return l, true
		}
	}

	return Lesson{}, false
}
