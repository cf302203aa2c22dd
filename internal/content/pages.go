package content

import "strings"

// Paginate делит текст учебника на страницы не длиннее limit символов.
// Страницы режутся по абзацам, слишком длинный абзац режется по символам.
func Paginate(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 {
		return nil
	}

	var (
		pages   []string
		current []rune
	)

	flush := func() {
		if page := strings.TrimSpace(string(current)); page != "" {
			pages = append(pages, page)
		}
		current = current[:0]
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		p := []rune(strings.TrimSpace(paragraph))
		if len(p) == 0 {
			continue
		}

		sep := 0
		if len(current) > 0 {
			sep = 2
		}

		if len(current)+sep+len(p) <= limit {
			if sep > 0 {
				current = append(current, '\n', '\n')
			}
			current = append(current, p...)
			continue
		}

		flush()

		for len(p) > limit {
			pages = append(pages, string(p[:limit]))
			p = p[limit:]
		}
		current = append(current, p...)
	}

	flush()

	return pages
}
