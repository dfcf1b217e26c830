package web

import (
	"context"
	"io"
	"strconv"
	"strings"

	"regex-game/internal/match"

	"github.com/a-h/templ"
)

const (
	ClassReference = "hl-reference"
	ClassCandidate = "hl-candidate"
)

const highlightStyles = `pre.target{white-space:pre-wrap;word-break:break-word;font-family:monospace}` +
	`.hl-reference{background:#b2f2bb}.hl-candidate{background:#ffd8a8}`

// HighlightedText renders text inside a <pre>, wrapping covered characters
// in spans. Primary ranges take precedence over secondary ranges.
func HighlightedText(text string, primary []match.Range, primaryClass string, secondary []match.Range, secondaryClass string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<pre class="target">`)
		for _, piece := range splitPieces(text, primary, primaryClass, secondary, secondaryClass) {
			if piece.class == "" {
				b.WriteString("<span>")
			} else {
				b.WriteString(`<span class="` + templ.EscapeString(piece.class) + `">`)
			}
			b.WriteString(templ.EscapeString(piece.text))
			b.WriteString("</span>")
		}
		b.WriteString("</pre>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// QuestionFragment renders the current question as a standalone fragment.
func QuestionFragment(index, total int, prompt, target string, ranges []match.Range, referencePattern string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="question" data-index="` + strconv.Itoa(index) + `">`)
		b.WriteString(`<h2>Question ` + strconv.Itoa(index+1) + ` of ` + strconv.Itoa(total) + `</h2>`)
		b.WriteString(`<p class="prompt">` + templ.EscapeString(prompt) + `</p>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := HighlightedText(target, ranges, ClassReference, nil, "").Render(ctx, w); err != nil {
			return err
		}
		b.Reset()
		if referencePattern != "" {
			b.WriteString(`<p class="answer"><code>` + templ.EscapeString(referencePattern) + `</code></p>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

type piece struct {
	text  string
	class string
}

func splitPieces(text string, primary []match.Range, primaryClass string, secondary []match.Range, secondaryClass string) []piece {
	runes := []rune(text)
	classes := make([]string, len(runes))
	paint := func(ranges []match.Range, class string, overwrite bool) {
		for _, r := range ranges {
			for i := r.Start; i < r.End && i < len(runes); i++ {
				if i < 0 {
					continue
				}
				if overwrite || classes[i] == "" {
					classes[i] = class
				}
			}
		}
	}
	paint(primary, primaryClass, true)
	paint(secondary, secondaryClass, false)

	pieces := make([]piece, 0)
	for cursor := 0; cursor < len(runes); {
		end := cursor + 1
		for end < len(runes) && classes[end] == classes[cursor] {
			end++
		}
		pieces = append(pieces, piece{text: string(runes[cursor:end]), class: classes[cursor]})
		cursor = end
	}
	if len(pieces) == 0 {
		pieces = append(pieces, piece{text: text})
	}
	return pieces
}
