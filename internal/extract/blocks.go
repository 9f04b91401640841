package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
)

// BlockStrategy handles block-based page builders that render recipes
// as inline-styled paragraphs separated by line breaks, with section
// names in bold runs that often straddle the breaks.
type BlockStrategy struct {
	weights Weights
}

// NewBlockStrategy creates the strategy with the given weights.
func NewBlockStrategy(w Weights) *BlockStrategy {
	return &BlockStrategy{weights: w}
}

func (s *BlockStrategy) Name() string { return "blocks" }

// Platform markers: mesh-grid data attributes and the builder's class
// prefix survive every theme.
var blockMarkerRe = regexp.MustCompile(`data-mesh-id=|class="[^"]*wixui-`)

func (s *BlockStrategy) Confidence(src *Source) float64 {
	body := src.Body
	if body == "" && src.Doc != nil {
		if html, err := src.Doc.Html(); err == nil {
			body = html
		}
	}
	if body == "" || !blockMarkerRe.MatchString(body) {
		return 0
	}
	upper := strings.ToUpper(body)
	if strings.Contains(upper, "INGREDIENTS") && strings.Contains(upper, "METHOD") {
		return s.weights.BlocksStrong
	}
	return s.weights.BlocksWeak
}

var (
	brSplitRe = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)

	// The four bold-run patterns a builder paragraph line can take.
	openBoldOnlyRe   = regexp.MustCompile(`(?i)^\s*<(?:strong|b)[^>]*>\s*$`)
	openBoldDeferRe  = regexp.MustCompile(`(?i)^\s*<(?:strong|b)[^>]*>([^<]+)$`)
	closeBoldLeadRe  = regexp.MustCompile(`(?i)^([^<]*)</(?:strong|b)>\s*(.*)$`)
	wholeBoldRe      = regexp.MustCompile(`(?i)^\s*<(?:strong|b)[^>]*>([^<]+)</(?:strong|b)>[\s:]*$`)
	inlineBoldLeadRe = regexp.MustCompile(`(?i)^\s*<(?:strong|b)[^>]*>([^<]+)</(?:strong|b)>[\s:]*(\S.*)$`)
	methodHeadingRe  = regexp.MustCompile(`(?i)\b(method|directions|instructions)\b`)
)

func (s *BlockStrategy) Extract(ctx context.Context, src *Source) (*model.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := src.Doc
	if doc == nil {
		if src.Body == "" {
			return nil, nil
		}
		parsed, err := goquery.NewDocumentFromReader(strings.NewReader(src.Body))
		if err != nil {
			return nil, err
		}
		doc = parsed
	}

	ingBlock := contentBlockFor(doc, func(t string) bool {
		return strings.Contains(strings.ToUpper(t), "INGREDIENTS")
	})
	dirBlock := contentBlockFor(doc, func(t string) bool {
		return methodHeadingRe.MatchString(t)
	})
	if ingBlock == nil && dirBlock == nil {
		return nil, nil
	}

	r := &model.Recipe{}
	if ingBlock != nil {
		lines := blockLines(ingBlock)
		var raw []string
		for _, line := range lines {
			raw = append(raw, ingredient.SplitConcatenated(line)...)
		}
		r.Ingredients = ingredient.ParseList(raw)
		if len(r.Ingredients) > 0 {
			r.IngredientsConfidence = s.weights.HeuristicList
		}
	}
	if dirBlock != nil {
		for _, line := range blockLines(dirBlock) {
			if name, ok := ingredient.SectionName(line); ok {
				r.Directions = append(r.Directions, "**"+name+"**")
				continue
			}
			if len(line) >= 10 {
				r.Directions = append(r.Directions, splitNumberedSteps(line)...)
			}
		}
		if len(r.Directions) > 0 {
			r.DirectionsConfidence = s.weights.HeuristicList
		}
	}

	if !r.HasContent() {
		return nil, nil
	}
	r.Name = pageTitle(doc)
	if r.Name != "" {
		r.NameConfidence = s.weights.HeuristicName
	}
	return r, nil
}

// contentBlockFor finds a heading-bearing text element accepted by
// match and returns its nearest builder content-block ancestor (falling
// back to the heading's parent).
func contentBlockFor(doc *goquery.Document, match func(string) bool) *goquery.Selection {
	var block *goquery.Selection
	doc.Find("h1, h2, h3, h4, h5, p, span").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := ingredient.CleanText(heading.Text())
		if len(text) > 60 || !match(text) {
			return true
		}
		ancestor := heading.Closest("[data-mesh-id], [class*='wixui-rich-text'], [class*='txtNew']")
		if ancestor.Length() == 0 {
			ancestor = heading.Parent()
		}
		block = ancestor
		return false
	})
	return block
}

// blockLines iterates the block's paragraphs, splits their inner markup
// on line-break tags and resolves the bold-run section patterns into
// "[Section]" markers followed by content lines.
func blockLines(block *goquery.Selection) []string {
	var lines []string
	deferred := "" // section name opened on a previous line

	emitSection := func(name string) {
		name = ingredient.CleanText(strings.TrimSuffix(name, ":"))
		if name != "" && !isBlockHeading(name) {
			lines = append(lines, "["+name+"]")
		}
	}
	emitContent := func(raw string) {
		text := ingredient.CleanText(tagRe.ReplaceAllString(raw, " "))
		if text != "" && !isBlockHeading(text) {
			lines = append(lines, text)
		}
	}

	block.Find("p").Each(func(_ int, p *goquery.Selection) {
		html, err := p.Html()
		if err != nil {
			return
		}
		for _, line := range brSplitRe.Split(html, -1) {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			switch {
			case openBoldOnlyRe.MatchString(trimmed):
				// Bold run opens with nothing after it: the section name
				// arrives on the next line.
				deferred = ""
			case deferred == "" && openBoldDeferRe.MatchString(trimmed) && !strings.Contains(trimmed, "</"):
				deferred = openBoldDeferRe.FindStringSubmatch(trimmed)[1]
			case deferred != "":
				if m := closeBoldLeadRe.FindStringSubmatch(trimmed); m != nil {
					emitSection(strings.TrimSpace(deferred + " " + m[1]))
					deferred = ""
					if m[2] != "" {
						emitContent(m[2])
					}
					continue
				}
				// Still inside the bold run.
				deferred += " " + tagRe.ReplaceAllString(trimmed, " ")
			case wholeBoldRe.MatchString(trimmed):
				emitSection(wholeBoldRe.FindStringSubmatch(trimmed)[1])
			default:
				if m := inlineBoldLeadRe.FindStringSubmatch(trimmed); m != nil {
					emitSection(m[1])
					emitContent(m[2])
					continue
				}
				emitContent(trimmed)
			}
		}
	})
	return lines
}

// isBlockHeading filters the section-title words themselves out of the
// content stream.
func isBlockHeading(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	switch upper {
	case "INGREDIENTS", "METHOD", "DIRECTIONS", "INSTRUCTIONS":
		return true
	}
	return false
}
