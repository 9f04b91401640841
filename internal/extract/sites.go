package extract

import (
	_ "embed"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/forkful/recipe-cli/internal/ingredient"
	"github.com/forkful/recipe-cli/internal/model"
)

// SiteConfig is one declarative extraction pattern. Item is always
// required; the other selectors depend on Mode. Adding a site is a data
// change, not a code change.
type SiteConfig struct {
	Key          string `yaml:"key"`
	Container    string `yaml:"container"`
	Section      string `yaml:"section"`
	Header       string `yaml:"header"`
	Item         string `yaml:"item"`
	Mode         string `yaml:"mode"`
	HeaderInItem bool   `yaml:"header_in_item"`
}

// Extraction modes for SiteConfig.
const (
	// ModeSections: the container holds section blocks, each carrying
	// its own header and item elements.
	ModeSections = "sections"
	// ModeHeaderSiblings: header elements are followed by sibling lists
	// of items.
	ModeHeaderSiblings = "header_siblings"
	// ModeInlineHeaders: one mixed item list where category markers
	// appear as rows (or as bold prefixes inside rows).
	ModeInlineHeaders = "inline_headers"
)

//go:embed sites.yaml
var sitesYAML []byte

type siteTable struct {
	Sites []SiteConfig `yaml:"sites"`
}

// siteConfigs is the bundled table, loaded once at package init. The
// iteration order is the file order.
var siteConfigs = loadSiteConfigs(sitesYAML)

func loadSiteConfigs(raw []byte) []SiteConfig {
	var table siteTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		// The table ships with the binary; a decode failure is a build
		// defect and an empty table just disables this fallback tier.
		return nil
	}
	configs := make([]SiteConfig, 0, len(table.Sites))
	for _, cfg := range table.Sites {
		if cfg.Item == "" {
			continue
		}
		if cfg.Mode == "" {
			cfg.Mode = ModeInlineHeaders
		}
		configs = append(configs, cfg)
	}
	return configs
}

// extractWithSiteConfigs runs the table interpreter: the first config
// producing a non-empty ingredient list wins.
func extractWithSiteConfigs(doc *goquery.Document) []model.Ingredient {
	for _, cfg := range siteConfigs {
		if items := extractWithConfig(doc, cfg); len(items) > 0 {
			return items
		}
	}
	return nil
}

// extractWithConfig interprets a single SiteConfig over the document.
func extractWithConfig(doc *goquery.Document, cfg SiteConfig) []model.Ingredient {
	root := doc.Selection
	if cfg.Container != "" {
		container := doc.Find(cfg.Container).First()
		if container.Length() == 0 {
			return nil
		}
		root = container
	}

	var lines []string
	appendItem := func(sel *goquery.Selection) {
		if s := ingredient.CleanText(sel.Text()); s != "" {
			lines = append(lines, s)
		}
	}

	switch cfg.Mode {
	case ModeSections:
		sections := root.Find(cfg.Section)
		if cfg.Section == "" || sections.Length() == 0 {
			root.Find(cfg.Item).Each(func(_ int, sel *goquery.Selection) { appendItem(sel) })
			break
		}
		sections.Each(func(_ int, section *goquery.Selection) {
			if cfg.Header != "" {
				if h := ingredient.CleanText(section.Find(cfg.Header).First().Text()); h != "" {
					lines = append(lines, "["+h+"]")
				}
			}
			section.Find(cfg.Item).Each(func(_ int, sel *goquery.Selection) { appendItem(sel) })
		})

	case ModeHeaderSiblings:
		headers := root.Find(cfg.Header)
		if cfg.Header == "" || headers.Length() == 0 {
			root.Find(cfg.Item).Each(func(_ int, sel *goquery.Selection) { appendItem(sel) })
			break
		}
		headers.Each(func(_ int, header *goquery.Selection) {
			if h := ingredient.CleanText(header.Text()); h != "" {
				lines = append(lines, "["+h+"]")
			}
			// Items live in the element(s) between this header and the next.
			header.NextUntil(cfg.Header).Each(func(_ int, sibling *goquery.Selection) {
				if sibling.Is(cfg.Item) {
					appendItem(sibling)
					return
				}
				sibling.Find(cfg.Item).Each(func(_ int, sel *goquery.Selection) { appendItem(sel) })
			})
		})

	case ModeInlineHeaders:
		root.Find(cfg.Item).Each(func(_ int, sel *goquery.Selection) {
			text := ingredient.CleanText(sel.Text())
			if text == "" {
				return
			}
			if cfg.HeaderInItem && looksLikeInlineHeader(sel, text) {
				lines = append(lines, "["+strings.TrimSuffix(text, ":")+"]")
				return
			}
			lines = append(lines, text)
		})
	}

	return ingredient.ParseList(lines)
}

// looksLikeInlineHeader treats a row as a category marker when it is
// all bold (a lone strong/b child) or ends with a colon and carries no
// measurement.
func looksLikeInlineHeader(sel *goquery.Selection, text string) bool {
	if ingredient.MeasurementShaped(text) {
		return false
	}
	if strings.HasSuffix(text, ":") {
		return true
	}
	bold := sel.ChildrenFiltered("strong, b").First()
	return bold.Length() > 0 && ingredient.CleanText(bold.Text()) == text
}
