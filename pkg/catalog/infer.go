package catalog

import (
	"regexp"
	"strings"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
	"github.com/censo-resguardo/censo-backend/pkg/utils"
)

const (
	// option lists longer than this render as a select control instead of
	// inline single-choice
	SINGLE_CHOICE_MAX_OPTIONS = 6

	// hard cap on parsed options per question; longer category lists are
	// truncated for readability, callers lose the tail
	MAX_OPTIONS_PER_QUESTION = 10
)

// category column wording that promotes a choice question to multi-choice
const multiSelectMarker = "Marque todas las que apliquen"

// prompt keywords that force a kind regardless of the category column
var (
	geographyKeywords = []string{
		"coordenada",
		"georreferencia",
		"ubicación",
		"ubicacion",
		"latitud",
		"longitud",
		"gps",
	}
	quantityKeywords = []string{
		"cuántos",
		"cuantos",
		"cuántas",
		"cuantas",
		"cantidad de",
		"número de",
		"numero de",
		"edad",
	}
)

// category column sentinels meaning "open answer, no predefined options"
var openSentinels = []string{"_", "Abierta", "abierta"}

var (
	numberedMarkerRe = regexp.MustCompile(`(?m)^\s*\d+[.)]`)
	letterMarkerRe   = regexp.MustCompile(`(?m)^\s*[A-Za-z][.)]\s`)
	siNoPairRe       = regexp.MustCompile(`(?i)^\s*s[ií]\s*[;,/\n]?\s*no\s*$`)
	leadingMarkerRe  = regexp.MustCompile(`^\s*(\d+|[A-Za-z])[.)]\s*`)
	bareMarkerRe     = regexp.MustCompile(`^\s*(\d+|[A-Za-z])[.)]?\s*$`)
)

// InferKind maps the raw prompt and category/options text of one catalog
// row to a question kind and its parsed options. Pure function, rules are
// evaluated in precedence order.
func InferKind(prompt string, category string) (kind string, options []string) {
	lowerPrompt := strings.ToLower(prompt)

	if containsAny(lowerPrompt, geographyKeywords) {
		return types.QUESTION_KIND_COORDINATES, nil
	}
	if containsAny(lowerPrompt, quantityKeywords) {
		return types.QUESTION_KIND_NUMBER, nil
	}
	if strings.Contains(category, multiSelectMarker) {
		return types.QUESTION_KIND_MULTI_CHOICE, ParseOptions(category)
	}
	if looksEnumerated(category) {
		options = ParseOptions(category)
		if len(options) == 0 {
			return types.QUESTION_KIND_TEXT, nil
		}
		if len(options) <= SINGLE_CHOICE_MAX_OPTIONS {
			return types.QUESTION_KIND_SINGLE_CHOICE, options
		}
		return types.QUESTION_KIND_SELECT, options
	}
	return types.QUESTION_KIND_TEXT, nil
}

// looksEnumerated reports whether the category column describes a
// predefined option list: numbered or letter markers, a SI/NO pair, a
// multi-line list or a semicolon delimited list.
func looksEnumerated(category string) bool {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" || isOpenSentinel(trimmed) {
		return false
	}
	if numberedMarkerRe.MatchString(category) || letterMarkerRe.MatchString(category) {
		return true
	}
	if siNoPairRe.MatchString(category) {
		return true
	}
	if strings.Contains(category, ";") {
		return true
	}
	return countNonEmptyLines(category) > 1
}

// ParseOptions splits the category column into clean option labels:
// fragments are split on semicolons and newlines, list markers ("1. ",
// "A) ") are stripped, pure markers, the multi-select banner and empty
// fragments are dropped, and the result is capped at
// MAX_OPTIONS_PER_QUESTION entries.
func ParseOptions(category string) []string {
	if siNoPairRe.MatchString(category) {
		// pairs like "SI/NO" or "Sí, No" split on their own separator
		return strings.FieldsFunc(strings.TrimSpace(category), func(r rune) bool {
			return r == ';' || r == ',' || r == '/' || r == '\n' || r == ' '
		})
	}

	fragments := strings.FieldsFunc(category, func(r rune) bool {
		return r == ';' || r == '\n'
	})

	options := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" || strings.Contains(fragment, multiSelectMarker) {
			continue
		}
		if bareMarkerRe.MatchString(fragment) {
			continue
		}
		fragment = leadingMarkerRe.ReplaceAllString(fragment, "")
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		options = append(options, fragment)
		if len(options) == MAX_OPTIONS_PER_QUESTION {
			break
		}
	}
	return options
}

func isOpenSentinel(category string) bool {
	return utils.ContainsString(openSentinels, category)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countNonEmptyLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
