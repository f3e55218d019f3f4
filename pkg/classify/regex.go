package classify

import (
	"regexp"
	"strings"
)

// ScanLimit is the number of leading characters inspected. Large bodies are
// not scanned past it, which keeps a stray keyword deep in a procedure body
// from deciding the name.
const ScanLimit = 1000

const (
	openDelims  = "[`'\"\\[]"
	closeDelims = "[`'\"\\]]"
	notDelims   = "[^`'\"\\[\\].]"
)

// ident matches one identifier: a delimited name (closing delimiter need not
// match the opening one) or a bare word with at most stray delimiters.
// Dots never appear inside a name; they separate schema from object.
func ident(quoted, bare string) string {
	return `(?:` + openDelims + `(?P<` + quoted + `>` + notDelims + `+)` + closeDelims +
		`|` + openDelims + `?(?P<` + bare + `>[\w$#@]+)` + closeDelims + `?)`
}

func actionAlternation() string {
	phrases := Actions()
	alts := make([]string, len(phrases))
	for i, a := range phrases {
		words := strings.Fields(a.Phrase)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		alts[i] = strings.Join(words, `\s+`)
	}
	return strings.Join(alts, "|")
}

var (
	usePattern = regexp.MustCompile(`(?i)\buse(?:\s+` + openDelims + `?|\s*` + openDelims + `)(?P<schema>\w+)` + closeDelims + `?`)

	phrasePattern = regexp.MustCompile(`(?i)(?:^|\W)` + openDelims + `?(?P<action>` + actionAlternation() + `)` + closeDelims + `?(?:\s|\()`)

	actionPattern = regexp.MustCompile(`(?i)(?:^|\W)` + openDelims + `?(?P<action>` + actionAlternation() + `)` + closeDelims + `?` +
		`(?P<open>\s+|\s*\(\s*)` +
		`(?:(?:if\s+not\s+exists|like)\s+)?` +
		`(?:` + ident("qschema", "schema") + `\s*(?P<sep>[.,])\s*)?` +
		ident("qobject", "object"))
)

// RegexClassifier classifies text with regular expressions.
type RegexClassifier struct {
	use    *regexp.Regexp
	action *regexp.Regexp
	phrase *regexp.Regexp
	limit  int
}

// NewRegexClassifier returns the default classifier.
func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{
		use:    usePattern,
		action: actionPattern,
		phrase: phrasePattern,
		limit:  ScanLimit,
	}
}

// Classify implements Classifier.
func (c *RegexClassifier) Classify(text string) (Result, error) {
	text = truncate(text, c.limit)
	if strings.TrimSpace(text) == "" {
		return Result{}, &Error{Reason: "empty text"}
	}

	m := c.action.FindStringSubmatch(text)
	if m == nil {
		if c.phrase.MatchString(text) {
			return Result{}, &Error{Reason: "action phrase without an object name"}
		}
		return Result{}, &Error{Reason: "no action phrase found"}
	}

	group := func(name string) string {
		return m[c.action.SubexpIndex(name)]
	}

	phrase := strings.Join(strings.Fields(strings.ToLower(group("action"))), " ")
	category, ok := Lookup(phrase)
	if !ok {
		return Result{}, &Error{Reason: "unknown action phrase " + phrase}
	}

	schema := coalesce(strings.TrimSpace(group("qschema")), group("schema"))
	object := coalesce(strings.TrimSpace(group("qobject")), group("object"))

	// A comma separates schema and object only in a macro call such as
	// usp_add_fk('dbo', 'orders'). Elsewhere the name before it is the
	// object and the rest is a list.
	if group("sep") == "," && !strings.Contains(group("open"), "(") {
		object, schema = schema, ""
	}
	if object == "" {
		return Result{}, &Error{Reason: "action phrase without an object name"}
	}

	return Result{
		Category: category,
		Schema:   coalesce(schema, c.useSchema(text)),
		Object:   object,
		Action:   phrase,
	}, nil
}

// useSchema returns the schema named by a USE clause, or "".
func (c *RegexClassifier) useSchema(text string) string {
	m := c.use.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[c.use.SubexpIndex("schema")]
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
