// Package classify turns a SQL snippet into a {category, schema, object}
// triple and derives the canonical artifact file name from it.
//
// Classification is a heuristic keyword scan, not a parse: the first
// recognized action phrase in a bounded prefix of the text decides the
// category, and the identifiers following it name the object. Quoting is
// matched leniently (backtick, single quote, double quote, square brackets,
// mixed freely) because the inputs are hand-written snippets.
//
// The matching strategy lives behind the Classifier interface; callers never
// depend on the regular expressions directly.
package classify
