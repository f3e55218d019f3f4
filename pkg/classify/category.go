package classify

import (
	"sort"
	"strings"
)

// Category is the short code that prefixes a synthesized file name.
type Category string

// Known categories.
const (
	CategoryNew    Category = "new"
	CategoryMod    Category = "mod"
	CategoryView   Category = "view"
	CategoryProc   Category = "usp"
	CategoryFunc   Category = "udf"
	CategorySchema Category = "schema"
	CategoryData   Category = "ibd"
)

// Action maps one action phrase to its category.
type Action struct {
	Phrase   string
	Category Category
}

// actions is the phrase table. Several phrases may share a category.
var actions = []Action{
	{"create table", CategoryNew},
	{"alter table", CategoryMod},
	{"alter procedure", CategoryMod},
	{"usp_add_fk", CategoryMod},
	{"usp_add_column", CategoryMod},
	{"usp_add_constraint", CategoryMod},
	{"usp_drop_fk", CategoryMod},
	{"usp_drop_column", CategoryMod},
	{"usp_drop_constraint", CategoryMod},
	{"create view", CategoryView},
	{"create or replace view", CategoryView},
	{"create procedure", CategoryProc},
	{"create or replace procedure", CategoryProc},
	{"create function", CategoryFunc},
	{"create or replace function", CategoryFunc},
	{"create schema", CategorySchema},
	{"create or replace schema", CategorySchema},
	{"insert", CategoryData},
	{"insert into", CategoryData},
	{"insert ignore into", CategoryData},
	{"tt_ibd", CategoryData},
}

// Actions returns the phrase table ordered from most to least specific.
// Longer phrases come first so that "create or replace view" is never
// captured as a shorter phrase followed by stray tokens.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Phrase) > len(out[j].Phrase)
	})
	return out
}

// Lookup returns the category for a phrase. Case and inner whitespace are
// normalized, so "CREATE   TABLE" finds "create table".
func Lookup(phrase string) (Category, bool) {
	norm := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	for _, a := range actions {
		if a.Phrase == norm {
			return a.Category, true
		}
	}
	return "", false
}
