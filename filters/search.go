package filters

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/SanteonNL/sift/predicate"
)

// ApplySearch restricts b to rows matching every token of phrase.
func (e *Engine) ApplySearch(b Builder, phrase string) Builder {
	p := e.SearchPredicate(b.Model(), phrase)
	if p == nil {
		return b
	}
	return b.Where(p)
}

// SearchPredicate builds the search condition for phrase on m: a
// conjunction with one disjunction per whitespace separated token. A token
// matches when it is contained in a plain column, equals a boolean column
// (for true, false, 1 and 0 only), or is contained in a localizable field
// or an allowed field of a related row. Foreign keys are never searched.
// The result is nil for a blank phrase.
func (e *Engine) SearchPredicate(m Model, phrase string) predicate.Predicate {
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return nil
	}

	table := m.TableName()
	foreign := m.ForeignKeys()
	booleans := m.BooleanColumns()

	var text []string
	for _, col := range m.Columns() {
		if slices.Contains(foreign, col) || slices.Contains(booleans, col) {
			continue
		}
		text = append(text, col)
	}
	var flags []string
	for _, col := range booleans {
		if !slices.Contains(foreign, col) {
			flags = append(flags, col)
		}
	}

	localizable := m.LocalizableFields()
	relations := m.SearchRelations()
	relationNames := sortedKeys(relations)

	all := make(predicate.And, 0, len(tokens))
	for _, token := range tokens {
		group := predicate.Or{}
		pattern := predicate.Contains(token)

		for _, col := range text {
			group = append(group, predicate.Like{Column: table + "." + col, Pattern: pattern})
		}

		if value, ok := boolToken(token); ok {
			for _, col := range flags {
				group = append(group, predicate.Eq{Column: table + "." + col, Value: value})
			}
		}

		if len(localizable) > 0 {
			if p, ok := e.relatedMatch(m, TranslationRelation, localizable, pattern); ok {
				group = append(group, p)
			}
		}

		for _, name := range relationNames {
			if p, ok := e.relatedMatch(m, name, relations[name], pattern); ok {
				group = append(group, p)
			}
		}

		all = append(all, group)
	}
	return all
}

// relatedMatch matches rows with a related row containing pattern in any
// of fields.
func (e *Engine) relatedMatch(m Model, relation string, fields []string, pattern string) (predicate.Predicate, bool) {
	rel, ok := m.Relation(relation)
	if !ok || len(fields) == 0 {
		e.log.Warn().Str("relation", relation).Msg("Skipping unresolvable search relation")
		return nil, false
	}

	match := make(predicate.Or, 0, len(fields))
	for _, field := range fields {
		match = append(match, predicate.Like{Column: predicate.Qualify(rel.Table, field), Pattern: pattern})
	}
	return ExistsRelation(m, relation, match)
}

// boolToken reports the boolean a search token stands for.
func boolToken(token string) (bool, bool) {
	switch token {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}
