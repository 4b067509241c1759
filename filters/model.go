package filters

// TranslationRelation is the relation holding per-locale values of
// localizable fields.
const TranslationRelation = "translations"

// LocaleColumn is the column of a translation row naming its locale.
const LocaleColumn = "locale"

// Model describes the table a Builder selects from.
type Model interface {
	TableName() string
	IDColumn() string
	// Columns lists every column of the table in table order.
	Columns() []string
	ForeignKeys() []string
	BooleanColumns() []string
	// LocalizableFields is empty for models without translations.
	LocalizableFields() []string
	// SearchRelations maps a relation name to the fields searched on it.
	SearchRelations() map[string][]string
	Relation(name string) (Relation, bool)
}

// RelationKind is the shape of a relation seen from the owning model.
type RelationKind int

const (
	Other RelationKind = iota
	ToMany
	ToOne
)

func (k RelationKind) String() string {
	switch k {
	case ToMany:
		return "to-many"
	case ToOne:
		return "to-one"
	}
	return "other"
}

// Relation describes a related table.
type Relation struct {
	Kind RelationKind
	// Table is the related table.
	Table string
	// ForeignKey is the column on Table pointing back at the owner (ToMany).
	ForeignKey string
	// LocalKey is the column on the owner pointing at Table (ToOne).
	// Empty means "{relation}_id".
	LocalKey string
	// TargetKey is the key column on Table (ToOne). Empty means "id".
	TargetKey string
}

// LocaleProvider yields the locale of the current request.
type LocaleProvider interface {
	CurrentLocale() string
}

// StaticLocale is a LocaleProvider returning a fixed locale.
type StaticLocale string

func (l StaticLocale) CurrentLocale() string { return string(l) }

// correlate returns the columns tying rows of the related table to the
// row of the owning model, or false for unsupported relation kinds.
func (r Relation) correlate(name string, m Model) (left, right string, ok bool) {
	switch r.Kind {
	case ToMany:
		return r.Table + "." + r.ForeignKey, m.TableName() + "." + m.IDColumn(), true
	case ToOne:
		target := r.TargetKey
		if target == "" {
			target = "id"
		}
		local := r.LocalKey
		if local == "" {
			local = name + "_id"
		}
		return r.Table + "." + target, m.TableName() + "." + local, true
	}
	return "", "", false
}
