package declare

import (
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Document is the root of a declarations file.
type Document struct {
	Resources []Declaration `json:"resources"`
}

// Declaration describes one list resource: the table it reads, the columns
// it may be ordered by and its request filters.
type Declaration struct {
	Name         string                  `json:"name"`
	Table        string                  `json:"table"`
	Orderable    []string                `json:"orderable,omitempty"`
	Filters      []FilterDeclaration     `json:"filters,omitempty"`
	Relations    []RelationDeclaration   `json:"relations,omitempty"`
	Translations *TranslationDeclaration `json:"translations,omitempty"`
	Search       map[string][]string     `json:"search,omitempty"`
}

// FilterDeclaration binds a request parameter to a column comparison.
type FilterDeclaration struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Column   string `json:"column"`
	Operator string `json:"operator,omitempty"`
}

// RelationDeclaration declares a relation usable by ordering and search.
// Kind is "hasMany" or "belongsTo".
type RelationDeclaration struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Table      string `json:"table"`
	ForeignKey string `json:"foreignKey,omitempty"`
}

// TranslationDeclaration names the table holding per-locale fields.
type TranslationDeclaration struct {
	Table      string   `json:"table"`
	ForeignKey string   `json:"foreignKey"`
	Fields     []string `json:"fields"`
}

// Repository holds loaded declarations by resource name.
type Repository struct {
	declarations map[string]*Declaration
	mu           sync.RWMutex
	log          zerolog.Logger
	client       *retryablehttp.Client
}
