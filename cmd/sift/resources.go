package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/SanteonNL/sift/declare"
	"github.com/SanteonNL/sift/models"
	"github.com/SanteonNL/sift/schema"
)

// loadDeclaredResources reads the declarations at source and describes each
// declared table from the database catalog.
func loadDeclaredResources(ctx context.Context, source string, db *sqlx.DB, log zerolog.Logger) ([]models.Resource, error) {
	repo := declare.NewRepository(log)
	if err := repo.Load(ctx, source); err != nil {
		return nil, err
	}

	introspector := schema.NewIntrospector(db, log)
	resources := make([]models.Resource, 0, len(repo.Names()))
	for _, name := range repo.Names() {
		decl, err := repo.Get(name)
		if err != nil {
			return nil, err
		}

		table, err := introspector.Table(ctx, decl.Table)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}
		if table, err = decl.Extend(table); err != nil {
			return nil, err
		}
		registry, err := decl.Registry(table)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}

		resources = append(resources, models.Resource{
			Name:      name,
			Model:     table,
			Filters:   registry,
			Orderable: decl.Orderable,
		})
		log.Debug().Str("resource", name).Str("table", decl.Table).Msg("Declared resource")
	}
	return resources, nil
}

// mergeResources overrides builtin resources with declared ones of the same
// name.
func mergeResources(builtin, declared []models.Resource) []models.Resource {
	index := make(map[string]int, len(builtin))
	merged := append([]models.Resource(nil), builtin...)
	for i, r := range merged {
		index[r.Name] = i
	}
	for _, r := range declared {
		if i, ok := index[r.Name]; ok {
			merged[i] = r
			continue
		}
		index[r.Name] = len(merged)
		merged = append(merged, r)
	}
	return merged
}
