package db

import (
	"context"

	"github.com/dcortinas/fablink-backend/pkg/logger"
	"gorm.io/gorm"
)

// Capabilities describes which optional tables the backing schema carries.
// It is resolved once at startup and injected into services, so the
// graceful-degradation contract holds without per-call probing.
type Capabilities struct {
	SavedSearches   bool
	MatchHealth     bool
	ProviderDetails ProviderDetailCapabilities
}

// ProviderDetailCapabilities flags optional provider columns.
type ProviderDetailCapabilities struct {
	Materials bool
}

const (
	tableSavedSearches = "saved_searches"
	tableMatchHealth   = "provider_match_health"
	tableProviders     = "providers"
	columnMaterials    = "materials"
)

// ResolveCapabilities probes the schema once and returns the descriptor.
// Probe failures disable the feature rather than erroring: a deployment
// that cannot be inspected behaves like one missing the optional tables.
func ResolveCapabilities(ctx context.Context, conn *gorm.DB, logg *logger.Logger) Capabilities {
	caps := Capabilities{}
	if conn == nil {
		return caps
	}

	migrator := conn.WithContext(ctx).Migrator()
	caps.SavedSearches = migrator.HasTable(tableSavedSearches)
	caps.MatchHealth = migrator.HasTable(tableMatchHealth)
	caps.ProviderDetails.Materials = migrator.HasColumn(tableProviders, columnMaterials)

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"saved_searches":     caps.SavedSearches,
			"match_health":       caps.MatchHealth,
			"provider_materials": caps.ProviderDetails.Materials,
		})
		logg.Info(ctx, "schema capabilities resolved")
	}
	return caps
}
