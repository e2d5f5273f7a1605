package registry

import (
	"fmt"

	"github.com/fortuna/services/f1-standings-service/internal/categories"
	"github.com/fortuna/services/f1-standings-service/pkg/contracts"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// Options carries the per-category display settings
type Options struct {
	Drivers         models.FocusConfig
	Constructors    models.FocusConfig
	MaxScheduleRows int
	FocusGP         string
}

// Registry manages the category modules
type Registry struct {
	modules map[models.Category]contracts.CategoryModule
	order   []models.Category
}

// New creates a registry with the schedule, driver and constructor modules
func New(opts Options) *Registry {
	r := &Registry{
		modules: make(map[models.Category]contracts.CategoryModule),
	}

	r.Register(categories.NewSchedule(opts.MaxScheduleRows, opts.FocusGP))
	r.Register(categories.NewDrivers(opts.Drivers))
	r.Register(categories.NewConstructors(opts.Constructors))

	return r
}

// Register adds a category module, replacing any module for the same category
func (r *Registry) Register(module contracts.CategoryModule) {
	category := module.GetCategory()
	if _, exists := r.modules[category]; !exists {
		r.order = append(r.order, category)
	}
	r.modules[category] = module
}

// GetModule retrieves a category module
func (r *Registry) GetModule(category models.Category) (contracts.CategoryModule, error) {
	module, ok := r.modules[category]
	if !ok {
		return nil, fmt.Errorf("category module not found: %s", category)
	}
	return module, nil
}

// Enabled returns the modules fetched under the display mode, in registration order
func (r *Registry) Enabled(mode models.DisplayMode) []contracts.CategoryModule {
	var enabled []contracts.CategoryModule
	for _, category := range r.order {
		if mode.Includes(category) {
			enabled = append(enabled, r.modules[category])
		}
	}
	return enabled
}
