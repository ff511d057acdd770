package entitlements

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/CineFox/app/models"
)

// CatalogRule is the listing-visibility rule for a viewer:
//   - free items are always listed
//   - anonymous viewers see free items only
//   - pay-per-view items are listed for every signed-in viewer; purchases gate
//     playback, not visibility
//   - subscription items are listed iff SubscriptionRule grants them
func CatalogRule(f ViewerFacts) Rule {
	return Any(
		AccessTypeIs{AccessType: models.AccessTypeFree},
		RequiresViewer{
			ViewerID: f.ViewerID,
			Rule: Any(
				AccessTypeIs{AccessType: models.AccessTypePayPerView},
				All(AccessTypeIs{AccessType: models.AccessTypeSubscription}, SubscriptionRule(f)),
			),
		},
	)
}

// CatalogFilter is the compiled listing filter for one viewer. It is built once
// per query and applied as a GORM scope.
type CatalogFilter struct {
	facts ViewerFacts
	rule  Rule
}

// NewCatalogFilter builds the filter for already-loaded viewer facts.
func NewCatalogFilter(f ViewerFacts) *CatalogFilter {
	return &CatalogFilter{facts: f, rule: CatalogRule(f)}
}

func unrestrictedFilter() *CatalogFilter {
	return &CatalogFilter{rule: Always{}}
}

// Rule returns the filter's rule tree.
func (f *CatalogFilter) Rule() Rule { return f.rule }

// Facts returns the viewer facts the filter was built from.
func (f *CatalogFilter) Facts() ViewerFacts { return f.facts }

// Unrestricted reports whether the filter excludes nothing.
func (f *CatalogFilter) Unrestricted() bool {
	_, ok := f.rule.(Always)
	return ok
}

// Matches evaluates the filter for one item in memory.
func (f *CatalogFilter) Matches(item Item) bool { return f.rule.Matches(item) }

// Expression compiles the filter against a target table.
func (f *CatalogFilter) Expression(t Target) clause.Expression { return f.rule.Expression(t) }

// Scope returns a GORM scope that restricts a query on t.Table to the items the
// viewer may list.
func (f *CatalogFilter) Scope(t Target) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f == nil || f.Unrestricted() {
			return db
		}
		return db.Where(f.rule.Expression(t))
	}
}
