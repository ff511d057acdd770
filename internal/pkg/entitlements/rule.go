package entitlements

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/CineFox/app/models"
)

// Item is the access-relevant view of one catalog entry.
type Item struct {
	Type           string
	ID             uint
	AccessType     string
	AllowedPlanIDs []uint
}

// ItemOf builds an Item from a catalog model.
func ItemOf(c models.Content) Item {
	return Item{
		Type:           c.ContentType(),
		ID:             c.ContentID(),
		AccessType:     c.ContentAccessType(),
		AllowedPlanIDs: c.AllowedPlanIDs(),
	}
}

// Rule is a predicate over catalog items. Every rule can be evaluated in memory
// for a single item and compiled into a GORM expression for a whole table; both
// forms must agree for every item.
type Rule interface {
	Matches(item Item) bool
	Expression(t Target) clause.Expression
	String() string
}

// Target names the tables a rule is compiled against.
type Target struct {
	Table          string
	JoinTable      string
	JoinForeignKey string
}

var (
	MovieTarget   = Target{Table: "movies", JoinTable: "movie_allowed_plans", JoinForeignKey: "movie_id"}
	TvShowTarget  = Target{Table: "tv_shows", JoinTable: "tv_show_allowed_plans", JoinForeignKey: "tv_show_id"}
	EpisodeTarget = Target{Table: "episodes", JoinTable: "episode_allowed_plans", JoinForeignKey: "episode_id"}
)

// TargetFor returns the compile target for a content type.
func TargetFor(contentType string) (Target, bool) {
	switch contentType {
	case models.ContentTypeMovie:
		return MovieTarget, true
	case models.ContentTypeTvShow:
		return TvShowTarget, true
	case models.ContentTypeEpisode:
		return EpisodeTarget, true
	default:
		return Target{}, false
	}
}

func (t Target) column(name string) clause.Column {
	return clause.Column{Table: t.Table, Name: name}
}

func (t Target) planRows() (clause.Table, clause.Column, clause.Column) {
	return clause.Table{Name: t.JoinTable},
		clause.Column{Table: t.JoinTable, Name: t.JoinForeignKey},
		t.column("id")
}

// Always matches every item.
type Always struct{}

func (Always) Matches(Item) bool                   { return true }
func (Always) Expression(Target) clause.Expression { return clause.Expr{SQL: "1 = 1"} }
func (Always) String() string                      { return "always" }

// Never matches no item.
type Never struct{}

func (Never) Matches(Item) bool                   { return false }
func (Never) Expression(Target) clause.Expression { return clause.Expr{SQL: "1 = 0"} }
func (Never) String() string                      { return "never" }

// AccessTypeIs matches items with the given access type.
type AccessTypeIs struct {
	AccessType string
}

func (r AccessTypeIs) Matches(item Item) bool { return item.AccessType == r.AccessType }

func (r AccessTypeIs) Expression(t Target) clause.Expression {
	return clause.Eq{Column: t.column("access_type"), Value: r.AccessType}
}

func (r AccessTypeIs) String() string { return "access_type=" + r.AccessType }

// PlansUnrestricted matches items whose allowed-plan set is empty.
type PlansUnrestricted struct{}

func (PlansUnrestricted) Matches(item Item) bool { return len(item.AllowedPlanIDs) == 0 }

func (PlansUnrestricted) Expression(t Target) clause.Expression {
	join, fk, id := t.planRows()
	return clause.Expr{
		SQL:  "NOT EXISTS (SELECT 1 FROM ? WHERE ? = ?)",
		Vars: []interface{}{join, fk, id},
	}
}

func (PlansUnrestricted) String() string { return "plans=any" }

// PlanAllowed matches items whose allowed-plan set contains PlanID.
type PlanAllowed struct {
	PlanID uint
}

func (r PlanAllowed) Matches(item Item) bool {
	for _, id := range item.AllowedPlanIDs {
		if id == r.PlanID {
			return true
		}
	}
	return false
}

func (r PlanAllowed) Expression(t Target) clause.Expression {
	join, fk, id := t.planRows()
	return clause.Expr{
		SQL:  "EXISTS (SELECT 1 FROM ? WHERE ? = ? AND ? = ?)",
		Vars: []interface{}{join, fk, id, clause.Column{Table: t.JoinTable, Name: "plan_id"}, r.PlanID},
	}
}

func (r PlanAllowed) String() string { return fmt.Sprintf("plan=%d", r.PlanID) }

// RequiresViewer applies Rule only for an authenticated viewer (ViewerID != 0).
type RequiresViewer struct {
	ViewerID uint
	Rule     Rule
}

func (r RequiresViewer) Matches(item Item) bool {
	return r.ViewerID != 0 && r.Rule.Matches(item)
}

func (r RequiresViewer) Expression(t Target) clause.Expression {
	if r.ViewerID == 0 {
		return Never{}.Expression(t)
	}
	return r.Rule.Expression(t)
}

func (r RequiresViewer) String() string {
	return fmt.Sprintf("viewer(%d, %s)", r.ViewerID, r.Rule)
}

// AnyOf matches when at least one rule matches. An empty AnyOf matches nothing.
type AnyOf struct {
	Rules []Rule
}

func (r AnyOf) Matches(item Item) bool {
	for _, rule := range r.Rules {
		if rule.Matches(item) {
			return true
		}
	}
	return false
}

func (r AnyOf) Expression(t Target) clause.Expression {
	if len(r.Rules) == 0 {
		return Never{}.Expression(t)
	}
	exprs := make([]clause.Expression, 0, len(r.Rules))
	for _, rule := range r.Rules {
		exprs = append(exprs, rule.Expression(t))
	}
	return clause.Or(exprs...)
}

func (r AnyOf) String() string { return "any(" + joinRules(r.Rules) + ")" }

// AllOf matches when every rule matches. An empty AllOf matches everything.
type AllOf struct {
	Rules []Rule
}

func (r AllOf) Matches(item Item) bool {
	for _, rule := range r.Rules {
		if !rule.Matches(item) {
			return false
		}
	}
	return true
}

func (r AllOf) Expression(t Target) clause.Expression {
	if len(r.Rules) == 0 {
		return Always{}.Expression(t)
	}
	exprs := make([]clause.Expression, 0, len(r.Rules))
	for _, rule := range r.Rules {
		exprs = append(exprs, rule.Expression(t))
	}
	return clause.And(exprs...)
}

func (r AllOf) String() string { return "all(" + joinRules(r.Rules) + ")" }

// Any builds an AnyOf, dropping Never operands and collapsing to Always when one
// operand is Always.
func Any(rules ...Rule) Rule {
	kept := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		switch rule.(type) {
		case Always:
			return Always{}
		case Never:
			continue
		}
		kept = append(kept, rule)
	}
	switch len(kept) {
	case 0:
		return Never{}
	case 1:
		return kept[0]
	}
	return AnyOf{Rules: kept}
}

// All builds an AllOf, dropping Always operands and collapsing to Never when one
// operand is Never.
func All(rules ...Rule) Rule {
	kept := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		switch rule.(type) {
		case Never:
			return Never{}
		case Always:
			continue
		}
		kept = append(kept, rule)
	}
	switch len(kept) {
	case 0:
		return Always{}
	case 1:
		return kept[0]
	}
	return AllOf{Rules: kept}
}

func joinRules(rules []Rule) string {
	parts := make([]string, 0, len(rules))
	for _, r := range rules {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}
