package passing

import "github.com/riskibarqy/pitchmetrics/internal/domain/event"

// ScopeKind labels which constructor produced a catalog. The kind and key
// are display metadata only; every scope shares the same metric logic over
// its filtered rows.
type ScopeKind string

const (
	ScopeCompetition ScopeKind = "competition"
	ScopeTeam        ScopeKind = "team"
	ScopeMatch       ScopeKind = "match"
	ScopePlayer      ScopeKind = "player"
)

// NewCompetition builds a catalog over the full dataset.
func NewCompetition(ds event.Dataset, cfg Config) *Catalog {
	return newCatalog(ScopeCompetition, "", ds, cfg)
}

// NewTeam builds a catalog over one team's rows.
func NewTeam(ds event.Dataset, team string, cfg Config) *Catalog {
	return newCatalog(ScopeTeam, team, ds.ByTeam(team), cfg)
}

// NewMatch builds a catalog over one match, addressed by numeric id or by
// match name.
func NewMatch(ds event.Dataset, key string, cfg Config) *Catalog {
	return newCatalog(ScopeMatch, key, ds.ByMatchKey(key), cfg)
}

// NewPlayer builds a catalog over one player's rows. Per-90 lookups default
// to this player when the filter argument is empty.
func NewPlayer(ds event.Dataset, player string, cfg Config) *Catalog {
	return newCatalog(ScopePlayer, player, ds.ByPlayer(player), cfg)
}
