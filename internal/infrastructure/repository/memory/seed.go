package memory

import (
	"github.com/riskibarqy/scout-core/internal/domain/competition"
	"github.com/riskibarqy/scout-core/internal/domain/team"
	"github.com/riskibarqy/scout-core/internal/platform/textnorm"
)

const (
	CompetitionIDPremierLeague = "eng-premier-league"
	CompetitionIDEredivisie    = "ned-eredivisie"
	CompetitionIDLiga1         = "idn-liga-1"
)

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{ID: CompetitionIDPremierLeague, Name: "Premier League", CountryCode: "GB", Tier: 1},
		{ID: CompetitionIDEredivisie, Name: "Eredivisie", CountryCode: "NL", Tier: 2},
		{ID: CompetitionIDLiga1, Name: "Liga 1", CountryCode: "ID", Tier: 5},
	}
}

func SeedTeams() []team.Team {
	teams := []team.Team{
		{ID: "eng-ars", CompetitionID: CompetitionIDPremierLeague, Name: "Arsenal FC", Short: "ARS"},
		{ID: "eng-liv", CompetitionID: CompetitionIDPremierLeague, Name: "Liverpool FC", Short: "LIV"},
		{ID: "ned-aja", CompetitionID: CompetitionIDEredivisie, Name: "AFC Ajax", Short: "AJA"},
		{ID: "ned-psv", CompetitionID: CompetitionIDEredivisie, Name: "PSV Eindhoven", Short: "PSV"},
		{ID: "idn-persija", CompetitionID: CompetitionIDLiga1, Name: "Persija Jakarta", Short: "PSJ"},
		{ID: "idn-persib", CompetitionID: CompetitionIDLiga1, Name: "Persib Bandung", Short: "PSB"},
	}
	for i := range teams {
		teams[i].NormalizedName = textnorm.NormalizeTeamName(teams[i].Name)
	}
	return teams
}
