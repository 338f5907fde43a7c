package provider

import (
	"time"

	"github.com/statssync/stats-sync/internal/models"
)

// FallbackProps returns a static prop slate for a sport, used when every
// provider fetch fails or returns nothing. Lines and prices mirror typical
// market offerings so downstream scoring and parlay construction still
// produce plausible output.
func FallbackProps(sport models.SportType, date string) []models.PlayerProp {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var props []models.PlayerProp
	switch sport {
	case models.SportNFL:
		props = nflFallbackProps()
	case models.SportMLB:
		props = mlbFallbackProps()
	}

	for i := range props {
		props[i].GameDate = date
		props[i].Source = "fallback"
	}
	return props
}

func nflFallbackProps() []models.PlayerProp {
	return []models.PlayerProp{
		{PlayerName: "Josh Allen", Team: "BUF", Opponent: "MIA", PropType: models.PropPassingYards, Line: 275.5, OverOdds: -110, UnderOdds: -110, Position: "QB"},
		{PlayerName: "Stefon Diggs", Team: "BUF", Opponent: "MIA", PropType: models.PropReceivingYards, Line: 85.5, OverOdds: -115, UnderOdds: -105, Position: "WR"},
		{PlayerName: "Derrick Henry", Team: "BAL", Opponent: "CIN", PropType: models.PropRushingYards, Line: 95.5, OverOdds: -120, UnderOdds: 100, Position: "RB"},
		{PlayerName: "Lamar Jackson", Team: "BAL", Opponent: "CIN", PropType: models.PropPassingYards, Line: 225.5, OverOdds: -105, UnderOdds: -115, Position: "QB"},
		{PlayerName: "Travis Kelce", Team: "KC", Opponent: "LV", PropType: models.PropReceivingYards, Line: 65.5, OverOdds: -110, UnderOdds: -110, Position: "TE"},
		{PlayerName: "Patrick Mahomes", Team: "KC", Opponent: "LV", PropType: models.PropPassingYards, Line: 285.5, OverOdds: -108, UnderOdds: -112, Position: "QB"},
		{PlayerName: "Cooper Kupp", Team: "LAR", Opponent: "SF", PropType: models.PropReceptions, Line: 6.5, OverOdds: -105, UnderOdds: -115, Position: "WR"},
		{PlayerName: "Christian McCaffrey", Team: "SF", Opponent: "LAR", PropType: models.PropRushingYards, Line: 110.5, OverOdds: -110, UnderOdds: -110, Position: "RB"},
		{PlayerName: "Tyreek Hill", Team: "MIA", Opponent: "BUF", PropType: models.PropReceivingYards, Line: 75.5, OverOdds: -105, UnderOdds: -115, Position: "WR"},
		{PlayerName: "Justin Jefferson", Team: "MIN", Opponent: "GB", PropType: models.PropReceptions, Line: 6.5, OverOdds: -108, UnderOdds: -112, Position: "WR"},
		{PlayerName: "Saquon Barkley", Team: "NYG", Opponent: "DAL", PropType: models.PropRushingYards, Line: 85.5, OverOdds: -110, UnderOdds: -110, Position: "RB"},
		{PlayerName: "CeeDee Lamb", Team: "DAL", Opponent: "NYG", PropType: models.PropReceivingYards, Line: 80.5, OverOdds: -108, UnderOdds: -112, Position: "WR"},
		{PlayerName: "Aaron Rodgers", Team: "NYJ", Opponent: "NE", PropType: models.PropPassingYards, Line: 245.5, OverOdds: -110, UnderOdds: -110, Position: "QB"},
		{PlayerName: "Davante Adams", Team: "LV", Opponent: "KC", PropType: models.PropReceptions, Line: 7.5, OverOdds: -120, UnderOdds: 100, Position: "WR"},
	}
}

func mlbFallbackProps() []models.PlayerProp {
	return []models.PlayerProp{
		{PlayerName: "Aaron Judge", Team: "NYY", Opponent: "BOS", PropType: models.PropHomeRuns, Line: 0.5, OverOdds: 180, UnderOdds: -220, Position: "OF"},
		{PlayerName: "Mookie Betts", Team: "LAD", Opponent: "SD", PropType: models.PropHits, Line: 1.5, OverOdds: -115, UnderOdds: -105, Position: "OF"},
		{PlayerName: "Ronald Acuña Jr.", Team: "ATL", Opponent: "NYM", PropType: models.PropHits, Line: 1.5, OverOdds: -120, UnderOdds: 100, Position: "OF"},
		{PlayerName: "Gerrit Cole", Team: "NYY", Opponent: "BOS", PropType: models.PropStrikeouts, Line: 7.5, OverOdds: -105, UnderOdds: -115, Position: "P"},
		{PlayerName: "Freddie Freeman", Team: "LAD", Opponent: "SD", PropType: models.PropRBIs, Line: 1.5, OverOdds: 140, UnderOdds: -170, Position: "1B"},
		{PlayerName: "Juan Soto", Team: "SD", Opponent: "LAD", PropType: models.PropHits, Line: 1.5, OverOdds: -108, UnderOdds: -112, Position: "OF"},
		{PlayerName: "Shane Bieber", Team: "CLE", Opponent: "DET", PropType: models.PropStrikeouts, Line: 8.5, OverOdds: -110, UnderOdds: -110, Position: "P"},
		{PlayerName: "Pete Alonso", Team: "NYM", Opponent: "ATL", PropType: models.PropHomeRuns, Line: 0.5, OverOdds: 150, UnderOdds: -180, Position: "1B"},
		{PlayerName: "Kyle Tucker", Team: "HOU", Opponent: "SEA", PropType: models.PropHits, Line: 1.5, OverOdds: -115, UnderOdds: -105, Position: "OF"},
		{PlayerName: "Vladimir Guerrero Jr.", Team: "TOR", Opponent: "TB", PropType: models.PropRBIs, Line: 0.5, OverOdds: -130, UnderOdds: 110, Position: "1B"},
		{PlayerName: "Fernando Tatis Jr.", Team: "SD", Opponent: "LAD", PropType: models.PropHomeRuns, Line: 0.5, OverOdds: 210, UnderOdds: -260, Position: "SS"},
	}
}
