package memory

import (
	"time"

	"github.com/riskibarqy/career-league/internal/domain/league"
	"github.com/riskibarqy/career-league/internal/domain/player"
	"github.com/shopspring/decimal"
)

const (
	ConfederationIDEurope   = "conf-europe"
	LeagueIDPremierCareer   = "eng-premier-career"
	LeagueIDLaLigaCareer    = "esp-laliga-career"
	LeagueIDLiga1Standalone = "idn-liga-1-career"
)

func defaultEconomy() league.EconomySettings {
	return league.EconomySettings{
		RosterCap:            25,
		StartingBalance:      50_000_000,
		FineMultiplier:       decimal.RequireFromString("2.0"),
		MinSalePercent:       50,
		BlockNegativeBalance: true,
		AntiSnipeWindow:      2 * time.Minute,
	}
}

// SeedLeagues returns two confederation leagues sharing a player scope and one standalone league.
func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDPremierCareer, Name: "Premier Career League", ConfederationID: ConfederationIDEurope, Economy: defaultEconomy()},
		{ID: LeagueIDLaLigaCareer, Name: "LaLiga Career", ConfederationID: ConfederationIDEurope, Economy: defaultEconomy()},
		{ID: LeagueIDLiga1Standalone, Name: "Liga 1 Career", Economy: defaultEconomy()},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "gk-01", Name: "Andritany Ardhiyasa", Position: player.PositionGoalkeeper, Value: 900_000, Wage: 9_000},
		{ID: "gk-02", Name: "Teja Paku Alam", Position: player.PositionGoalkeeper, Value: 850_000, Wage: 8_500},
		{ID: "def-01", Name: "Hansamu Yama", Position: player.PositionDefender, Value: 880_000, Wage: 8_800},
		{ID: "def-02", Name: "Nick Kuipers", Position: player.PositionDefender, Value: 920_000, Wage: 9_200},
		{ID: "def-03", Name: "Dusan Stevanovic", Position: player.PositionDefender, Value: 840_000, Wage: 8_400},
		{ID: "mid-01", Name: "Maciej Gajos", Position: player.PositionMidfielder, Value: 980_000, Wage: 9_800},
		{ID: "mid-02", Name: "Marc Klok", Position: player.PositionMidfielder, Value: 990_000, Wage: 9_900},
		{ID: "mid-03", Name: "Bruno Moreira", Position: player.PositionMidfielder, Value: 950_000, Wage: 9_500},
		{ID: "fwd-01", Name: "Gustavo Almeida", Position: player.PositionForward, Value: 1_050_000, Wage: 10_500},
		{ID: "fwd-02", Name: "David da Silva", Position: player.PositionForward, Value: 1_080_000, Wage: 10_800},
	}
}
