package services

import (
	"fmt"
	"strings"

	"github.com/jstittsworth/gameday-tracker/internal/models"
)

// SummaryGenerator produces a display-ready text block for one game. The
// production deployment may back this with a language model; the default
// implementation is template-based.
type SummaryGenerator interface {
	GameSummary(game models.Game) (string, error)
}

// TemplateSummaryGenerator renders summaries from static templates. It is the
// stand-in for an LLM-backed generator and never calls out of process.
type TemplateSummaryGenerator struct{}

func NewTemplateSummaryGenerator() *TemplateSummaryGenerator {
	return &TemplateSummaryGenerator{}
}

func (g *TemplateSummaryGenerator) GameSummary(game models.Game) (string, error) {
	var b strings.Builder

	switch game.Status {
	case models.StatusFinished:
		winner, loser, ws, ls := finalSides(game)
		fmt.Fprintf(&b, "**Final**: %s defeated %s %d-%d.\n", winner, loser, ws, ls)
		if game.WinningPitcher != "" && game.LosingPitcher != "" {
			fmt.Fprintf(&b, "\n**W**: %s  \n**L**: %s\n", game.WinningPitcher, game.LosingPitcher)
			if game.SavePitcher != "" {
				fmt.Fprintf(&b, "**S**: %s\n", game.SavePitcher)
			}
		}
		if len(game.Highlights) > 0 {
			b.WriteString("\nKey moments:\n")
			for i, h := range game.Highlights {
				if i == 3 {
					break
				}
				fmt.Fprintf(&b, "- (%s) %s\n", h.Timestamp, h.Description)
			}
		}
	case models.StatusLive:
		fmt.Fprintf(&b, "**Live**: %s %d, %s %d", game.AwayTeam, game.AwayScore, game.HomeTeam, game.HomeScore)
		if game.Period != "" {
			fmt.Fprintf(&b, " (%s %s)", game.GameClock, game.Period)
		}
		b.WriteString(".\n")
	case models.StatusPostponed:
		fmt.Fprintf(&b, "%s at %s has been postponed.\n", game.AwayTeam, game.HomeTeam)
	case models.StatusDelayed:
		fmt.Fprintf(&b, "%s at %s is delayed.\n", game.AwayTeam, game.HomeTeam)
	default:
		fmt.Fprintf(&b, "**Preview**: %s visit %s today at %s.\n", game.AwayTeam, game.HomeTeam, game.Time)
	}

	return b.String(), nil
}

func finalSides(game models.Game) (winner, loser string, winScore, loseScore int) {
	if game.HomeScore >= game.AwayScore {
		return game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore
	}
	return game.AwayTeam, game.HomeTeam, game.AwayScore, game.HomeScore
}
