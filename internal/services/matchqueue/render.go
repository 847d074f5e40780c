package matchqueue

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/pickup/internal/models"
	"github.com/KirkDiggler/pickup/internal/platform"
)

const (
	colorRollCall = 0xF1C40F
	colorDraft    = 0x3498DB
	colorTeams    = 0x2ECC71
)

func rollCallPage(rc *RollCall) *platform.Message {
	fields := make([]platform.EmbedField, 0, len(rc.players))
	for _, p := range rc.players {
		value := presenceMissing
		if rc.IsPresent(p.ID) {
			value = presencePresent
		}
		fields = append(fields, platform.EmbedField{
			Name:   p.Label(),
			Value:  value,
			Inline: true,
		})
	}

	return &platform.Message{
		Embed: &platform.Embed{
			Title:       "Roll Call",
			Description: "Everyone must be present before we pick teams",
			Footer:      "React with any emoji when you are ready",
			Color:       colorRollCall,
			Fields:      fields,
		},
	}
}

func teamFields(d *Draft) []platform.EmbedField {
	return []platform.EmbedField{
		{
			Name:   "Team " + d.Captain1().Label(),
			Value:  roster(d.team1),
			Inline: true,
		},
		{
			Name:   "Team " + d.Captain2().Label(),
			Value:  roster(d.team2),
			Inline: true,
		},
	}
}

func draftPage(d *Draft) *platform.Message {
	fields := teamFields(d)

	undrafted := d.Undrafted()
	if len(undrafted) > 0 {
		lines := make([]string, len(undrafted))
		for i, p := range undrafted {
			lines[i] = fmt.Sprintf("%s -> %s", PickSymbols[i], p.Label())
		}
		fields = append(fields, platform.EmbedField{
			Name:  "Player Pool",
			Value: strings.Join(lines, "\n"),
		})
	}

	captain, _ := d.CurrentCaptain()
	return &platform.Message{
		Embed: &platform.Embed{
			Title:       "Choose Teams",
			Description: "The captains are picking their teams now",
			Footer:      fmt.Sprintf("%s should react with the player they wish to pick", captain.Label()),
			Color:       colorDraft,
			Fields:      fields,
		},
	}
}

func finalPage(d *Draft) *platform.Message {
	return &platform.Message{
		Embed: &platform.Embed{
			Title:       "Chosen Teams",
			Description: "Head to your team chat, or use /queue go to get moved there",
			Color:       colorTeams,
			Fields:      teamFields(d),
		},
	}
}

func roster(team []*models.PlayerRecord) string {
	names := make([]string, len(team))
	for i, p := range team {
		names[i] = p.Label()
	}
	return strings.Join(names, "\n")
}
