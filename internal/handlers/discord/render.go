package discord

import (
	"github.com/KirkDiggler/pickup/internal/platform"
	"github.com/bwmarrin/discordgo"
)

const (
	colorDefault = 0x00ff00
	colorError   = 0xff0000
)

// toEmbed converts a platform embed, defaulting to the green accent
func toEmbed(embed *platform.Embed) *discordgo.MessageEmbed {
	if embed == nil {
		return nil
	}

	color := embed.Color
	if color == 0 {
		color = colorDefault
	}

	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       color,
	}
	if embed.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	for _, field := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	return out
}

func embedsOf(msg *platform.Message) []*discordgo.MessageEmbed {
	if msg == nil || msg.Embed == nil {
		return []*discordgo.MessageEmbed{}
	}
	return []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
}

func toMessageSend(msg *platform.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Embeds: embedsOf(msg),
	}
	if msg != nil {
		send.Content = msg.Content
	}
	return send
}

// toMessageEdit replaces both content and embeds so a page never keeps stale parts
func toMessageEdit(channelID, messageID string, msg *platform.Message) *discordgo.MessageEdit {
	content := ""
	if msg != nil {
		content = msg.Content
	}
	embeds := embedsOf(msg)

	return &discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Content: &content,
		Embeds:  &embeds,
	}
}

// toResponseData renders a command response
func toResponseData(resp *Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content: resp.Content,
	}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{toEmbed(resp.Embed)}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}
