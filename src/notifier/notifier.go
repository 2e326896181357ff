// Package notifier relays governance events from the shared redis stream to
// a Discord channel.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/Hitanshuser50/daoconnect/src/data"
)

type Notifier struct {
	session   *discordgo.Session
	channelID string
	rdb       *redis.Client
}

func New(token, channelID string, rdb *redis.Client) (*Notifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("discord open: %w", err)
	}
	return &Notifier{session: session, channelID: channelID, rdb: rdb}, nil
}

// Run consumes the event stream until the context is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	defer n.session.Close()

	lastID := "$"
	for {
		if ctx.Err() != nil {
			return
		}
		msgs, next, err := data.ReadEvents(ctx, n.rdb, lastID, 10*time.Second)
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				lastID = next
				continue
			}
			log.Printf("notifier read: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}
		lastID = next
		for _, msg := range msgs {
			n.announce(msg.Values)
		}
	}
}

func (n *Notifier) announce(values map[string]interface{}) {
	str := func(key string) string {
		if v, ok := values[key].(string); ok {
			return v
		}
		return ""
	}

	var embed *discordgo.MessageEmbed
	switch str("type") {
	case "dao_created":
		embed = &discordgo.MessageEmbed{
			Title:       "New DAO",
			Description: str("name"),
			Color:       0x5865f2,
		}
	case "proposal_created":
		embed = &discordgo.MessageEmbed{
			Title:       "New proposal",
			Description: str("title"),
			Color:       0x57f287,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "DAO", Value: str("daoId"), Inline: true},
			},
		}
	case "vote_cast":
		embed = &discordgo.MessageEmbed{
			Title: "Vote cast",
			Color: 0xfee75c,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Proposal", Value: str("proposalId"), Inline: true},
				{Name: "Choice", Value: str("choice"), Inline: true},
				{Name: "For", Value: str("votesFor"), Inline: true},
				{Name: "Against", Value: str("votesAgainst"), Inline: true},
			},
		}
	case "proposal_closed":
		embed = &discordgo.MessageEmbed{
			Title: "Voting closed",
			Color: 0xed4245,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Proposal", Value: str("proposalId"), Inline: true},
				{Name: "Outcome", Value: str("status"), Inline: true},
			},
		}
	default:
		return
	}

	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Printf("notifier send: %v", err)
	}
}
