package main

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v3"
)

// notifier posts catalog events to telegram chats. A nil notifier drops every message.
type notifier struct {
	bot     *tele.Bot
	chatIDs []int64
}

func newNotifier(token string, chatIDs []int64) (*notifier, error) {
	if token == "" || len(chatIDs) == 0 {
		return nil, nil
	}

	bot, err := tele.NewBot(tele.Settings{
		Token: token,
	})
	if err != nil {
		return nil, err
	}

	return &notifier{
		bot:     bot,
		chatIDs: chatIDs,
	}, nil
}

func (n *notifier) sendMessage(msg string) {
	if n == nil {
		return
	}

	for _, id := range n.chatIDs {
		_, err := n.bot.Send(&tele.Chat{ID: id}, msg)
		if err != nil {
			slog.Error("error while sending to telegram", "error", err)
		}
	}
}

func (n *notifier) songAdded(song *Song, link string, withLyrics bool) {
	msg := fmt.Sprintf("Added song %s.\n\n%s", song, link)
	if !withLyrics {
		msg = fmt.Sprintf("Added song %s, no lyrics found.\n\n%s", song, link)
	}
	n.sendMessage(msg)
}
