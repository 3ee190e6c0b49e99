// Package notify delivers operator alerts to Telegram: a send-only channel
// for conditions that need attention before the next visit to the console
// (playback failures, auto-removed rules, missing strike files).
package notify

import (
	"context"
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	logx "carillon/pkg/logx"
)

type Config struct {
	Token  string
	ChatID int64
}

type Telegram struct {
	bot  *tele.Bot
	chat tele.ChatID
	log  logx.Logger

	queue chan string
}

// NewTelegram builds a send-only bot. No poller is started; the bot only
// pushes messages to the configured chat.
func NewTelegram(cfg Config, log logx.Logger) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is not set")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:   b,
		chat:  tele.ChatID(cfg.ChatID),
		log:   log,
		queue: make(chan string, 64),
	}, nil
}

// Run drains the alert queue until ctx is cancelled. Sends happen here so
// Alert never blocks the caller (the logging path).
func (t *Telegram) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-t.queue:
			if _, err := t.bot.Send(t.chat, msg, &tele.SendOptions{DisableWebPagePreview: true}); err != nil {
				t.log.Warn("telegram alert send failed", logx.Err(err))
			}
		}
	}
}

// Alert enqueues a message, dropping it when the queue is full. An alert
// channel must never stall the playout or logging paths.
func (t *Telegram) Alert(msg string) {
	select {
	case t.queue <- msg:
	default:
	}
}
