package tgbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/config"
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/report"
	"github.com/goserg/opponentanalyzer/internal/service"
)

var ErrBadRequest = errors.New("unknown command, see /help")

// Sender is the part of the telegram API the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, subject domain.Subject) (domain.Report, error)
}

type Snoozer interface {
	Snooze(ctx context.Context, d time.Duration) (time.Time, error)
	Unsnooze(ctx context.Context) error
}

type Bot struct {
	api    Sender
	client *tgbotapi.BotAPI
	log    *logrus.Entry
	now    func() time.Time

	// ctx ends polling; cancel is called by Stop
	ctx    context.Context
	cancel context.CancelFunc

	subs     mapset.Set[int64]
	commands *Commands
}

var _ service.Sink = (*Bot)(nil)

func New(cfg config.TgBot, debug bool, a Analyzer, s Snoozer, l *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	api.Debug = debug
	_, err = api.GetMe()
	if err != nil {
		return nil, err
	}
	b := newBot(api, a, s, l)
	b.client = api
	return b, nil
}

func newBot(api Sender, a Analyzer, s Snoozer, l *logrus.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{
		api:    api,
		log:    l.WithField("from", "tgbot"),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		subs:   mapset.NewSet[int64](),
	}
	b.commands = NewCommands(
		a,
		s,
		func() time.Time {
			return b.now()
		},
		func(id int64) {
			b.subs.Add(id)
		},
		func(id int64) {
			b.subs.Remove(id)
		},
	)
	return b
}

// Run polls updates until Stop. It returns at once if Stop came first.
func (b *Bot) Run() {
	ctx := b.ctx
	if ctx.Err() != nil {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	b.log.Info("bot started")

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleMessage(ctx, update)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	log := b.log.WithFields(logrus.Fields{
		"chat_id": update.Message.Chat.ID,
		"text":    update.Message.Text,
	})

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	text, err := b.commands.RunCommand(ctx, update.Message.Chat.ID, update.Message.Command(), update.Message.CommandArguments())
	if err != nil {
		log.WithError(err).Debug("command failed")
		text = err.Error()
	}
	msg.Text = text
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).Error("send error")
	}
}

func (b *Bot) Stop() {
	b.cancel()
}

// Publish notifies subscribers about a new report.
func (b *Bot) Publish(r domain.Report) {
	text := report.Text(r, b.now())
	for _, chatID := range b.subs.ToSlice() {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := b.api.Send(msg); err != nil {
			b.log.WithError(err).WithField("chat_id", chatID).Error("notification failed")
		}
	}
}
