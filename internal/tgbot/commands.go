package tgbot

import (
	"context"
	"time"
)

type Command interface {
	Run(ctx context.Context, chatID int64, args string) (string, error)
	Help() string
}

type Commands struct {
	list map[string]Command
}

func NewCommands(
	a Analyzer,
	s Snoozer,
	now func() time.Time,
	subFn func(id int64),
	unsubFn func(id int64),
) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"stats": &StatsCommand{
				analyzer: a,
				now:      now,
			},
			"sub": &SubCommand{
				sub: subFn,
			},
			"unsub": &UnsubCommand{
				unsub: unsubFn,
			},
			"snooze": &SnoozeCommand{
				snoozer: s,
			},
			"unsnooze": &UnsnoozeCommand{
				snoozer: s,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(ctx context.Context, chatID int64, cmd string, args string) (string, error) {
	command, ok := uc.list[cmd]
	if !ok {
		return "", ErrBadRequest
	}
	return command.Run(ctx, chatID, args)
}
