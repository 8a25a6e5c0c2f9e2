package tgbot

import "context"

type SubCommand struct {
	sub func(int64)
}

func (c *SubCommand) Run(_ context.Context, chatID int64, _ string) (string, error) {
	c.sub(chatID)
	return "Subscribed to new opponent reports, to stop: /unsub", nil
}

func (c *SubCommand) Help() string {
	return "Receive a report for every new opponent"
}

type UnsubCommand struct {
	unsub func(int64)
}

func (c *UnsubCommand) Run(_ context.Context, chatID int64, _ string) (string, error) {
	c.unsub(chatID)
	return "Unsubscribed", nil
}

func (c *UnsubCommand) Help() string {
	return "Stop opponent reports"
}
