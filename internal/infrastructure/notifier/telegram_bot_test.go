package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"skin_market/internal/domain/entity"
)

type senderMock struct {
	sent []*telego.SendMessageParams
	err  error
}

func (m *senderMock) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	m.sent = append(m.sent, params)
	return &telego.Message{}, m.err
}

const snapshotData = `[
	{"name":"AK-47 | Redline","buff_id":1,"buffPrice":900,"marketPrice":1100,"profitPercent":12.5,"profitRub":110},
	{"name":"Glock <Fade>","buff_id":2,"buffPrice":100,"marketPrice":130,"profitPercent":25,"profitRub":20},
	{"name":"Not listed","buff_id":3,"profitPercent":-999},
	{"name":"Low volume","buff_id":4,"profitPercent":-998},
	{"name":"Loss","buff_id":5,"profitPercent":-3}
]`

func testRun() entity.RefreshRun {
	started := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	run := entity.RefreshRun{ID: "run", StartedAt: started}
	run.Succeed(started.Add(90*time.Second), len(snapshotData), 5)

	return run
}

func TestTelegramBotNotifyRefresh(t *testing.T) {
	rq := require.New(t)

	sender := &senderMock{}
	bot := newTelegramBot(sender, 42).WithTop(2, 0)

	rq.NoError(bot.NotifyRefresh(context.Background(), testRun(), entity.Snapshot{Data: snapshotData}))
	rq.Len(sender.sent, 1)

	msg := sender.sent[0]
	rq.Equal(telego.ModeHTML, msg.ParseMode)
	rq.Equal(int64(42), msg.ChatID.ID)
	rq.Contains(msg.Text, "5 items in 1m30s")
	rq.Contains(msg.Text, "1. <a href=\"https://buff.163.com/goods/2\">Glock &lt;Fade&gt;</a>")
	rq.Contains(msg.Text, "2. <a href=\"https://buff.163.com/goods/1\">AK-47 | Redline</a>")
	rq.NotContains(msg.Text, "Not listed")
	rq.NotContains(msg.Text, "Low volume")
	rq.NotContains(msg.Text, "Loss")
}

func TestTelegramBotNotifyRefreshNothingProfitable(t *testing.T) {
	rq := require.New(t)

	sender := &senderMock{}
	bot := newTelegramBot(sender, 42).WithTop(5, 50)

	rq.NoError(bot.NotifyRefresh(context.Background(), testRun(), entity.Snapshot{Data: snapshotData}))
	rq.Empty(sender.sent)
}

func TestTelegramBotNotifyRefreshErrors(t *testing.T) {
	rq := require.New(t)

	sender := &senderMock{err: errors.New("chat not found")}
	bot := newTelegramBot(sender, 42)

	rq.ErrorContains(bot.NotifyRefresh(context.Background(), testRun(), entity.Snapshot{Data: snapshotData}), "chat not found")
	rq.Error(bot.NotifyRefresh(context.Background(), testRun(), entity.Snapshot{Data: `{`}))
}
