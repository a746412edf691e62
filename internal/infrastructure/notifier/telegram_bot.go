package notifier

import (
	"cmp"
	"context"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"skin_market/internal/domain/entity"
	"skin_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const defaultTopN = 5

type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot posts a summary of every successful refresh to one chat.
type TelegramBot struct {
	bot       messageSender
	chatID    int64
	topN      int
	minProfit float64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return newTelegramBot(bot, chatID), nil
}

func newTelegramBot(bot messageSender, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
		topN:   defaultTopN,
	}
}

// WithTop limits the message to n items with a profit of at least minProfit
// percent.
func (b *TelegramBot) WithTop(n int, minProfit float64) *TelegramBot {
	if n > 0 {
		b.topN = n
	}
	b.minProfit = minProfit
	return b
}

func (b *TelegramBot) NotifyRefresh(ctx context.Context, run entity.RefreshRun, snapshot entity.Snapshot) error {
	var items []entity.Item
	if err := json.UnmarshalFromString(snapshot.Data, &items); err != nil {
		return fmt.Errorf("json.UnmarshalFromString: %w", err)
	}

	top := b.top(items)
	if len(top) == 0 {
		logger(ctx).Debug("nothing to notify", slog.String(logx.FieldRunID, run.ID))
		return nil
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		formatRefresh(run, len(items), top),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) top(items []entity.Item) []entity.Item {
	profitable := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if item.HasProfit() && item.ProfitPercent >= b.minProfit {
			profitable = append(profitable, item)
		}
	}

	slices.SortStableFunc(profitable, func(a, b entity.Item) int {
		return cmp.Compare(b.ProfitPercent, a.ProfitPercent)
	})

	if len(profitable) > b.topN {
		profitable = profitable[:b.topN]
	}

	return profitable
}

func formatRefresh(run entity.RefreshRun, total int, top []entity.Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 <b>Analysis updated</b>: %d items in %s\n\n", total, run.Duration().Round(100*time.Millisecond))

	for i, item := range top {
		fmt.Fprintf(
			&sb,
			"%d. <a href=\"https://buff.163.com/goods/%d\">%s</a>\n"+
				"   Buff %.2f ₽ → Market %.2f ₽ | <b>%.1f%%</b> (%.2f ₽)\n",
			i+1,
			item.BuffID,
			html.EscapeString(item.Name),
			item.BuffPrice,
			item.MarketPrice,
			item.ProfitPercent,
			item.ProfitRub,
		)
	}

	return sb.String()
}
