package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wellness-chatter/internal/router"
	"wellness-chatter/internal/sentiment"
	"wellness-chatter/internal/storage"
)

func sentimentIsHighDistress(res router.Result) bool {
	return sentiment.IsHighDistress(res.Sentiment)
}

// sentimentBadge renders e.g. "😔 Mood: somewhat negative (anxiety, sadness)".
func sentimentBadge(res router.Result) string {
	s := res.Sentiment
	badge := fmt.Sprintf("%s Mood: %s", sentiment.Emoji(s), s.Label)
	if len(s.Emotions) > 0 {
		badge += " (" + strings.Join(emotionNames(s.Emotions), ", ") + ")"
	}
	return badge
}

func emotionNames(emotions []sentiment.Emotion) []string {
	names := make([]string, len(emotions))
	for i, e := range emotions {
		names[i] = string(e)
	}
	return names
}

func messageEvent(msg *tgbotapi.Message, res router.Result) storage.Event {
	return storage.Event{
		Kind:              storage.KindMessage,
		ChatID:            msg.Chat.ID,
		UserID:            msg.From.ID,
		UserMessage:       msg.Text,
		AssistantResponse: res.Response,
		Polarity:          res.Sentiment.Polarity,
		Label:             string(res.Sentiment.Label),
		Emotions:          emotionNames(res.Sentiment.Emotions),
		CrisisDetected:    res.CrisisDetected,
		Severity:          res.Severity,
		UsedRetrieval:     res.UsedRetrieval,
		Degraded:          res.Degraded,
	}
}
