package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/generation"
	"wellness-chatter/internal/history"
	"wellness-chatter/internal/router"
	"wellness-chatter/internal/storage"
)

const (
	consentAccept = "consent_accept"
	newSessionCmd = "new_session"

	guideSnippetLen = 300
)

const welcomeText = `Hi, I'm a wellness companion. I can listen, help you reflect on how you feel, and share techniques from wellness guides.

I'm not a therapist and I can't replace professional care. If you are in danger, please contact local emergency services or use /resources.`

const disclaimerText = `Before we talk: conversations are kept in memory for this session only, and anonymous mood scores are logged to improve the service. Tap "I understand" to continue.`

const helpText = `/new - close this conversation and start fresh
/mood - how your recent messages have felt
/resources - crisis lines and support contacts
/guides <question> - search the wellness guides
/sentiment - show or hide the mood badge on replies`

const (
	notAllowedText    = "Sorry, this bot is private."
	guidesMissingText = "The wellness guide library isn't available right now."
	guidesNoMatchText = "I couldn't find anything about that in the guides."
	followUpFooter    = "I'm still here with you. If things feel unsafe, the crisis lines are always open:\n"
	highDistressNote  = "💙 It sounds like things are really heavy right now. Take a slow breath with me; we can go one step at a time."
	retrievalCaption  = "📚 Response enhanced with wellness guides"
	reflectionPrefix  = "💭 "
	adminOnlyText     = "❌ This command is for the administrator only."
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || !b.isAllowed(msg.From.ID) {
		b.sendMessage(msg.Chat.ID, notAllowedText)
		return
	}

	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, welcomeText)
		if !b.hasConsent(msg.From.ID) {
			b.askConsent(msg.Chat.ID)
		}
	case "help":
		b.sendMessage(msg.Chat.ID, helpText)
	case "new":
		b.handleNewSession(ctx, msg.Chat.ID, msg.From.ID)
	case "mood":
		b.sendMessage(msg.Chat.ID, moodReport(b.chat(msg.Chat.ID).session.Memory()))
	case "resources":
		b.sendMessage(msg.Chat.ID, "🆘 Support contacts:\n"+crisis.FormatResources(b.screen.Resources()))
	case "guides":
		b.handleGuides(ctx, msg.Chat.ID, strings.TrimSpace(msg.CommandArguments()))
	case "sentiment":
		st := b.chat(msg.Chat.ID)
		b.mu.Lock()
		st.showSentiment = !st.showSentiment
		on := st.showSentiment
		b.mu.Unlock()
		if on {
			b.sendMessage(msg.Chat.ID, "Mood badge on.")
		} else {
			b.sendMessage(msg.Chat.ID, "Mood badge off.")
		}
	case "report":
		if msg.From.ID != b.adminUserID {
			b.sendMessage(msg.Chat.ID, adminOnlyText)
			return
		}
		if err := b.generateDailyReport(ctx, msg.Chat.ID); err != nil {
			b.logger.Error("report generation failed", "err", err)
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Report failed: %v", err))
		}
	default:
		b.sendMessage(msg.Chat.ID, helpText)
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	if !b.isAllowed(msg.From.ID) {
		b.logger.Warn("unauthorized access attempt", "user", msg.From.ID, "username", msg.From.UserName)
		b.sendMessage(msg.Chat.ID, notAllowedText)
		return
	}

	// Crisis screening runs before the consent gate.
	if !b.hasConsent(msg.From.ID) {
		if v := b.screen.Evaluate(msg.Text); v.IsCrisis {
			b.sendMessage(msg.Chat.ID, v.Response)
			b.record(storage.Event{
				Kind:           storage.KindMessage,
				ChatID:         msg.Chat.ID,
				UserID:         msg.From.ID,
				UserMessage:    msg.Text,
				CrisisDetected: true,
				Severity:       v.Severity,
			})
			return
		}
		b.askConsent(msg.Chat.ID)
		return
	}

	st := b.chat(msg.Chat.ID)
	b.sendTyping(msg.Chat.ID)
	res := st.session.Process(ctx, msg.Text)

	b.mu.Lock()
	reply := b.composeReply(st, msg.Text, res)
	b.mu.Unlock()
	b.sendMessage(msg.Chat.ID, reply)
	b.record(messageEvent(msg, res))

	if !res.CrisisDetected && b.reflection != nil && b.reflection.ShouldReflect(st.session.Messages()) {
		b.sendReflection(ctx, msg.Chat.ID, msg.From.ID, st.session.Memory())
	}
}

// composeReply decorates the routed response for chat. Callers hold b.mu.
func (b *Bot) composeReply(st *chatState, input string, res router.Result) string {
	if res.CrisisDetected {
		st.crisisActive = true
		return res.Response
	}

	parts := []string{res.Response}
	if res.UsedRetrieval {
		parts = append(parts, retrievalCaption)
	}
	if st.crisisActive {
		if b.screen.IsFollowUp(input) {
			parts = append(parts, followUpFooter+crisis.FormatResources(b.screen.Resources()))
		} else {
			st.crisisActive = false
		}
	}
	if !res.Degraded && sentimentIsHighDistress(res) {
		parts = append(parts, highDistressNote)
	}
	if st.showSentiment {
		parts = append(parts, sentimentBadge(res))
	}
	return strings.Join(parts, "\n\n")
}

func (b *Bot) sendReflection(ctx context.Context, chatID, userID int64, mem *history.Window) {
	text, err := b.reflection.Reflect(ctx, mem.Messages())
	if err != nil {
		b.logger.Warn("reflection skipped", "chat", chatID, "err", err)
		return
	}
	out := tgbotapi.NewMessage(chatID, reflectionPrefix+text)
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌱 Start fresh", newSessionCmd),
		),
	)
	if _, err := b.s.Send(out); err != nil {
		b.logger.Error("failed to send reflection", "chat", chatID, "err", err)
	}
	b.record(storage.Event{
		Kind:              storage.KindReflection,
		ChatID:            chatID,
		UserID:            userID,
		AssistantResponse: text,
	})
}

func (b *Bot) handleNewSession(ctx context.Context, chatID, userID int64) {
	st := b.chat(chatID)
	mem := st.session.Memory()
	closing := generation.ShortSessionClosing
	if b.reflection != nil {
		closing = b.reflection.SessionSummary(ctx, mem.Messages(), mem.EmotionalSummary())
	}

	b.sendMessage(chatID, closing)
	b.record(storage.Event{
		Kind:              storage.KindSummary,
		ChatID:            chatID,
		UserID:            userID,
		AssistantResponse: closing,
	})

	b.resetChat(chatID)
	b.sendMessage(chatID, "✨ Fresh start. What's on your mind?")
}

func (b *Bot) handleGuides(ctx context.Context, chatID int64, query string) {
	if query == "" {
		b.sendMessage(chatID, "Usage: /guides <question>, for example /guides breathing for panic")
		return
	}
	if b.guides == nil || !b.guides.Available() {
		b.sendMessage(chatID, guidesMissingText)
		return
	}

	b.sendTyping(chatID)
	passages, err := b.guides.Retrieve(ctx, query)
	if err != nil {
		b.logger.Error("guide search failed", "query", query, "err", err)
		b.sendMessage(chatID, guidesMissingText)
		return
	}
	if len(passages) == 0 {
		b.sendMessage(chatID, guidesNoMatchText)
		return
	}

	var bld strings.Builder
	bld.WriteString("📚 From the wellness guides:\n")
	for i, p := range passages {
		fmt.Fprintf(&bld, "\n[%d] %s, page %d\n%s\n", i+1, p.Source, p.Page, snippet(p.Content, guideSnippetLen))
	}
	b.sendMessage(chatID, bld.String())
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		return
	}
	switch cb.Data {
	case consentAccept:
		if b.consent != nil {
			if err := b.consent.Accept(cb.From.ID, cb.From.UserName); err != nil {
				b.logger.Error("failed to store consent", "user", cb.From.ID, "err", err)
			}
		}
		b.sendMessage(cb.Message.Chat.ID, "Thank you. I'm listening, tell me how you are doing.")
	case newSessionCmd:
		b.handleNewSession(context.Background(), cb.Message.Chat.ID, cb.From.ID)
	}
}

func (b *Bot) hasConsent(userID int64) bool {
	return b.consent == nil || b.consent.Accepted(userID)
}

func (b *Bot) askConsent(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, disclaimerText)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("I understand", consentAccept),
		),
	)
	if _, err := b.s.Send(msg); err != nil {
		b.logger.Error("failed to send disclaimer", "chat", chatID, "err", err)
	}
}

// moodReport describes recent sentiment without exposing raw scores as advice.
func moodReport(mem *history.Window) string {
	avg, ok := mem.AveragePolarity()
	if !ok {
		return "We haven't talked enough yet for me to notice a pattern. How are you feeling today?"
	}

	var bld strings.Builder
	fmt.Fprintf(&bld, "Recently your messages have felt %s (average %.2f).\n", mem.EmotionalSummary(), avg)

	seen := make(map[string]bool)
	var emotions []string
	for _, e := range mem.EmotionalLog() {
		for _, em := range e.Sentiment.Emotions {
			if !seen[string(em)] {
				seen[string(em)] = true
				emotions = append(emotions, string(em))
			}
		}
	}
	if len(emotions) > 0 {
		fmt.Fprintf(&bld, "I noticed: %s.", strings.Join(emotions, ", "))
	}
	return strings.TrimSpace(bld.String())
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
