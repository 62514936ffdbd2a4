package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wellness-chatter/internal/consent"
	"wellness-chatter/internal/crisis"
	"wellness-chatter/internal/generation"
	"wellness-chatter/internal/history"
	"wellness-chatter/internal/knowledge"
	"wellness-chatter/internal/router"
	"wellness-chatter/internal/storage"
)

// GuideSearcher is the read side of the wellness guide index.
type GuideSearcher interface {
	Available() bool
	Retrieve(ctx context.Context, query string) ([]knowledge.Passage, error)
}

type Deps struct {
	Router     *router.Router
	Screen     *crisis.Screen
	Reflection *generation.Reflection
	Guides     GuideSearcher
	Consent    *consent.Service
	Recorder   storage.Recorder
	Logger     *log.Logger

	AdminUserID  int64
	AllowedUsers []int64
	MemorySize   int
	// StoreTranscripts keeps message text in the interaction log.
	StoreTranscripts bool
}

// chatState is per-chat UI state layered over the routed session.
type chatState struct {
	session       *router.Session
	showSentiment bool
	crisisActive  bool
}

type Bot struct {
	api *tgbotapi.BotAPI
	s   sender

	router     *router.Router
	screen     *crisis.Screen
	reflection *generation.Reflection
	guides     GuideSearcher
	consent    *consent.Service
	recorder   storage.Recorder
	logger     *log.Logger

	adminUserID      int64
	allowed          map[int64]bool
	storeTranscripts bool

	memories *history.Sessions
	mu       sync.Mutex
	chats    map[int64]*chatState
	now      func() time.Time
}

func New(botToken string, d Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := newWithSender(botAPISender{api: api}, d)
	b.api = api
	return b, nil
}

func newWithSender(s sender, d Deps) *Bot {
	allowed := make(map[int64]bool, len(d.AllowedUsers))
	for _, id := range d.AllowedUsers {
		allowed[id] = true
	}
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		s:                s,
		router:           d.Router,
		screen:           d.Screen,
		reflection:       d.Reflection,
		guides:           d.Guides,
		consent:          d.Consent,
		recorder:         d.Recorder,
		logger:           logger,
		adminUserID:      d.AdminUserID,
		allowed:          allowed,
		storeTranscripts: d.StoreTranscripts,
		memories:         history.NewSessions(d.MemorySize),
		chats:            make(map[int64]*chatState),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Start polls updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot started", "user", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{session: router.NewSession(b.router, b.memories.Get(chatID))}
		b.chats[chatID] = st
	}
	return st
}

// resetChat drops the chat's memory and session. The badge preference
// survives.
func (b *Bot) resetChat(chatID int64) {
	b.memories.Reset(chatID)
	b.mu.Lock()
	defer b.mu.Unlock()
	st := &chatState{session: router.NewSession(b.router, b.memories.Get(chatID))}
	if old, ok := b.chats[chatID]; ok {
		st.showSentiment = old.showSentiment
	}
	b.chats[chatID] = st
}

func (b *Bot) isAllowed(userID int64) bool {
	return len(b.allowed) == 0 || b.allowed[userID]
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.logger.Error("failed to send message", "chat", chatID, "err", err)
	}
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.s.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("failed to send typing action", "chat", chatID, "err", err)
	}
}

func (b *Bot) record(ev storage.Event) {
	if b.recorder == nil {
		return
	}
	if !b.storeTranscripts {
		ev.UserMessage = ""
		ev.AssistantResponse = ""
	}
	if err := b.recorder.AppendInteraction(ev); err != nil {
		b.logger.Error("failed to record interaction", "kind", ev.Kind, "err", err)
	}
}
