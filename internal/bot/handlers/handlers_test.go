package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/internal/i18n"
	"github.com/Proton-105/p2p-exchange-bot/internal/repository"
)

type sentMessage struct {
	ChatID int64
	Text   string
	Markup *telebot.ReplyMarkup
}

type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *recordingMessenger) Send(_ context.Context, chatID int64, text string, markup *telebot.ReplyMarkup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, Markup: markup})
	return m.err
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) ResolveOrCreate(ctx context.Context, u *telebot.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUsers) Find(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type stubAds struct {
	ads       []domain.AdListing
	err       error
	lastLimit int
}

func (s *stubAds) ListActive(_ context.Context, limit int) ([]domain.AdListing, error) {
	s.lastLimit = limit
	return s.ads, s.err
}

type stubDeals struct {
	deals     []domain.DealListing
	err       error
	lastID    int64
	lastLimit int
}

func (s *stubDeals) ListByParticipant(_ context.Context, telegramID int64, limit int) ([]domain.DealListing, error) {
	s.lastID, s.lastLimit = telegramID, limit
	return s.deals, s.err
}

func newDeps(t *testing.T) (Deps, *recordingMessenger) {
	t.Helper()

	m, err := i18n.Load(i18n.DefaultLang)
	require.NoError(t, err)

	rec := &recordingMessenger{}
	return Deps{Messenger: rec, Translator: m.Translator(i18n.DefaultLang)}, rec
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assertSingleReply(t *testing.T, rec *recordingMessenger, chatID int64) sentMessage {
	t.Helper()

	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, chatID, msg.ChatID)
	require.NotNil(t, msg.Markup)
	assert.Len(t, msg.Markup.ReplyKeyboard, 3)
	assert.True(t, msg.Markup.ResizeKeyboard)
	return msg
}

func TestStartHandler_RegistersAndWelcomes(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)
	sender := &telebot.User{ID: 42, Username: "alice"}
	users.On("ResolveOrCreate", mock.Anything, sender).Return(&domain.User{ID: 1, TelegramID: 42}, nil).Once()

	err := NewStartHandler(deps, users, discardLogger())(context.Background(), &Request{ChatID: 1, Text: "/start", Sender: sender})
	require.NoError(t, err)

	msg := assertSingleReply(t, rec, 1)
	assert.Contains(t, msg.Text, "👋 Добро пожаловать в P2P обменник!")
	users.AssertExpectations(t)
}

func TestStartHandler_WithoutSenderStillWelcomes(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)

	err := NewStartHandler(deps, users, discardLogger())(context.Background(), &Request{ChatID: 1, Text: "/start"})
	require.NoError(t, err)

	assertSingleReply(t, rec, 1)
	users.AssertNotCalled(t, "ResolveOrCreate", mock.Anything, mock.Anything)
}

func TestStartHandler_ResolveFailureSendsNothing(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)
	users.On("ResolveOrCreate", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	err := NewStartHandler(deps, users, discardLogger())(context.Background(), &Request{ChatID: 1, Sender: &telebot.User{ID: 42}})
	require.Error(t, err)
	assert.Empty(t, rec.sent)
}

func TestAdsHandler_Empty(t *testing.T) {
	deps, rec := newDeps(t)
	ads := &stubAds{}

	require.NoError(t, NewAdsHandler(deps, ads)(context.Background(), &Request{ChatID: 5}))

	msg := assertSingleReply(t, rec, 5)
	assert.Equal(t, "📋 Пока нет активных объявлений", msg.Text)
	assert.Equal(t, ListLimit, ads.lastLimit)
}

func TestAdsHandler_FormatsListing(t *testing.T) {
	deps, rec := newDeps(t)
	ads := &stubAds{ads: []domain.AdListing{
		{
			Advertisement: domain.Advertisement{
				ID:           2,
				CurrencyType: "USDT",
				Amount:       decimal.RequireFromString("1000"),
				PricePerUnit: decimal.RequireFromString("95.5"),
				Description:  "Fast <transfer>",
			},
			SellerUsername:   "bob",
			SellerRating:     decimal.RequireFromString("4.8"),
			SellerTotalDeals: 12,
		},
		{
			Advertisement: domain.Advertisement{
				ID:           1,
				CurrencyType: "BTC",
				Amount:       decimal.RequireFromString("0.01"),
				PricePerUnit: decimal.RequireFromString("6500000"),
			},
			SellerUsername:   "carol",
			SellerRating:     decimal.RequireFromString("5"),
			SellerTotalDeals: 0,
		},
	}}

	require.NoError(t, NewAdsHandler(deps, ads)(context.Background(), &Request{ChatID: 5}))

	expected := "📋 <b>Активные объявления:</b>\n\n" +
		"💰 <b>USDT</b>\n" +
		"Количество: 1000\n" +
		"Цена: 95.50 руб/ед\n" +
		"Продавец: @bob ⭐4.80 (12 сделок)\n" +
		"📝 Fast &lt;transfer&gt;\n" +
		"ID: 2\n\n" +
		"💰 <b>BTC</b>\n" +
		"Количество: 0.01\n" +
		"Цена: 6500000.00 руб/ед\n" +
		"Продавец: @carol ⭐5.00 (0 сделок)\n" +
		"ID: 1\n\n" +
		"\nДля покупки отправьте: /buy [ID объявления] [количество]"

	msg := assertSingleReply(t, rec, 5)
	assert.Equal(t, expected, msg.Text)
}

func TestAdsHandler_RepositoryError(t *testing.T) {
	deps, rec := newDeps(t)

	err := NewAdsHandler(deps, &stubAds{err: errors.New("boom")})(context.Background(), &Request{ChatID: 5})
	require.Error(t, err)
	assert.Empty(t, rec.sent)
}

func TestProfileHandler_NotFoundDoesNotInsert(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)
	users.On("Find", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound).Once()

	err := NewProfileHandler(deps, users)(context.Background(), &Request{ChatID: 1, Sender: &telebot.User{ID: 42}})
	require.NoError(t, err)

	msg := assertSingleReply(t, rec, 1)
	assert.Equal(t, "❌ Профиль не найден", msg.Text)
	users.AssertNotCalled(t, "ResolveOrCreate", mock.Anything, mock.Anything)
}

func TestProfileHandler_Card(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)
	users.On("Find", mock.Anything, int64(42)).Return(&domain.User{
		TelegramID:      42,
		FirstName:       "Alice",
		Username:        "alice",
		Rating:          decimal.RequireFromString("4.5"),
		TotalDeals:      10,
		SuccessfulDeals: 9,
		CreatedAt:       time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
	}, nil).Once()

	require.NoError(t, NewProfileHandler(deps, users)(context.Background(), &Request{ChatID: 1, Sender: &telebot.User{ID: 42}}))

	expected := "👤 <b>Ваш профиль</b>\n\n" +
		"Имя: Alice\n" +
		"Username: @alice\n" +
		"⭐ Рейтинг: 4.50/5.00\n" +
		"📊 Всего сделок: 10\n" +
		"✅ Успешных: 9\n" +
		"📅 Регистрация: 05.03.2024"

	msg := assertSingleReply(t, rec, 1)
	assert.Equal(t, expected, msg.Text)
}

func TestProfileHandler_MissingUsernamePlaceholder(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)
	users.On("Find", mock.Anything, int64(7)).Return(&domain.User{
		TelegramID: 7,
		FirstName:  "Bob",
		Rating:     decimal.RequireFromString("5"),
		CreatedAt:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}, nil).Once()

	require.NoError(t, NewProfileHandler(deps, users)(context.Background(), &Request{ChatID: 1, Sender: &telebot.User{ID: 7}}))

	msg := assertSingleReply(t, rec, 1)
	assert.Contains(t, msg.Text, "Username: @не указан\n")
}

func TestProfileHandler_WithoutSenderLooksUpZero(t *testing.T) {
	deps, rec := newDeps(t)
	users := new(mockUsers)
	users.On("Find", mock.Anything, int64(0)).Return(nil, repository.ErrNotFound).Once()

	require.NoError(t, NewProfileHandler(deps, users)(context.Background(), &Request{ChatID: 1}))
	assertSingleReply(t, rec, 1)
	users.AssertExpectations(t)
}

func TestDealsHandler_Empty(t *testing.T) {
	deps, rec := newDeps(t)
	deals := &stubDeals{}

	require.NoError(t, NewDealsHandler(deps, deals)(context.Background(), &Request{ChatID: 1, Sender: &telebot.User{ID: 42}}))

	msg := assertSingleReply(t, rec, 1)
	assert.Equal(t, "💼 У вас пока нет сделок", msg.Text)
	assert.Equal(t, int64(42), deals.lastID)
	assert.Equal(t, ListLimit, deals.lastLimit)
}

func TestDealsHandler_RoleAndStatus(t *testing.T) {
	deps, rec := newDeps(t)
	deals := &stubDeals{deals: []domain.DealListing{
		{
			Deal: domain.Deal{
				ID: 9, BuyerTelegramID: 42, SellerTelegramID: 100,
				Amount: decimal.RequireFromString("10"), Status: domain.DealStatusPaid, EscrowStatus: "locked",
			},
			CurrencyType: "USDT",
		},
		{
			Deal: domain.Deal{
				ID: 8, BuyerTelegramID: 100, SellerTelegramID: 42,
				Amount: decimal.RequireFromString("0.5"), Status: "frozen", EscrowStatus: "pending",
			},
			CurrencyType: "BTC",
		},
	}}

	require.NoError(t, NewDealsHandler(deps, deals)(context.Background(), &Request{ChatID: 1, Sender: &telebot.User{ID: 42}}))

	expected := "💼 <b>Ваши сделки:</b>\n\n" +
		"💳 <b>Сделка #9</b>\n" +
		"Роль: Покупатель\n" +
		"Валюта: USDT\n" +
		"Сумма: 10\n" +
		"Статус: paid\n" +
		"Эскроу: locked\n\n" +
		"❓ <b>Сделка #8</b>\n" +
		"Роль: Продавец\n" +
		"Валюта: BTC\n" +
		"Сумма: 0.5\n" +
		"Статус: frozen\n" +
		"Эскроу: pending\n\n" +
		"\nДля просмотра сделки: /deal [ID]"

	msg := assertSingleReply(t, rec, 1)
	assert.Equal(t, expected, msg.Text)
}

func TestStatusEmoji(t *testing.T) {
	cases := map[domain.DealStatus]string{
		domain.DealStatusCreated:   "🆕",
		domain.DealStatusPaid:      "💳",
		domain.DealStatusDisputed:  "⚠️",
		domain.DealStatusCompleted: "✅",
		domain.DealStatusCancelled: "❌",
		"unknown":                  "❓",
	}

	for status, emoji := range cases {
		assert.Equal(t, emoji, StatusEmoji(status), string(status))
	}
}

func TestStaticHandlers(t *testing.T) {
	cases := []struct {
		name     string
		build    func(Deps) Handler
		contains string
	}{
		{name: "create ad", build: NewCreateAdHandler, contains: "/create_ad USDT 1000 95.50"},
		{name: "support", build: NewSupportHandler, contains: "Мы ответим в ближайшее время!"},
		{name: "fallback", build: NewFallbackHandler, contains: "Используйте меню для навигации или команды /start"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps, rec := newDeps(t)

			require.NoError(t, tc.build(deps)(context.Background(), &Request{ChatID: 3}))

			msg := assertSingleReply(t, rec, 3)
			assert.Contains(t, msg.Text, tc.contains)
		})
	}
}

func TestSendFailurePropagates(t *testing.T) {
	deps, rec := newDeps(t)
	rec.err = errors.New("telegram down")

	err := NewFallbackHandler(deps)(context.Background(), &Request{ChatID: 3})
	assert.ErrorIs(t, err, rec.err)
}
