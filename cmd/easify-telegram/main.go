// Телеграм-бот ассистента Easify.
//
// Long polling. Каждый чат получает свою сессию: /start предлагает
// выбрать язык (uz/ru/en), затем бот просит логин и пароль одной
// строкой через пробел, после успешного входа запросы уходят агенту.
// Сессии переживают рестарт через SQLite хранилище.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lazizkhan1/Easify/pkg/app"
	"github.com/Lazizkhan1/Easify/pkg/config"
	"github.com/Lazizkhan1/Easify/pkg/state"
	"github.com/Lazizkhan1/Easify/pkg/utils"
)

// maxMessageLen — лимит Telegram на длину одного сообщения.
const maxMessageLen = 4000

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "easify-telegram: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer components.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	utils.Info("Telegram bot connected", "username", api.Self.UserName)

	b := &bot{
		api:        api,
		components: components,
		chats:      make(map[int64]*chatState),
	}

	pollTimeout := cfg.Telegram.PollTimeout
	if pollTimeout == 0 {
		pollTimeout = 30
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		}
	}
}

// chatState — состояние одного чата поверх сессии.
//
// awaitingCreds и busy читаются и пишутся из разных goroutine
// (каждый update обрабатывается отдельно), доступ только под bot.mu.
type chatState struct {
	sess          *state.Session
	awaitingCreds bool
	busy          bool
}

type bot struct {
	api        *tgbotapi.BotAPI
	components *app.Components

	mu    sync.Mutex
	chats map[int64]*chatState
}

// chat возвращает состояние чата, поднимая сессию из хранилища.
func (b *bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cs, ok := b.chats[chatID]; ok {
		return cs
	}

	key := fmt.Sprintf("telegram_%d", chatID)
	var sess *state.Session
	if b.components.Store != nil {
		loaded, err := b.components.Store.Load(key)
		if err != nil {
			utils.Warn("Failed to load session", "session", key, "error", err)
		} else {
			sess = loaded
		}
	}
	if sess == nil {
		sess = state.NewSession(key)
	}

	cs := &chatState{sess: sess}
	b.chats[chatID] = cs
	return cs
}

func (b *bot) setAwaitingCreds(cs *chatState, v bool) {
	b.mu.Lock()
	cs.awaitingCreds = v
	b.mu.Unlock()
}

func (b *bot) isAwaitingCreds(cs *chatState) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cs.awaitingCreds
}

func (b *bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage — обработчик сообщений: /start, креды или запрос агенту.
func (b *bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	cs := b.chat(msg.Chat.ID)

	if msg.IsCommand() && msg.Command() == "start" {
		b.handleStart(msg.Chat.ID, cs)
		return
	}

	if b.isAwaitingCreds(cs) {
		b.handleCredentials(ctx, msg.Chat.ID, cs, msg.Text)
		return
	}

	if !cs.sess.Authorized() {
		b.send(msg.Chat.ID, t(cs.sess.Lang(), "need_start"))
		return
	}

	b.handleQuery(ctx, msg, cs)
}

// handleStart здоровается или предлагает выбрать язык.
func (b *bot) handleStart(chatID int64, cs *chatState) {
	if cs.sess.Authorized() {
		b.send(chatID, t(cs.sess.Lang(), "greeting"))
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 Uzbek", "lang_uz"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Russian", "lang_ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang_en"),
		),
	)
	m := tgbotapi.NewMessage(chatID, "Please choose your preferred language:")
	m.ReplyMarkup = keyboard
	if _, err := b.api.Send(m); err != nil {
		utils.Warn("Failed to send language keyboard", "chat", chatID, "error", err)
	}
}

// handleCallback обрабатывает выбор языка.
func (b *bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if !strings.HasPrefix(cq.Data, "lang_") {
		return
	}
	lang := strings.TrimPrefix(cq.Data, "lang_")

	cs := b.chat(cq.Message.Chat.ID)
	cs.sess.SetLang(lang)
	b.setAwaitingCreds(cs, true)

	// Убираем "часики" на кнопке
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		utils.Debug("Callback ack failed", "error", err)
	}

	b.send(cq.Message.Chat.ID, t(lang, "ask_credentials"))
}

// handleCredentials разбирает "логин пароль" и выполняет вход.
func (b *bot) handleCredentials(ctx context.Context, chatID int64, cs *chatState, text string) {
	lang := cs.sess.Lang()

	parts := strings.Fields(text)
	if len(parts) != 2 {
		b.send(chatID, t(lang, "bad_credentials_format"))
		return
	}

	creds, err := b.components.OyGul.Login(ctx, parts[0], parts[1])
	if err != nil {
		utils.Warn("Telegram login failed", "chat", chatID, "error", err)
		b.send(chatID, t(lang, "login_failed"))
		return
	}

	cs.sess.SetCredentials(creds)
	b.setAwaitingCreds(cs, false)
	b.components.SaveSession(cs.sess)

	b.send(chatID, t(lang, "login_ok"))
}

// handleQuery передаёт запрос агенту, показывая индикатор набора.
func (b *bot) handleQuery(ctx context.Context, msg *tgbotapi.Message, cs *chatState) {
	b.mu.Lock()
	if cs.busy {
		b.mu.Unlock()
		b.send(msg.Chat.ID, t(cs.sess.Lang(), "busy"))
		return
	}
	cs.busy = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		cs.busy = false
		b.mu.Unlock()
	}()

	query := msg.Text
	if msg.Caption != "" {
		query = msg.Caption
	}

	// Фото из сообщения уходит в хранилище, UUID попадает в запрос,
	// чтобы модель могла использовать его в photo_urls
	if len(msg.Photo) > 0 && b.components.Photos != nil {
		if key, err := b.uploadPhoto(ctx, msg.Photo[len(msg.Photo)-1].FileID); err != nil {
			utils.Warn("Photo upload failed", "chat", msg.Chat.ID, "error", err)
		} else {
			query = strings.TrimSpace(query + "\n[photo uploaded: " + key + "]")
		}
	}
	if query == "" {
		return
	}

	typingCtx, cancelTyping := context.WithCancel(ctx)
	defer cancelTyping()
	go b.typingLoop(typingCtx, msg.Chat.ID)

	answer, err := b.components.Agent.Run(ctx, cs.sess, query)
	cancelTyping()
	if err != nil {
		utils.Error("Agent run failed", "chat", msg.Chat.ID, "error", err)
		b.send(msg.Chat.ID, t(cs.sess.Lang(), "agent_error"))
		return
	}

	for _, chunk := range splitMessage(answer, maxMessageLen) {
		b.send(msg.Chat.ID, chunk)
	}

	b.components.SaveSession(cs.sess)
}

// uploadPhoto скачивает файл из Telegram и кладёт его в хранилище фото.
func (b *bot) uploadPhoto(ctx context.Context, fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	return b.components.Photos.Upload(ctx, data)
}

// typingLoop шлёт индикатор набора пока агент думает.
func (b *bot) typingLoop(ctx context.Context, chatID int64) {
	for {
		action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
		if _, err := b.api.Request(action); err != nil {
			utils.Debug("Typing action failed", "error", err)
		}
		select {
		case <-time.After(4 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}

func (b *bot) send(chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		utils.Warn("Failed to send message", "chat", chatID, "error", err)
	}
}

// splitMessage режет длинный текст на части, стараясь рвать по переносам строк.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			// Нет переноса: откатываемся до границы руны, чтобы
			// не разрезать кириллицу посередине байтов
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// t возвращает локализованный текст для языка сессии.
func t(lang, key string) string {
	if msgs, ok := texts[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return texts["en"][key]
}

var texts = map[string]map[string]string{
	"uz": {
		"greeting":               "Assalomu alaykum! Men Asilman, ERP yordamchingiz. Siz bilan qanday mahsulotlarni boshqarishim mumkin?",
		"ask_credentials":        "Iltimos, login va parolingizni bir qatorda, bo'sh joy bilan ajratib yuboring.",
		"bad_credentials_format": "Iltimos, login va parolni bo'sh joy bilan ajratib, bitta xabarda yuboring.",
		"login_failed":           "Login yoki parol noto'g'ri. Iltimos, qayta urinib ko'ring.",
		"login_ok":               "Rahmat! Siz tizimga muvaffaqiyatli kirdingiz. Endi savollaringizni berishingiz mumkin.",
		"need_start":             "Iltimos, avval /start buyrug'i bilan tilni tanlang.",
		"busy":                   "Iltimos, avvalgi so'rov tugashini kuting.",
		"agent_error":            "Xatolik yuz berdi. Iltimos, keyinroq qayta urinib ko'ring.",
	},
	"ru": {
		"greeting":               "Здравствуйте! Я Асил, ваш ERP помощник. Чем могу помочь вам в управлении продуктами?",
		"ask_credentials":        "Пожалуйста, отправьте ваш логин и пароль в одной строке, разделенные пробелом.",
		"bad_credentials_format": "Пожалуйста, отправьте логин и пароль в одном сообщении, разделив их пробелом.",
		"login_failed":           "Неверный логин или пароль. Пожалуйста, попробуйте еще раз.",
		"login_ok":               "Спасибо! Вы успешно вошли в систему. Теперь вы можете задавать свои вопросы.",
		"need_start":             "Пожалуйста, сначала выберите язык командой /start.",
		"busy":                   "Пожалуйста, дождитесь завершения предыдущего запроса.",
		"agent_error":            "Произошла ошибка. Пожалуйста, повторите попытку позже.",
	},
	"en": {
		"greeting":               "Hello! I am Asil, your ERP assistant. How can I help you manage products today?",
		"ask_credentials":        "Please send your login and password in one line, separated by a space.",
		"bad_credentials_format": "Please send the login and password in a single message, separated by a space.",
		"login_failed":           "Invalid login or password. Please try again.",
		"login_ok":               "Thank you! You have successfully logged in. You can now ask your questions.",
		"need_start":             "Please select your language first by typing /start.",
		"busy":                   "Please wait for the previous request to finish.",
		"agent_error":            "An error occurred. Please try again later.",
	},
}
