package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "roundness-meter/internal/application"
	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

// maxOverlays ограничивает число картинок в ответе на одно фото
const maxOverlays = 3

const (
	msgStart = `👋 Привет! Я бот для оценки круглости деталей по фотографии.

📸 Отправьте мне фото детали, и я найду окружности и посчитаю отклонение от круглости в пикселях.

📋 Команды:
/check — начать проверку детали
/method — выбрать метод оценки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото детали
2️⃣ Бот найдёт круглые контуры
3️⃣ Вы получите отклонение от круглости и фото с зоной между двумя окружностями

📐 Методы (/method <название>):
• min_zone — минимальная зона (по умолчанию)
• least_squares — окружность наименьших квадратов
• min_circumscribed — минимальная описанная окружность
• max_inscribed — максимальная вписанная окружность

💡 Рекомендации:
• Снимайте деталь сверху при хорошем освещении
• Используйте однотонный контрастный фон
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото детали для оценки круглости."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото детали для оценки круглости."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoCircles       = "🔍 Круглые контуры не найдены. Попробуйте снять деталь на контрастном фоне."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgMethodUsage     = "📐 Текущий метод: %s\n\nИспользование: /method <min_zone|least_squares|min_circumscribed|max_inscribed>"
	msgMethodSet       = "✅ Метод оценки: %s"
	msgMethodUnknown   = "❓ Неизвестный метод %q. Доступны: %s"
)

// Bot представляет Telegram-бота
type Bot struct {
	api          *tgbotapi.BotAPI
	users        *app.UserService
	measurements *app.MeasurementService
	history      port.MeasurementRepository // nil, если история отключена
	logger       *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, measurements *app.MeasurementService, history port.MeasurementRepository, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:          api,
		users:        users,
		measurements: measurements,
		history:      history,
		logger:       logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user", "user_id", msg.From.ID, "error", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, user.ID, chatID); err != nil {
			b.logger.Error("begin check", "user_id", user.ID, "error", err)
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		if _, err := b.users.Cancel(ctx, user.ID, chatID); err != nil {
			b.logger.Error("cancel", "user_id", user.ID, "error", err)
		}
		b.sendMessage(chatID, msgCancelled)

	case "method":
		b.sendMessage(chatID, b.changeMethod(ctx, user, msg.CommandArguments()))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// changeMethod выбирает метод или подсказывает синтаксис команды
func (b *Bot) changeMethod(ctx context.Context, user *entity.User, arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return fmt.Sprintf(msgMethodUsage, user.Method.Title())
	}

	updated, err := b.users.SetMethod(ctx, user.ID, user.ChatID, arg)
	switch {
	case errors.Is(err, entity.ErrUnknownMethod):
		return fmt.Sprintf(msgMethodUnknown, arg, methodNames())
	case err != nil:
		b.logger.Error("set method", "user_id", user.ID, "error", err)
		return msgProcessingError
	}
	return fmt.Sprintf(msgMethodSet, updated.Method.Title())
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	b.setState(ctx, user, entity.StateProcessing)
	// Возвращаем в главное меню при любом исходе
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("download photo", "file_id", photo.FileID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.measurements.Inspect(ctx, imageData, user.Method)
	if err != nil {
		b.logger.Error("measure photo", "user_id", user.ID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.logger.Info("photo measured",
		"user_id", user.ID,
		"bytes", len(imageData),
		"method", user.Method,
		"shapes", len(out.Report.Shapes),
	)

	if !out.Report.HasShapes() {
		b.sendMessage(chatID, msgNoCircles)
		return
	}

	if b.history != nil {
		image := fmt.Sprintf("telegram/%d/%s", chatID, photo.FileUniqueID)
		if err := b.history.Save(ctx, image, out.Report); err != nil {
			b.logger.Warn("save measurements", "image", image, "error", err)
		}
	}

	b.sendMessage(chatID, FormatReport(out.Report))

	for i, overlay := range out.Overlays {
		if i == maxOverlays {
			break
		}
		b.sendPhoto(chatID, overlayName(overlay, user.Method), overlay.Image)
	}
}

// overlayName имя файла картинки по номеру контура в отчёте
func overlayName(overlay app.Overlay, method entity.Method) string {
	return fmt.Sprintf("result_%d_%s.jpg", overlay.Index, method)
}

// FormatReport текст ответа со значениями круглости по каждому контуру
func FormatReport(report *entity.ImageReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📐 %s\n", report.Method.Title())
	for _, s := range report.Shapes {
		fmt.Fprintf(&sb, "\nCircle %d: Roundness = %.2f pixels", s.Index, s.Result.Roundness)
		if !s.Result.Converged {
			sb.WriteString(" (не сошлось)")
		}
	}
	return sb.String()
}

func methodNames() string {
	methods := entity.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		b.logger.Error("set state", "user_id", user.ID, "state", state, "error", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

// sendPhoto отправляет картинку с зоной круглости
func (b *Bot) sendPhoto(chatID int64, name string, data []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send photo", "chat_id", chatID, "error", err)
	}
}
