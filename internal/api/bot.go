package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "nekognition/internal/application"
	"nekognition/internal/container"
	"nekognition/internal/domain/entity"
	"nekognition/internal/infrastructure/render"
)

const (
	msgStart = `👋 Hi! I find cats in your photos.

📸 Send me a photo: faces get a mosaic, cats get a box.
Tap a cat's button under the result to highlight it.

📋 Commands:
/help — how it works
/cancel — forget the current photo`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Send a photo (as a photo or as an image file, up to 5 MB)
2️⃣ Faces are pixelated, every detected cat is outlined
3️⃣ Use the buttons to switch a cat's highlight on or off

📋 Commands:
/start — welcome message
/cancel — forget the current photo`

	msgCancelled       = "❌ Photo forgotten. Send a new one whenever you like."
	msgSendPhoto       = "📸 Please send a photo."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Looking for cats..."
	msgInvalidImage    = "⚠️ The image is empty, larger than 5 MB or not a jpeg/png/webp file."
	msgSessionExpired  = "⌛ That photo is gone. Please send it again."
	msgProcessingError = "⚠️ Could not process the image. Please try again later."
)

// callbackPrefix marks highlight toggle buttons.
const callbackPrefix = "hl:"

// Bot is the Telegram front end of the annotation service.
type Bot struct {
	api         *tgbotapi.BotAPI
	annotations *app.AnnotationService
	format      render.Format
}

// NewBot creates the bot and authorizes it with token.
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		annotations: c.AnnotationService,
		format:      c.OutputFormat,
	}, nil
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case update.CallbackQuery != nil:
				b.handleCallback(ctx, update.CallbackQuery)
			case update.Message != nil:
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if fileID, filename, ok := imageFile(msg); ok {
		b.handleImage(ctx, msg.Chat.ID, fileID, filename)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "cancel":
		if err := b.annotations.Forget(ctx, msg.Chat.ID); err != nil {
			log.Printf("Error forgetting session: %v", err)
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handleImage(ctx context.Context, chatID int64, fileID, filename string) {
	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	log.Printf("Received image %s: %d bytes", filename, len(imageData))

	session, err := b.annotations.Upload(ctx, chatID, filename, imageData)
	if err != nil {
		log.Printf("Error detecting: %v", err)
		b.sendMessage(chatID, userMessage(err))
		return
	}

	var cats int
	if session.Cats != nil {
		cats = len(session.Cats.Instances)
	}
	log.Printf("Chat %d: %d faces, %d cats", chatID, len(session.Faces), cats)

	b.sendRender(ctx, session)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	name, ok := parseCallbackData(cb.Data)
	if !ok || cb.Message == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID

	session, err := b.annotations.ToggleHighlight(ctx, chatID, name)
	if err != nil {
		log.Printf("Error toggling %s: %v", name, err)
		b.answerCallback(cb.ID, userMessage(err))
		return
	}

	b.answerCallback(cb.ID, name)
	b.sendRender(ctx, session)
}

func (b *Bot) sendRender(ctx context.Context, session *entity.Session) {
	img, err := b.annotations.Render(ctx, session.ChatID)
	if err != nil {
		log.Printf("Error rendering: %v", err)
		b.sendMessage(session.ChatID, userMessage(err))
		return
	}

	data, err := render.EncodeBytes(img, b.format)
	if err != nil {
		log.Printf("Error encoding: %v", err)
		b.sendMessage(session.ChatID, msgProcessingError)
		return
	}

	file := tgbotapi.FileBytes{Name: "cats." + b.format.Ext(), Bytes: data}
	keyboard := highlightKeyboard(session)

	// Telegram does not accept webp as a photo.
	var out tgbotapi.Chattable
	if b.format == render.FormatWebP {
		doc := tgbotapi.NewDocument(session.ChatID, file)
		doc.Caption = caption(session)
		if keyboard != nil {
			doc.ReplyMarkup = keyboard
		}
		out = doc
	} else {
		photo := tgbotapi.NewPhoto(session.ChatID, file)
		photo.Caption = caption(session)
		if keyboard != nil {
			photo.ReplyMarkup = keyboard
		}
		out = photo
	}

	if _, err := b.api.Send(out); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}

// downloadFile downloads a file from Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	// one byte past the limit is enough for the size check to fail
	data, err := io.ReadAll(io.LimitReader(resp.Body, entity.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// imageFile returns the file to download from a photo message or an image document.
// The largest photo size is used; its unique id stands in for the missing file name.
func imageFile(msg *tgbotapi.Message) (fileID, filename string, ok bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, photo.FileUniqueID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		name := msg.Document.FileName
		if name == "" {
			name = msg.Document.FileUniqueID
		}
		return msg.Document.FileID, name, true
	}
	return "", "", false
}

func caption(session *entity.Session) string {
	if !session.Cats.HasInstances() {
		return "😿 " + app.MsgNoCat
	}
	return "🐱 " + strings.ReplaceAll(app.Summary(session), "\n", "\n🐱 ")
}

// highlightKeyboard has one toggle button per cat, or is nil when there are none.
func highlightKeyboard(session *entity.Session) *tgbotapi.InlineKeyboardMarkup {
	names := session.Cats.InstanceNames()
	if len(names) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(names))
	for _, name := range names {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(buttonText(name, session.Highlights[name]), callbackData(name)),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func buttonText(name string, highlighted bool) string {
	if highlighted {
		return "✅ " + name
	}
	return "⬜ " + name
}

func callbackData(name string) string {
	return callbackPrefix + name
}

func parseCallbackData(data string) (string, bool) {
	name, ok := strings.CutPrefix(data, callbackPrefix)
	return name, ok && name != ""
}

// userMessage turns a service error into chat text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return msgInvalidImage
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrUnknownInstance):
		return msgSessionExpired
	default:
		return msgProcessingError
	}
}
