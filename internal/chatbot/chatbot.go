// Package chatbot owns one interactive chat session: it routes user input
// to the chat or image boundary, segments replies, and keeps the
// transcript current. Boundary errors never escape a turn.
package chatbot

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"laribot/internal/cache"
	"laribot/internal/config"
	"laribot/internal/display"
	"laribot/internal/openai"
	"laribot/internal/segment"
	"laribot/internal/transcript"
)

const systemPrompt = `Você é um assistente prestativo e amigável.
Você fornece respostas claras e úteis, mantendo um tom profissional e amigável.
Quando fornecendo exemplos de código, use blocos de código markdown com a linguagem especificada.`

// errPrefix opens every user-visible error reply.
const errPrefix = "Desculpe, ocorreu um erro: "

// imageDirectives are the command prefixes that trigger image generation,
// matched case-insensitively.
var imageDirectives = []string{"/imagem", "/img", "/gerar imagem", "/criar imagem"}

// ChatCompleter is the chat-completion boundary.
type ChatCompleter interface {
	Chat(ctx context.Context, model string, messages []openai.ChatMessage, temperature float64) (string, error)
}

// ImageGenerator is the image-generation boundary.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model, prompt, size, quality string) (string, error)
}

// Bot runs one chat session against the model provider.
type Bot struct {
	cfg       config.Config
	store     *transcript.Store
	chat      ChatCompleter
	images    ImageGenerator
	cache     *cache.Cache
	renderer  *display.Renderer
	logger    *slog.Logger
	sessionID string
}

// New creates a session bot over an existing transcript store.
func New(cfg config.Config, store *transcript.Store, chat ChatCompleter, images ImageGenerator, respCache *cache.Cache, renderer *display.Renderer, logger *slog.Logger) *Bot {
	sessionID := uuid.NewString()
	logger.Info("created new session", "session_id", sessionID, "model", cfg.Model)
	return &Bot{
		cfg:       cfg,
		store:     store,
		chat:      chat,
		images:    images,
		cache:     respCache,
		renderer:  renderer,
		logger:    logger,
		sessionID: sessionID,
	}
}

// imageDirective reports whether input starts with an image-generation
// command and extracts the prompt: everything after the first whitespace
// separator. An empty prompt means the separator was missing.
func imageDirective(input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, prefix := range imageDirectives {
		if strings.HasPrefix(lower, prefix) {
			_, prompt, _ := strings.Cut(input, " ")
			return prompt, true
		}
	}
	return "", false
}

// Process handles one user input: it appends the user message, calls the
// matching boundary, and returns the assistant messages produced this turn
// in production order. Boundary failures surface as an error reply on the
// chat path and as silence on the image path.
func (b *Bot) Process(ctx context.Context, input string) []transcript.Message {
	b.store.Append(transcript.RoleUser, input, transcript.TypeText, "")

	if prompt, ok := imageDirective(input); ok {
		return b.processImage(ctx, prompt)
	}
	return b.processChat(ctx, input)
}

// processImage short-circuits to the image boundary. A successful call
// yields exactly one image message; no reply segmentation happens here.
func (b *Bot) processImage(ctx context.Context, prompt string) []transcript.Message {
	if prompt == "" {
		b.logger.Warn("image command without a prompt", "session_id", b.sessionID)
		return b.appendAssistant(segment.Text(errPrefix + "comando de imagem sem prompt"))
	}

	url, err := b.images.GenerateImage(ctx, b.cfg.ImageModel, prompt, b.cfg.ImageSize, b.cfg.ImageQuality)
	if err != nil {
		// Image failures produce no reply at all; only the log records them.
		b.logger.Error("image generation failed", "error", err, "session_id", b.sessionID)
		return nil
	}

	b.logger.Info("image generated", "session_id", b.sessionID)
	return b.appendAssistant(segment.Image(url))
}

// processChat sends the bounded context window to the chat boundary and
// segments the reply. Cached replies skip the provider call but still run
// through the segmenter.
func (b *Bot) processChat(ctx context.Context, input string) []transcript.Message {
	window := b.window(input)

	key := cache.Key(window)
	reply, hit := b.cache.Get(key)
	if !hit {
		var err error
		reply, err = b.chat.Chat(ctx, b.cfg.Model, window, b.cfg.Temperature)
		if err != nil {
			b.logger.Error("chat completion failed", "error", err, "session_id", b.sessionID)
			return b.appendAssistant(segment.Text(errPrefix + err.Error()))
		}
		b.cache.Put(key, reply)
	}

	return b.appendAssistant(segment.Split(reply)...)
}

// window builds the provider context: the system instruction, the last
// HistoryWindow prior messages that are text or code (image entries are
// skipped, not replaced), and the new user message.
func (b *Bot) window(current string) []openai.ChatMessage {
	window := []openai.ChatMessage{{Role: "system", Content: systemPrompt}}

	all := b.store.All()
	prior := all[:len(all)-1] // the current input is already appended
	if n := len(prior) - b.cfg.HistoryWindow; n > 0 {
		prior = prior[n:]
	}
	for _, msg := range prior {
		if msg.Type == transcript.TypeText || msg.Type == transcript.TypeCode {
			window = append(window, openai.ChatMessage{Role: string(msg.Role), Content: msg.Content})
		}
	}

	return append(window, openai.ChatMessage{Role: "user", Content: current})
}

// appendAssistant records segments as assistant messages and returns them.
func (b *Bot) appendAssistant(segments ...segment.Segment) []transcript.Message {
	for _, seg := range segments {
		b.store.Append(transcript.RoleAssistant, seg.Content, messageType(seg.Kind), seg.Language)
	}
	return b.store.Recent(len(segments))
}

// messageType maps a segment kind to the transcript message type.
func messageType(kind segment.Kind) transcript.Type {
	switch kind {
	case segment.KindCode:
		return transcript.TypeCode
	case segment.KindImage:
		return transcript.TypeImage
	default:
		return transcript.TypeText
	}
}

// handleCommand handles slash commands that never reach the model. Image
// directives are not commands; they fall through to dispatch.
func (b *Bot) handleCommand(input string) (quit, handled bool) {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit":
		return true, true

	case "/limpar":
		b.store.Clear()
		b.logger.Info("transcript cleared", "session_id", b.sessionID)
		b.renderer.Notice("Conversa limpa.")
		return false, true

	case "/help":
		fmt.Println("Comandos disponíveis:")
		fmt.Println("  /imagem <prompt>    - Gera uma imagem (também /img, /gerar imagem, /criar imagem)")
		fmt.Println("  /limpar             - Limpa a conversa")
		fmt.Println("  /quit, /exit        - Sai do chat")
		fmt.Println("  /help               - Mostra esta mensagem")
		return false, true
	}

	return false, false
}

// Run starts the interactive loop and blocks until the user quits or
// input ends.
func (b *Bot) Run() error {
	fmt.Println("=== Lari Bot ===")
	fmt.Printf("Sessão: %s\n", b.sessionID)
	fmt.Printf("Modelo: %s\n", b.cfg.Model)
	fmt.Println("Digite sua mensagem... (Use /imagem para gerar imagens, /help para comandos)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("Você: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		quit, handled := b.handleCommand(input)
		if quit {
			break
		}
		if handled {
			continue
		}

		for _, msg := range b.Process(ctx, input) {
			b.renderer.Render(msg)
		}
		fmt.Println()
	}

	fmt.Println("Até logo!")
	return scanner.Err()
}
