package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotificadorOperador envia alertas de falha para o canal da operação
type NotificadorOperador interface {
	NotificarOperador(mensagem string) error
}

// TelegramClient envia notificações pelo Telegram Bot API.
// Quando o token não está configurado o cliente opera como no-op,
// para que ambientes de desenvolvimento funcionem sem bot.
type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *log.Logger
}

// NewTelegramClient cria um novo cliente Telegram a partir do token e chat do canal
func NewTelegramClient(token, chatID string, logger *log.Logger) (*TelegramClient, error) {
	if logger == nil {
		logger = log.New(os.Stdout, "TELEGRAM: ", log.LstdFlags)
	}

	if token == "" || chatID == "" {
		logger.Println("⚠️ Telegram não configurado, notificações desabilitadas")
		return &TelegramClient{logger: logger}, nil
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("chat ID inválido: %s", chatID)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar bot Telegram: %w", err)
	}
	bot.Debug = false

	logger.Printf("✅ Bot Telegram autorizado: %s", bot.Self.UserName)

	return &TelegramClient{
		bot:    bot,
		chatID: chatIDInt,
		logger: logger,
	}, nil
}

// Habilitado informa se o cliente tem um bot configurado
func (tc *TelegramClient) Habilitado() bool {
	return tc.bot != nil
}

// NotificarOperador envia a mensagem de alerta para o chat da operação
func (tc *TelegramClient) NotificarOperador(mensagem string) error {
	if !tc.Habilitado() {
		tc.logger.Printf("⚠️ Telegram desabilitado, alerta descartado: %s", mensagem)
		return nil
	}

	texto := fmt.Sprintf("⚠️ <b>Dashboard de Frotas</b>\n\n%s\n\n<i>%s</i>",
		mensagem, time.Now().Format("02/01/2006 15:04:05"))

	msg := tgbotapi.NewMessage(tc.chatID, texto)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := tc.bot.Send(msg); err != nil {
		return fmt.Errorf("erro ao enviar mensagem: %w", err)
	}
	return nil
}

// NotificarErro formata e envia o erro de uma operação do dashboard
func (tc *TelegramClient) NotificarErro(operacao string, err error) error {
	return tc.NotificarOperador(fmt.Sprintf("Erro em <code>%s</code>:\n%v", operacao, err))
}

// IsHealthy verifica se o bot responde
func (tc *TelegramClient) IsHealthy() bool {
	if !tc.Habilitado() {
		return false
	}
	_, err := tc.bot.GetMe()
	return err == nil
}
