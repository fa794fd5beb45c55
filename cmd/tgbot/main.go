package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"Mudcheck/internal/calc/treatment"
	"Mudcheck/internal/config"
	"Mudcheck/internal/logging"
	"Mudcheck/internal/repo"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

// Bot answers mud check messages over the Telegram Bot API.
type Bot struct {
	Token   string
	BaseURL string
	Client  *http.Client
	Cal     treatment.Calibration
	Log     *zap.Logger
}

func main() {
	_ = godotenv.Load()
	log := logging.Must(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer log.Sync()

	token := os.Getenv("TOKEN_BOT")
	if token == "" {
		log.Fatal("TOKEN_BOT missing")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cal, err := calibration(ctx, os.Getenv("CALIBRATION_FILE"), os.Getenv("CALIBRATION_PROFILE"))
	if err != nil {
		log.Fatal("calibration", zap.Error(err))
	}

	bot := &Bot{
		Token:   token,
		BaseURL: "https://api.telegram.org",
		Client:  &http.Client{Timeout: 30 * time.Second},
		Cal:     cal,
		Log:     log,
	}
	log.Info("bot started", zap.String("calibration", cal.Name))
	bot.Run(ctx)
	log.Info("bot stopped")
}

func calibration(ctx context.Context, file, profile string) (treatment.Calibration, error) {
	r := &repo.Resolver{}
	if file != "" {
		cals, err := config.LoadCalibrations(file)
		if err != nil {
			return treatment.Calibration{}, err
		}
		m := repo.NewMemoryRepository()
		if err := repo.Seed(ctx, m, cals); err != nil {
			return treatment.Calibration{}, err
		}
		r.Repo = m
	}
	return r.Resolve(ctx, profile)
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := b.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.Log.Warn("getUpdates error", zap.Error(err))
			sleep(ctx, 2*time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message != nil && u.Message.Text != "" {
				b.handleMessage(ctx, u.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *Message) {
	reply := Reply(m.Text, b.Cal)
	if err := b.sendMessage(ctx, m.Chat.ID, reply); err != nil {
		b.Log.Warn("sendMessage error", zap.Int64("chat", m.Chat.ID), zap.Error(err))
	}
}

func (b *Bot) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	u := fmt.Sprintf("%s/bot%s/getUpdates?timeout=20&offset=%d", b.BaseURL, b.Token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("getUpdates: status %s", res.Status)
	}
	return out.Result, nil
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{}
	form.Set("chat_id", fmt.Sprint(chatID))
	form.Set("text", text)
	u := fmt.Sprintf("%s/bot%s/sendMessage", b.BaseURL, b.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage: status %s", res.Status)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
