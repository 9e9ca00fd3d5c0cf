package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotifyWebhook отправляет уведомление о попытке обновления токенов
// с нового IP адреса
func NotifyWebhook(webhookURL string, userID int64, newIP, knownIP string) error {
	if webhookURL == "" {
		return nil
	}

	payload := struct {
		UserID  int64  `json:"user_id"`
		NewIP   string `json:"new_ip"`
		KnownIP string `json:"known_ip"`
		At      string `json:"at"`
	}{
		UserID:  userID,
		NewIP:   newIP,
		KnownIP: knownIP,
		At:      time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации webhook: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook вернул статус %d", resp.StatusCode)
	}

	return nil
}
