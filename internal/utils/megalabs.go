package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vernopromo/internal/logger"
)

const defaultAPIURL = "https://a2p-api.megalabs.ru/sms/v1/sms"

// SMSClient — клиент a2p-шлюза Мегалабс. Одна операция: отправить текст
// на номер. Без ретраев — повтор решает вызывающая сторона.
type SMSClient struct {
	Token  string // Basic-токен шлюза
	Sender string // буквенное имя отправителя
	APIURL string
	client *http.Client
}

func NewSMSClient(token, sender string) *SMSClient {
	return &SMSClient{
		Token:  token,
		Sender: sender,
		APIURL: defaultAPIURL,
		client: &http.Client{},
	}
}

type smsRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send возвращает true только при HTTP 200 от шлюза. Любая транспортная
// ошибка — false, без ретраев.
func (c *SMSClient) Send(phone, message string) (bool, error) {
	body, _ := json.Marshal(smsRequest{
		From:    c.Sender,
		To:      phone,
		Message: message,
	})

	req, err := http.NewRequest(http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+c.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		logger.Log.Warnf("[sms][send] gateway status=%d body=%s", resp.StatusCode, string(respBody))
		return false, nil
	}
	return true, nil
}
