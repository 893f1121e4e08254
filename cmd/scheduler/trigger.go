package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Trigger calls job endpoints with the shared cron key.
type Trigger struct {
	client  *resty.Client
	baseURL string
	key     string
}

func NewTrigger(client *resty.Client, baseURL, key string) *Trigger {
	return &Trigger{client: client, baseURL: baseURL, key: key}
}

type expireResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Expired int64 `json:"expired"`
	} `json:"data"`
}

// ExpireSubscriptions fires the expiry job and returns how many subscriptions it expired.
func (t *Trigger) ExpireSubscriptions() (int64, error) {
	var out expireResponse
	resp, err := t.client.R().
		SetHeader("X-Cron-Key", t.key).
		SetResult(&out).
		Post(t.baseURL + "/jobs/subscriptions/expire")
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}
	if resp.StatusCode() != 200 || !out.Success {
		return 0, fmt.Errorf("expire subscriptions: http %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Data.Expired, nil
}
