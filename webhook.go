package gorecipes

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RecipeNotification is the payload posted to a user's webhook URL when one
// of their recipes is created.
type RecipeNotification struct {
	RecipeID     ID       `json:"recipeId"`
	Title        string   `json:"title"`
	Servings     string   `json:"servings"`
	Category     string   `json:"category"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

type webhookBody struct {
	RecipeNotification
	Secret  string `json:"secret"`
	Webhook string `json:"webhook"`
}

// Dispatcher delivers webhook notifications. One POST per notification, no
// retries; a failed delivery is the caller's to report.
type Dispatcher struct {
	client *resty.Client
	log    *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	return &Dispatcher{client: client, log: log}
}

func (d *Dispatcher) Send(ctx context.Context, n RecipeNotification, secret, url string) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookBody{RecipeNotification: n, Secret: secret, Webhook: url}).
		Post(url)
	if err != nil {
		return &WebhookError{Cause: err}
	}
	if resp.IsError() {
		return &WebhookError{Cause: fmt.Errorf("unexpected status %s from %s", resp.Status(), url)}
	}

	d.log.Info("webhook delivered",
		zap.String("recipeId", string(n.RecipeID)),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()))
	return nil
}
