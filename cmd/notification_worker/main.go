package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/config"
	"github.com/oksasatya/docvault-api/pkg/helpers"
	"github.com/oksasatya/docvault-api/pkg/mailer"
	mailtpl "github.com/oksasatya/docvault-api/pkg/mailer/templates"
)

// errBadJob marks a message that will never succeed and must not be requeued.
var errBadJob = errors.New("bad job")

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notification-worker", cfg.Env)

	if !cfg.NotificationEmailEnabled {
		logger.Info("NOTIFICATION_EMAIL_ENABLED=false; notification worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotificationsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQNotificationsQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQNotificationsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := deliver(c, sender, msg.Body)
			cancel()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, errBadJob):
				helpers.LogError(logger, "dropping notification email", err, nil)
				_ = msg.Nack(false, false)
			default:
				helpers.LogError(logger, "send failed; requeueing", err, logrus.Fields{"redelivered": msg.Redelivered})
				_ = msg.Nack(false, !msg.Redelivered)
			}
		}
		close(done)
	}()

	helpers.LogInfo(logger, "notification worker listening", logrus.Fields{"queue": cfg.RabbitMQNotificationsQueue})
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// deliver decodes one queued job, renders it and hands it to s.
func deliver(ctx context.Context, s mailer.Sender, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return errors.Join(errBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return errors.Join(errBadJob, errors.New("missing recipient"))
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if mailtpl.Known(job.Template) {
		sub, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return errors.Join(errBadJob, err)
		}
		subject, text, html = sub, t, h
	}
	if subject == "" {
		subject = helpers.SubjectFor(job.Template)
	}
	if text == "" && html == "" {
		if m, ok := job.Data["Message"].(string); ok {
			text = m
		}
	}
	if text == "" && html == "" {
		return errors.Join(errBadJob, errors.New("empty body"))
	}
	return s.Send(ctx, job.To, subject, text, html)
}
