package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-live-inventory/config"
	"github.com/oksasatya/go-live-inventory/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/go-live-inventory/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.ItemEventsEnabled {
		log.Println("ITEM_EVENTS_ENABLED=false; activity worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQItemEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	logger := helpers.NewLogger(cfg.AppName+"-activity", cfg.Env)

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQItemEventsQueue, 16)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			ev, err := rabbitmq.DecodeItemEvent(msg.Body)
			if err != nil {
				entry := logger.WithError(err).WithField("type", msg.Type)
				if errors.Is(err, rabbitmq.ErrUnknownEventType) {
					entry.Warn("skipping unknown item event")
				} else {
					entry.Error("bad message")
				}
				_ = msg.Nack(false, false)
				continue
			}
			logger.WithFields(rabbitmq.ActivityFields(ev)).Info("inventory activity")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("activity worker listening on queue=%s", cfg.RabbitMQItemEventsQueue)
	<-stop
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
