package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-catalog-service/internal/broker"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
)

const (
	EventOrderCreated = "OrderCreated"
	referenceOrder    = "order"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener reduces variant stock for every OrderCreated event.
type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderPayload struct {
	OrderID string             `json:"order_id"`
	Items   []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// processMessage applies each item independently; one failing item does not
// stop the rest of the order.
func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Envelope
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventOrderCreated {
		return
	}

	order, err := broker.UnwrapPayload[OrderPayload](event.Payload)
	if err != nil {
		l.logger.Error("Failed to decode order payload", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", order.OrderID))

	refType := referenceOrder
	for i, item := range order.Items {
		refID := fmt.Sprintf("%s#%d", order.OrderID, i)
		_, err := l.uc.ReduceStock(ctx, &dto.AdjustStockInput{
			VariantID:     item.VariantID,
			Quantity:      item.Quantity,
			ReferenceType: &refType,
			ReferenceID:   &refID,
		})
		if err != nil {
			l.logger.Error("Failed to reduce stock for order item",
				zap.String("order_id", order.OrderID),
				zap.Int64("variant_id", item.VariantID),
				zap.Error(err),
			)
		}
	}
}
