package kafka

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/IBM/sarama"
)

// LocationMessage is the live-tracking payload.
type LocationMessage struct {
	SampleID   string    `json:"sample_id"`
	DriverID   string    `json:"driver_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Bearing    *float64  `json:"bearing,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// LocationPublisher streams position reports keyed by driver id.
type LocationPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewLocationPublisher(producer sarama.SyncProducer, topic string) (*LocationPublisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	return &LocationPublisher{producer: producer, topic: topic}, nil
}

var _ ports.LocationPublisher = (*LocationPublisher)(nil)

func (p *LocationPublisher) PublishLocation(_ context.Context, sample *driver.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(LocationMessage{
		SampleID:   sample.ID().String(),
		DriverID:   sample.DriverID().String(),
		Lat:        sample.Point().Lat(),
		Lng:        sample.Point().Lng(),
		Bearing:    sample.Bearing(),
		RecordedAt: sample.RecordedAt(),
	})
	if err != nil {
		return err
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(sample.DriverID().String()),
		Value:     sarama.ByteEncoder(body),
		Timestamp: sample.RecordedAt(),
	})
	if err != nil {
		return errs.NewInfrastructureErrorWithCause("publish driver location", err)
	}
	return nil
}
