package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherSendsKeyedEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "sharpline.predictions" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "pred-1" {
			return errors.New("wrong key " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var evt PredictionCreated
		if err := json.Unmarshal(raw, &evt); err != nil {
			return err
		}
		if evt.Type != TypePredictionCreated || evt.Primary != "grok" {
			return errors.New("unexpected payload " + string(raw))
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "sharpline.predictions")
	err := pub.PublishPredictionCreated(context.Background(), PredictionCreated{PredictionID: "pred-1", Primary: "grok", Probability: 0.62})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherSurfacesSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "topic")
	err := pub.PublishPredictionCreated(context.Background(), PredictionCreated{PredictionID: "p"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherCanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "topic")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.PublishPredictionCreated(ctx, PredictionCreated{}), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishPredictionCreated(context.Background(), PredictionCreated{}))
	assert.NoError(t, p.Close())
}
