package kafka

import (
	"fmt"

	"kolibra-order-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type producer struct {
	producer *k.Producer
	log      log.Log
}

func NewProducer(configMap *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(configMap)
	if err != nil {
		return nil, err
	}

	// drain delivery reports so the internal queue does not fill up
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *k.Message:
				if ev.TopicPartition.Error != nil {
					logger.Error("kafka-producer", ev.TopicPartition.Error.Error(), "delivery", "")
				}
			case k.Error:
				logger.Error("kafka-producer", ev.Error(), "event", "")
			}
		}
	}()

	return &producer{producer: p, log: logger}, nil
}

func (p *producer) Publish(message *k.Message) error {
	err := p.producer.Produce(message, nil)
	if err != nil {
		p.log.Error("kafka-producer", fmt.Sprintf("failed to produce message: %v", err), "Publish", "")
		return err
	}
	return nil
}

func (p *producer) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
