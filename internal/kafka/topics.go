package kafka

import (
	kafkaGo "github.com/segmentio/kafka-go"
)

// Топики событий жизненного цикла клиента
const (
	TopicCustomerCreated = "customer.created"
	TopicCustomerUpdated = "customer.updated"
	TopicCustomerDeleted = "customer.deleted"
)

// CustomerTopics возвращает конфигурацию топиков, которые нужны сервису
func CustomerTopics() []kafkaGo.TopicConfig {
	return []kafkaGo.TopicConfig{
		{Topic: TopicCustomerCreated, NumPartitions: 3, ReplicationFactor: 1},
		{Topic: TopicCustomerUpdated, NumPartitions: 3, ReplicationFactor: 1},
		{Topic: TopicCustomerDeleted, NumPartitions: 3, ReplicationFactor: 1},
	}
}
