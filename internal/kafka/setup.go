package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// EnsureTopics проверяет и создает необходимые топики Kafka.
func EnsureTopics(ctx context.Context, brokers []string, required []kafkaGo.TopicConfig, log *logger.Logger) error {
	log.Infow("Ensuring Kafka topics exist", "topics", topicNames(required))

	broker, err := firstBroker(brokers)
	if err != nil {
		log.Errorw("Invalid Kafka broker address", "brokers", brokers, "error", err)
		return err
	}

	connCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, err := kafkaGo.DialLeader(connCtx, "tcp", broker, "", 0)
	if err != nil {
		log.Errorw("Failed to connect to Kafka broker for topic creation", "broker", broker, "error", err)
		return fmt.Errorf("kafka connection failed: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		log.Errorw("Failed to read partitions from Kafka", "error", err)
		return fmt.Errorf("kafka read partitions failed: %w", err)
	}

	existing := make(map[string]bool)
	for _, p := range partitions {
		existing[p.Topic] = true
	}

	missing := missingTopics(required, existing)
	if len(missing) == 0 {
		log.Infow("All required topics already exist")
		return nil
	}

	log.Infow("Creating topics", "topics", topicNames(missing))
	if err := conn.CreateTopics(missing...); err != nil {
		if !errors.Is(err, kafkaGo.TopicAlreadyExists) {
			log.Errorw("Failed to create topics", "error", err, "topics", topicNames(missing))
			return fmt.Errorf("kafka create topics failed: %w", err)
		}
		log.Warnw("One or more topics already existed during creation attempt", "topics", topicNames(missing))
	}

	log.Infow("Successfully created or verified topics", "topics", topicNames(missing))
	return nil
}

// firstBroker возвращает адрес первого брокера в формате host:port
func firstBroker(brokers []string) (string, error) {
	if len(brokers) == 0 || strings.TrimSpace(brokers[0]) == "" {
		return "", errors.New("kafka broker address is empty")
	}

	broker := strings.TrimSpace(brokers[0])
	_, portStr, err := net.SplitHostPort(broker)
	if err != nil {
		return "", fmt.Errorf("invalid broker address %s: %w", broker, err)
	}
	if _, err := strconv.Atoi(portStr); err != nil {
		return "", fmt.Errorf("invalid broker port %s: %w", broker, err)
	}

	return broker, nil
}

func missingTopics(required []kafkaGo.TopicConfig, existing map[string]bool) []kafkaGo.TopicConfig {
	var missing []kafkaGo.TopicConfig
	for _, config := range required {
		if !existing[config.Topic] {
			missing = append(missing, config)
		}
	}
	return missing
}

func topicNames(configs []kafkaGo.TopicConfig) []string {
	names := make([]string, 0, len(configs))
	for _, tc := range configs {
		names = append(names, tc.Topic)
	}
	return names
}
