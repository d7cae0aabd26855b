//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-kennel/internal/application"
	kennelEvents "github.com/Kilat-Pet-Delivery/service-kennel/internal/events"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// kennelStack holds wired-up kennel service components.
type kennelStack struct {
	Dogs     *application.DogService
	DogRepo  *repository.GormDogRepository
	Consumer *kennelEvents.IntakeEventConsumer
}

// setupPostgres starts a PostgreSQL container, applies the SQL migrations and
// returns a connected GORM DB.
func setupPostgres(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("test_kennel"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(connString, zap.NewNop()), "failed to run migrations")

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(connString), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}
	return db, cleanup
}

// setupContainers starts PostgreSQL and Kafka testcontainers.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	db, cleanupPostgres := setupPostgres(t)

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, kennelEvents.TopicKennelIntake)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		cleanupPostgres()
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupKennelStack wires up the service over PostgreSQL. The intake consumer
// is only created when brokers are given.
func setupKennelStack(t *testing.T, db *gorm.DB, brokers []string) *kennelStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	dogRepo := repository.NewGormDogRepository(db)
	dogSvc := application.NewDogService(dogRepo, repository.NewGormReferenceRepository(db), logger)

	stack := &kennelStack{Dogs: dogSvc, DogRepo: dogRepo}
	if len(brokers) > 0 {
		groupID := fmt.Sprintf("test-kennel-%s", uuid.New().String()[:8])
		stack.Consumer = kennelEvents.NewIntakeEventConsumer(brokers, groupID, kennelEvents.TopicKennelIntake, dogSvc, logger)
	}
	return stack
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	defer func() { _ = writer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")
	value, err := ce.Marshal()
	require.NoError(t, err)

	err = writer.WriteMessages(context.Background(), kafkago.Message{Key: []byte(ce.ID), Value: value})
	require.NoError(t, err, "failed to publish event")
}

// waitForDogNamed polls the dogs table until an active dog with name exists.
func waitForDogNamed(t *testing.T, db *gorm.DB, name string, timeout time.Duration) repository.DogModel {
	t.Helper()
	var result repository.DogModel
	require.Eventually(t, func() bool {
		var model repository.DogModel
		err := db.Where("name = ? AND deleted = ?", name, false).First(&model).Error
		if err != nil {
			return false
		}
		result = model
		return true
	}, timeout, 200*time.Millisecond, "dog %q was not registered", name)
	return result
}

// createTopics pre-creates Kafka topics so consumers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
