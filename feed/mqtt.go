package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

var ErrStopped = errors.New("Subscriber stopped")

type Options struct {
	Broker   string
	Port     int
	ClientID string
	Topic    string

	// Handler is called for each valid telemetry message
	Handler func(Telemetry) error

	Log *zap.Logger
}

// Subscriber receives station telemetry from an MQTT broker.
type Subscriber struct {
	client  mqtt.Client
	topic   string
	handler func(Telemetry) error
	log     *zap.Logger

	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewSubscriber(options Options) *Subscriber {
	s := &Subscriber{
		topic:   options.Topic,
		handler: options.Handler,
		log:     options.Log,
		stopCh:  make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", options.Broker, options.Port))
	opts.SetClientID(options.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// Subscriptions do not survive a clean session reconnect, so subscribe
	// on every connect.
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.setConnected(true)
		s.log.Info("MQTT connected", zap.String("broker", options.Broker), zap.Int("port", options.Port))

		if err := s.subscribe(c); err != nil {
			s.log.Error("Failed to subscribe", zap.String("topic", s.topic), zap.Error(err))
		}
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		s.log.Warn("MQTT connection lost", zap.Error(err))
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect waits for the initial broker connection, respecting ctx and
// Disconnect.
func (s *Subscriber) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return ErrStopped
	default:
	}

	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			s.client.Disconnect(0)
			return ctx.Err()
		case <-s.stopCh:
			s.client.Disconnect(0)
			return ErrStopped
		default:
		}
	}
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	token := c.Subscribe(s.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.HandlePayload(msg.Topic(), msg.Payload())
	})

	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", s.topic)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, err)
	}

	s.log.Info("Subscribed", zap.String("topic", s.topic))
	return nil
}

// HandlePayload parses one message and hands it to the handler. Invalid
// messages are logged and dropped.
func (s *Subscriber) HandlePayload(topic string, payload []byte) {
	t, err := ParseTelemetry(payload)
	if err != nil {
		s.log.Warn("Dropping telemetry message",
			zap.String("topic", topic),
			zap.ByteString("payload", payload),
			zap.Error(err))
		return
	}

	if s.handler == nil {
		return
	}

	if err := s.handler(t); err != nil {
		s.log.Error("Telemetry handler failed",
			zap.String("topic", topic),
			zap.String("station", t.StationID),
			zap.Error(err))
		return
	}

	s.log.Debug("Processed telemetry",
		zap.String("station", t.StationID),
		zap.Time("timestamp", t.Timestamp))
}

func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()

	return connected && s.client.IsConnected()
}

// Disconnect is idempotent. After it returns Connect fails with ErrStopped.
func (s *Subscriber) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.IsConnected() {
		token := s.client.Unsubscribe(s.topic)
		token.WaitTimeout(2 * time.Second)
	}

	s.client.Disconnect(250)
	s.setConnected(false)

	s.log.Info("MQTT subscriber disconnected")
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
