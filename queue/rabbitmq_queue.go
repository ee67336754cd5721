package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "corp_gateway"

	reconnectDelay   = time.Second
	maxReconnectTime = 30 * time.Second
)

var declaredJobTypes = []JobType{JobTypeNEFTHold}

type RabbitMQQueue struct {
	url         string
	conn        *amqp.Connection
	channel     *amqp.Channel
	connMutex   sync.RWMutex
	notifyClose chan *amqp.Error
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewRabbitMQQueue(url string) (*RabbitMQQueue, error) {
	ctx, cancel := context.WithCancel(context.Background())

	queue := &RabbitMQQueue{
		url:         url,
		notifyClose: make(chan *amqp.Error),
		ctx:         ctx,
		cancel:      cancel,
	}

	if err := queue.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	if err := queue.setupQueues(); err != nil {
		cancel()
		queue.close()
		return nil, fmt.Errorf("setup queues: %w", err)
	}

	go queue.reconnect()

	return queue, nil
}

func (q *RabbitMQQueue) connect() error {
	q.connMutex.Lock()
	defer q.connMutex.Unlock()

	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}

	q.conn = conn
	q.channel = channel
	q.notifyClose = make(chan *amqp.Error, 1)
	q.conn.NotifyClose(q.notifyClose)

	utils.Logger.Info().Msg("connected to rabbitmq")
	return nil
}

// Topology describes a work queue and its dead letter queue.
type Topology struct {
	Queue      string
	DeadLetter string
	Args       amqp.Table
}

func topologyFor(jobType JobType) Topology {
	name := string(jobType)
	return Topology{
		Queue:      name,
		DeadLetter: name + "_dlq",
		Args: amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": name + "_dlq",
		},
	}
}

func (q *RabbitMQQueue) setupQueues() error {
	q.connMutex.RLock()
	ch := q.channel
	q.connMutex.RUnlock()

	if ch == nil {
		return fmt.Errorf("channel not available")
	}

	if err := ch.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, jobType := range declaredJobTypes {
		topo := topologyFor(jobType)

		queue, err := ch.QueueDeclare(topo.Queue, true, false, false, false, topo.Args)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", topo.Queue, err)
		}

		dlq, err := ch.QueueDeclare(topo.DeadLetter, true, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("declare dead letter queue %s: %w", topo.DeadLetter, err)
		}

		if err := ch.QueueBind(queue.Name, topo.Queue, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", topo.Queue, err)
		}

		if err := ch.QueueBind(dlq.Name, topo.DeadLetter, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("bind dead letter queue %s: %w", topo.DeadLetter, err)
		}
	}

	return nil
}

func (q *RabbitMQQueue) reconnect() {
	for {
		q.connMutex.RLock()
		notify := q.notifyClose
		q.connMutex.RUnlock()

		select {
		case <-q.ctx.Done():
			return
		case err, ok := <-notify:
			if q.ctx.Err() != nil {
				return
			}
			if ok && err != nil {
				utils.Logger.Error().Err(err).Msg("rabbitmq connection closed, reconnecting")
			} else {
				utils.Logger.Warn().Msg("rabbitmq connection closed, reconnecting")
			}
			q.reconnectWithBackoff()
		}
	}
}

func (q *RabbitMQQueue) reconnectWithBackoff() {
	backoff := reconnectDelay

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-time.After(backoff):
		}

		if err := q.connect(); err != nil {
			utils.Logger.Error().Err(err).Dur("backoff", backoff).Msg("reconnection failed, retrying")
			backoff = min(backoff*2, maxReconnectTime)
			continue
		}

		if err := q.setupQueues(); err != nil {
			utils.Logger.Error().Err(err).Msg("failed to setup queues after reconnection")
			backoff = min(backoff*2, maxReconnectTime)
			continue
		}

		utils.Logger.Info().Msg("rabbitmq reconnected successfully")
		return
	}
}

func (q *RabbitMQQueue) getChannel() (*amqp.Channel, error) {
	q.connMutex.RLock()
	ch := q.channel
	q.connMutex.RUnlock()

	if ch == nil || ch.IsClosed() {
		return nil, fmt.Errorf("channel not available")
	}

	return ch, nil
}

func newPublishing(job *Job, body []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		DeliveryMode:  amqp.Persistent,
		MessageId:     job.ID,
		CorrelationId: job.TraceID,
		Type:          string(job.Type),
		Timestamp:     job.CreatedAt,
	}
}

func (q *RabbitMQQueue) Enqueue(ctx context.Context, jobType JobType, payload any) error {
	ch, err := q.getChannel()
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}

	job, jobBytes, err := newJob(ctx, jobType, payload)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		ExchangeName,
		string(jobType),
		false,
		false,
		newPublishing(job, jobBytes),
	); err != nil {
		return fmt.Errorf("publish job: %w", err)
	}

	utils.Logger.Info().
		Str("job_id", job.ID).
		Str("job_type", string(jobType)).
		Str("trace_id", job.TraceID).
		Msg("job enqueued to rabbitmq")

	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.cancel()
	q.close()
	return nil
}

func (q *RabbitMQQueue) close() {
	q.connMutex.Lock()
	defer q.connMutex.Unlock()

	if q.channel != nil {
		q.channel.Close()
		q.channel = nil
	}
	if q.conn != nil {
		q.conn.Close()
		q.conn = nil
	}
}
