package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"reserva/internal/domain"
)

// PushSender is the seam over the webpush library so tests can fake delivery.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender delivers through the real webpush endpoint.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionSource resolves which endpoints a job fans out to and prunes the
// dead ones.
type SubscriptionSource interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.PushSubscription, error)
	ListAdmins(ctx context.Context) ([]domain.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// Job is one push to deliver. UserID zero addresses all administrators.
type Job struct {
	UserID  int64
	Title   string
	Body    string
	Payload map[string]any
}

// WorkerPool fans push jobs out over a fixed set of workers. Dispatch never
// blocks the request path: when the queue is full the job is dropped with a
// log line, since a missed push is preferable to a stalled booking.
type WorkerPool struct {
	size    int
	jobs    chan Job
	subs    SubscriptionSource
	options *webpush.Options
	sender  PushSender
}

func NewWorkerPool(size int, subs SubscriptionSource, options *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*4),
		subs:    subs,
		options: options,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines. They run until ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(ctx, job)
		case <-ctx.Done():
			log.Printf("push worker %d shutting down", id)
			return
		}
	}
}

func (wp *WorkerPool) Dispatch(job Job) {
	select {
	case wp.jobs <- job:
	default:
		log.Printf("push queue full, dropping notification %q for user %d", job.Title, job.UserID)
	}
}

// Jobs exposes the queue for tests.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

func (wp *WorkerPool) deliver(ctx context.Context, job Job) {
	var (
		subs []domain.PushSubscription
		err  error
	)
	if job.UserID == 0 {
		subs, err = wp.subs.ListAdmins(ctx)
	} else {
		subs, err = wp.subs.ListByUser(ctx, job.UserID)
	}
	if err != nil {
		log.Printf("error fetching subscriptions for job %q: %v", job.Title, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"title": job.Title,
		"body":  job.Body,
		"data":  job.Payload,
	})
	if err != nil {
		log.Printf("error encoding notification %q: %v", job.Title, err)
		return
	}

	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub domain.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.options)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// 410 means the browser dropped the subscription.
	if resp.StatusCode == http.StatusGone {
		if err := wp.subs.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
