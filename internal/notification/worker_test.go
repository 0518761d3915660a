package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"

	"reserva/internal/domain"
)

type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

type fakeSubscriptionSource struct {
	mu      sync.Mutex
	byUser  map[int64][]domain.PushSubscription
	admins  []domain.PushSubscription
	deleted []string
}

func (f *fakeSubscriptionSource) ListByUser(ctx context.Context, userID int64) ([]domain.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byUser[userID], nil
}

func (f *fakeSubscriptionSource) ListAdmins(ctx context.Context) ([]domain.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admins, nil
}

func (f *fakeSubscriptionSource) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, endpoint)
	return nil
}

func okResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &fakeSubscriptionSource{}, &webpush.Options{})

	wp.Dispatch(Job{UserID: 7, Title: "hello"})

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, int64(7), job.UserID)
		assert.Equal(t, "hello", job.Title)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	wp := NewWorkerPool(1, &fakeSubscriptionSource{}, &webpush.Options{})

	// Workers are not running, so the queue fills and further jobs drop
	// instead of blocking.
	for i := 0; i < cap(wp.Jobs())+5; i++ {
		wp.Dispatch(Job{UserID: int64(i)})
	}

	assert.Equal(t, cap(wp.Jobs()), len(wp.Jobs()))
}

func TestWorkerPool_SendsToUserSubscriptions(t *testing.T) {
	source := &fakeSubscriptionSource{
		byUser: map[int64][]domain.PushSubscription{
			7: {{Endpoint: "https://example.com/push", P256DH: "key", Auth: "auth", UserID: 7}},
		},
	}
	wp := NewWorkerPool(1, source, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Contains(t, string(payload), "Reservation approved")
			wg.Done()
			return okResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Job{UserID: 7, Title: "Reservation approved", Body: "see you there"})
	wg.Wait()
}

func TestWorkerPool_AdminBroadcast(t *testing.T) {
	source := &fakeSubscriptionSource{
		admins: []domain.PushSubscription{
			{Endpoint: "https://example.com/a1", UserID: 1},
			{Endpoint: "https://example.com/a2", UserID: 2},
		},
	}
	wp := NewWorkerPool(1, source, &webpush.Options{})

	var mu sync.Mutex
	var endpoints []string
	var wg sync.WaitGroup
	wg.Add(2)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			mu.Lock()
			endpoints = append(endpoints, sub.Endpoint)
			mu.Unlock()
			wg.Done()
			return okResponse(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Job{UserID: 0, Title: "New reservation request"})
	wg.Wait()

	assert.ElementsMatch(t, []string{"https://example.com/a1", "https://example.com/a2"}, endpoints)
}

func TestWorkerPool_PrunesExpiredSubscription(t *testing.T) {
	source := &fakeSubscriptionSource{
		byUser: map[int64][]domain.PushSubscription{
			7: {{Endpoint: "https://example.com/expired", UserID: 7}},
		},
	}
	wp := NewWorkerPool(1, source, &webpush.Options{})

	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return okResponse(http.StatusGone), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Job{UserID: 7, Title: "stale"})

	assert.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return len(source.deleted) == 1 && source.deleted[0] == "https://example.com/expired"
	}, time.Second, 10*time.Millisecond)
}
