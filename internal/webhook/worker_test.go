package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/incident_risk_system/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return logger
}

func workerConfig(url string) *config.Config {
	return &config.Config{
		WebhookURL:        url,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
}

type countingBody struct {
	*strings.Reader
	closes *int32
}

func (b *countingBody) Close() error {
	atomic.AddInt32(b.closes, 1)
	return nil
}

// flakyTransport отвечает ошибками заданное число раз и фиксирует, сколько
// тел ответов было закрыто к началу каждой следующей попытки
type flakyTransport struct {
	failures int

	calls    int
	closes   int32
	observed []int32
}

func (tr *flakyTransport) RoundTrip(*http.Request) (*http.Response, error) {
	tr.calls++
	tr.observed = append(tr.observed, atomic.LoadInt32(&tr.closes))

	status := http.StatusOK
	if tr.calls <= tr.failures {
		status = http.StatusInternalServerError
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       &countingBody{Reader: strings.NewReader("{}"), closes: &tr.closes},
	}, nil
}

func TestDeliverAlert_ClosesBodyBeforeNextAttempt(t *testing.T) {
	// Подготовка: первые две попытки получают 500, третья проходит
	transport := &flakyTransport{failures: 2}
	w := NewAlertWorker(nil, silentLogger(), workerConfig("http://webhook.local/alerts"))
	w.httpClient = &http.Client{Transport: transport}

	// Действие
	w.deliverAlert(context.Background(), AlertEvent{Severity: 9}, `{"severity":9}`)

	// Проверки: к началу каждой повторной попытки тела всех предыдущих
	// уже закрыты
	require.Equal(t, 3, transport.calls)
	assert.Equal(t, []int32{0, 1, 2}, transport.observed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&transport.closes))
}

func TestDeliverAlert_RetriesUntilSuccessAndSigns(t *testing.T) {
	// Подготовка
	var mu sync.Mutex
	attempts := 0
	var signatures []string

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		current := attempts
		signatures = append(signatures, r.Header.Get("X-Webhook-Signature"))
		mu.Unlock()

		if current < 3 {
			rw.WriteHeader(http.StatusInternalServerError)
			return
		}
		rw.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := workerConfig(srv.URL)
	cfg.WebhookSecret = "test-secret"
	w := NewAlertWorker(nil, silentLogger(), cfg)

	payload := `{"severity":9,"city":"tel aviv"}`

	// Действие
	w.deliverAlert(context.Background(), AlertEvent{Severity: 9}, payload)

	// Проверки
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 3, attempts)
	expected := generateHMACSHA256(payload, "test-secret")
	for _, sig := range signatures {
		assert.Equal(t, expected, sig)
	}
}

func TestDeliverAlert_SkipsWhenURLNotConfigured(t *testing.T) {
	// Подготовка
	transport := &flakyTransport{}
	w := NewAlertWorker(nil, silentLogger(), workerConfig(""))
	w.httpClient = &http.Client{Transport: transport}

	// Действие
	w.deliverAlert(context.Background(), AlertEvent{Severity: 9}, `{}`)

	// Проверки: без адреса доставка не предпринимается
	assert.Equal(t, 0, transport.calls)
}
