package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{ calls int }

func (s *failingSink) Send(ctx context.Context, payload interface{}) error {
	s.calls++
	return errors.New("boom")
}

func TestWebhookSinkPostsJSON(t *testing.T) {
	var got []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL, time.Second)
	err := sink.Send(context.Background(), TextMessage{Text: "hello"})
	require.NoError(t, err)

	var msg TextMessage
	require.NoError(t, json.Unmarshal(got, &msg))
	assert.Equal(t, "hello", msg.Text)
}

func TestWebhookSinkNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL, time.Second)
	err := sink.Send(context.Background(), TextMessage{Text: "hello"})
	assert.ErrorContains(t, err, "502")
}

func TestNotifierSwallowsSinkFailure(t *testing.T) {
	sink := &failingSink{}
	notifier := NewNotifier(sink, nil)

	notifier.Text(context.Background(), "does not panic")
	assert.Equal(t, 1, sink.calls)
}

func TestNotifierNilSink(t *testing.T) {
	notifier := NewNotifier(nil, nil)
	notifier.Text(context.Background(), "dropped")
}

func TestBreakGlassCardShape(t *testing.T) {
	card := BreakGlassCard("ops@example.com", "prod root", "db is down", "req-1")
	require.Len(t, card.CardsV2, 1)
	assert.Equal(t, "breakglass-req-1", card.CardsV2[0].CardID)
	assert.Equal(t, "ops@example.com", card.CardsV2[0].Card.Header.Subtitle)

	body, err := json.Marshal(card)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"cardsV2"`)
	assert.Contains(t, string(body), `"decoratedText"`)
}
