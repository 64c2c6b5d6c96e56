package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func do(t *testing.T, h *Handler, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func TestSendRejectsBadSecret(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, "topsecret", "no-reply@example.com", []string{"admin@example.com"}, zerolog.Nop())

	for _, auth := range []string{"", "Bearer wrong", "topsecret"} {
		rec := do(t, h, auth, `{"type":"group","item":{"name":"Yoga"}}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code, auth)
	}
	require.Empty(t, sender.sent)
}

func TestSendRequiresTypeAndItem(t *testing.T) {
	h := NewHandler(&fakeSender{}, "topsecret", "from@example.com", nil, zerolog.Nop())
	rec := do(t, h, "Bearer topsecret", `{"type":"group"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, "Bearer topsecret", `{"item":{"name":"x"}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendDownstreamFailure(t *testing.T) {
	h := NewHandler(&fakeSender{err: errors.New("boom")}, "topsecret", "from@example.com", []string{"a@example.com"}, zerolog.Nop())
	rec := do(t, h, "Bearer topsecret", `{"type":"event","item":{"title":"Picnic"}}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSendOK(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, "topsecret", "from@example.com", []string{"a@example.com"}, zerolog.Nop())
	rec := do(t, h, "Bearer topsecret", `{"type":"event","item":{"title":"Picnic <3","startsAt":"2025-05-01"},"adminUrl":"https://example.com/admin"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	require.Equal(t, "Nuevo evento pendiente de aprobación", msg.Subject)
	require.Equal(t, []string{"a@example.com"}, msg.To)
	require.Contains(t, msg.HTML, "Picnic &lt;3")
	require.Contains(t, msg.HTML, "https://example.com/admin")
}

func TestDefaultSubjectPrefersExplicit(t *testing.T) {
	require.Equal(t, "Hola", Notice{Type: "group", Subject: "Hola"}.DefaultSubject())
	require.Equal(t, "Nuevo grupo pendiente de aprobación", Notice{Type: "group"}.DefaultSubject())
}

func TestAPISender(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewAPISender(srv.Client(), srv.URL, "re_key")
	require.NoError(t, s.Send(context.Background(), Message{From: "a@example.com", To: []string{"b@example.com"}, Subject: "s", HTML: "<p>x</p>"}))
	require.Equal(t, "Bearer re_key", auth)

	require.Error(t, NewAPISender(srv.Client(), srv.URL, "").Send(context.Background(), Message{}))
}

func TestBuildMessageHeaders(t *testing.T) {
	raw := string(buildMessage(Message{From: "a@example.com", To: []string{"b@example.com", "c@example.com"}, Subject: "Hi", HTML: "<b>x</b>"}))
	require.True(t, strings.HasPrefix(raw, "From: a@example.com\r\nTo: b@example.com, c@example.com\r\nSubject: Hi\r\n"))
	require.True(t, strings.HasSuffix(raw, "\r\n\r\n<b>x</b>"))
}
