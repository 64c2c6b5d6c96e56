package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func recordingServer(t *testing.T, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestProcessTaskApprovalNoticeForwardsPayload(t *testing.T) {
	srv, bodies := recordingServer(t, http.StatusOK)
	p := &RedisTaskProcessor{
		forwarder: notify.NewForwarder(srv.Client(), srv.URL, "secret", zerolog.Nop()),
		logger:    zerolog.Nop(),
	}

	payload, err := json.Marshal(notify.ApprovalNotice{Type: notify.TypeGroup, Item: map[string]string{"name": "Book club"}})
	require.NoError(t, err)

	require.NoError(t, p.ProcessTaskApprovalNotice(context.Background(), asynq.NewTask(TaskApprovalNotice, payload)))
	require.Len(t, *bodies, 1)
	require.JSONEq(t, string(payload), (*bodies)[0])
}

func TestProcessTaskApprovalNoticeBadPayloadSkipsRetry(t *testing.T) {
	p := &RedisTaskProcessor{
		forwarder: notify.NewForwarder(nil, "http://unused", "secret", zerolog.Nop()),
		logger:    zerolog.Nop(),
	}
	err := p.ProcessTaskApprovalNotice(context.Background(), asynq.NewTask(TaskApprovalNotice, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskApprovalNoticeUpstreamErrorRetries(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusBadGateway)
	p := &RedisTaskProcessor{
		forwarder: notify.NewForwarder(srv.Client(), srv.URL, "secret", zerolog.Nop()),
		logger:    zerolog.Nop(),
	}
	err := p.ProcessTaskApprovalNotice(context.Background(), asynq.NewTask(TaskApprovalNotice, []byte(`{"type":"event","item":{}}`)))
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestInlineDistributorNeverFails(t *testing.T) {
	srv, bodies := recordingServer(t, http.StatusInternalServerError)
	d := NewInlineDistributor(notify.NewForwarder(srv.Client(), srv.URL, "secret", zerolog.Nop()), zerolog.Nop())

	err := d.DistributeTaskApprovalNotice(context.Background(), notify.ApprovalNotice{Type: notify.TypeEvent, Item: "x"})
	require.NoError(t, err)
	require.Len(t, *bodies, 1)

	unconfigured := NewInlineDistributor(notify.NewForwarder(nil, "", "", zerolog.Nop()), zerolog.Nop())
	require.NoError(t, unconfigured.DistributeTaskApprovalNotice(context.Background(), notify.ApprovalNotice{Type: notify.TypeGroup}))
}
