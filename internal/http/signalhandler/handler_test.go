package signalhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalrelaygo/internal/registry"
	"signalrelaygo/internal/services/signaling"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := signaling.NewSignalingService(registry.New(registry.RealClock{}), 8080)
	engine := gin.New()
	New(svc).Register(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSubmitOfferMissingFields(t *testing.T) {
	engine := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{"no sdp", `{"roomId":"r1","peerId":"p1"}`},
		{"no roomId", `{"sdp":"v=0...","peerId":"p1"}`},
		{"empty body", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, engine, http.MethodPost, "/offer", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, "sdp, roomId")
		})
	}
}

func TestSubmitICECandidateMissingFields(t *testing.T) {
	engine := newTestRouter()

	rec := doJSON(t, engine, http.MethodPost, "/ice-candidate", `{"roomId":"r1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "candidate, roomId")
}

func TestPollMissingRoomID(t *testing.T) {
	engine := newTestRouter()

	rec := doJSON(t, engine, http.MethodGet, "/messages", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOfferExchangeOverHTTP(t *testing.T) {
	engine := newTestRouter()

	// p2 polls first; gets an empty JSON array, not null.
	rec := doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	// p1 submits an offer; exactly one peer is known.
	rec = doJSON(t, engine, http.MethodPost, "/offer", `{"sdp":"v=0...","roomId":"r1","peerId":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var submitResp SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitResp))
	assert.True(t, submitResp.Success)
	assert.Equal(t, 1, submitResp.ForwardedTo)
	assert.Equal(t, "Offer received and forwarded", submitResp.Message)

	// p2 receives it once.
	rec = doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []signaling.MessageDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "offer", msgs[0].Type)
	assert.Equal(t, "v=0...", msgs[0].SDP)
	assert.Equal(t, "p1", msgs[0].PeerID)
	assert.Equal(t, "r1", msgs[0].RoomID)

	// Drained: the second poll is empty.
	rec = doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestICECandidateRelayedVerbatim(t *testing.T) {
	engine := newTestRouter()

	doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")

	body := `{"candidate":"candidate:0 1 UDP 2122252543 192.0.2.1 49203 typ host","roomId":"r1","peerId":"p1","sdpMid":"0","sdpMLineIndex":1}`
	rec := doJSON(t, engine, http.MethodPost, "/ice-candidate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "ice-candidate", msgs[0]["type"])
	assert.Equal(t, "0", msgs[0]["sdpMid"])
	assert.Equal(t, float64(1), msgs[0]["sdpMLineIndex"])
	assert.NotContains(t, msgs[0], "sdp")
}

func TestUnknownPeerDefault(t *testing.T) {
	engine := newTestRouter()

	doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	doJSON(t, engine, http.MethodPost, "/answer", `{"sdp":"v=0...","roomId":"r1"}`)

	rec := doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	var msgs []signaling.MessageDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "answer", msgs[0].Type)
	assert.Equal(t, signaling.DefaultPeerID, msgs[0].PeerID)
}

func TestStatusEndpoint(t *testing.T) {
	engine := newTestRouter()

	doJSON(t, engine, http.MethodGet, "/messages?roomId=r1&peerId=p2", "")
	doJSON(t, engine, http.MethodPost, "/offer", `{"sdp":"v=0...","roomId":"r1","peerId":"p1"}`)

	rec := doJSON(t, engine, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st signaling.StatusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "running", st.Status)
	assert.Equal(t, 1, st.Rooms)
	assert.Equal(t, 1, st.TotalPeers)
	assert.Equal(t, 1, st.TotalPendingMessages)
	assert.NotEmpty(t, st.Timestamp)
}
