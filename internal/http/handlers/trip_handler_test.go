// README: Integration tests for the trip planning endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tripmate/internal/http/handlers"
	"tripmate/internal/trip"
)

// stubPlanner is a test double for handlers.Planner.
type stubPlanner struct {
	resp trip.Response
	err  error
	got  string
}

func (s *stubPlanner) Plan(_ context.Context, rawText string) (trip.Response, error) {
	s.got = rawText
	return s.resp, s.err
}

// buildTestRouter wires a minimal Gin engine with the trip handler.
func buildTestRouter(p handlers.Planner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewTripHandler(p, zap.NewNop())
	r.POST("/api/trip/plan", h.Plan)
	r.GET("/ws", h.Stream)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestPlan_OK verifies a successful plan round-trips the composed reply.
func TestPlan_OK(t *testing.T) {
	stub := &stubPlanner{resp: trip.Response{
		Text: "Here is the plan.",
		Results: &trip.RankedResultSet{
			QueryID: "q-1",
			Offers:  map[trip.Category][]trip.Offer{trip.CategoryFlight: {}},
		},
	}}
	r := buildTestRouter(stub)

	w := doRequest(r, http.MethodPost, "/api/trip/plan", map[string]any{
		"query": "flight from Agra to Bali on 2024-05-15",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var out struct {
		Reply   string          `json:"reply"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Reply != "Here is the plan." {
		t.Errorf("reply = %q", out.Reply)
	}
	if len(out.Results) == 0 {
		t.Error("results missing from response")
	}
	if stub.got != "flight from Agra to Bali on 2024-05-15" {
		t.Errorf("planner received %q", stub.got)
	}
}

// TestPlan_InvalidJSON verifies malformed bodies are rejected up front.
func TestPlan_InvalidJSON(t *testing.T) {
	r := buildTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodPost, "/api/trip/plan", strings.NewReader(`{"query": `))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// TestPlan_MissingQuery verifies a blank query never reaches the pipeline.
func TestPlan_MissingQuery(t *testing.T) {
	stub := &stubPlanner{}
	r := buildTestRouter(stub)

	w := doRequest(r, http.MethodPost, "/api/trip/plan", map[string]any{"query": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if stub.got != "" {
		t.Errorf("planner was called with %q", stub.got)
	}
}

// TestPlan_Unparseable verifies a parse failure comes back as 422 with a
// clarification the client can show.
func TestPlan_Unparseable(t *testing.T) {
	stub := &stubPlanner{err: &trip.ParseFailure{Reason: "model returned prose", Raw: "certainly!"}}
	r := buildTestRouter(stub)

	w := doRequest(r, http.MethodPost, "/api/trip/plan", map[string]any{"query": "take me somewhere nice"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var out struct {
		Error string `json:"error"`
		Ask   string `json:"ask"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Ask == "" {
		t.Error("expected a clarification ask in the body")
	}
}

// TestPlan_InvalidQuery verifies validation errors surface their message and field.
func TestPlan_InvalidQuery(t *testing.T) {
	stub := &stubPlanner{err: &trip.ValidationError{
		Kind:    trip.MissingRequiredField,
		Field:   "destination",
		Message: "where do you want to go?",
	}}
	r := buildTestRouter(stub)

	w := doRequest(r, http.MethodPost, "/api/trip/plan", map[string]any{"query": "book something"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var out struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Error != "where do you want to go?" {
		t.Errorf("error = %q", out.Error)
	}
	if out.Field != "destination" {
		t.Errorf("field = %q", out.Field)
	}
}

// TestPlan_UpstreamFailure verifies unexpected pipeline errors map to 502.
func TestPlan_UpstreamFailure(t *testing.T) {
	r := buildTestRouter(&stubPlanner{err: errors.New("generation backend down")})

	w := doRequest(r, http.MethodPost, "/api/trip/plan", map[string]any{"query": "flight from Agra to Bali"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

type wsMessage struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	return conn
}

// TestStream_Roundtrip verifies one conversational turn over the socket, and
// that an empty message gets an error reply without closing the connection.
func TestStream_Roundtrip(t *testing.T) {
	stub := &stubPlanner{resp: trip.Response{Text: "Bali it is."}}
	srv := httptest.NewServer(buildTestRouter(stub))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"message": "flight from Agra to Bali on 2024-05-15"}); err != nil {
		t.Fatalf("writing turn: %v", err)
	}
	var reply wsMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading reply: %v", err)
	}
	if reply.Reply != "Bali it is." {
		t.Errorf("reply = %+v", reply)
	}

	if err := conn.WriteJSON(map[string]string{"message": "  "}); err != nil {
		t.Fatalf("writing empty turn: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading error reply: %v", err)
	}
	if reply.Error != "empty message" {
		t.Errorf("error = %q, want empty-message reply", reply.Error)
	}
}

// TestStream_PipelineErrorsStayConversational verifies pipeline failures are
// rendered as chat replies rather than closing the socket.
func TestStream_PipelineErrorsStayConversational(t *testing.T) {
	stub := &stubPlanner{err: &trip.ValidationError{
		Kind:    trip.MissingRequiredField,
		Field:   "start_date",
		Message: "what date do you want to leave?",
	}}
	srv := httptest.NewServer(buildTestRouter(stub))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"message": "trip to Bali sometime"}); err != nil {
		t.Fatalf("writing turn: %v", err)
	}
	var reply wsMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading reply: %v", err)
	}
	if !strings.Contains(reply.Error, "what date do you want to leave?") {
		t.Errorf("error = %q, want the validation message", reply.Error)
	}

	// The socket survives the failed turn.
	if err := conn.WriteJSON(map[string]string{"message": "  "}); err != nil {
		t.Fatalf("socket closed after pipeline error: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading follow-up reply: %v", err)
	}
}
