// README: Trip planning handlers (one-shot HTTP and conversational WebSocket).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tripmate/internal/trip"
)

// planTimeout bounds one full planning round, generation included.
const planTimeout = 60 * time.Second

// Planner is the slice of the planning service the handlers need.
type Planner interface {
	Plan(ctx context.Context, rawText string) (trip.Response, error)
}

type TripHandler struct {
	planner  Planner
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewTripHandler(planner Planner, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		planner: planner,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type planReq struct {
	Query string `json:"query"`
}

type planResp struct {
	Reply   string                `json:"reply"`
	Results *trip.RankedResultSet `json:"results,omitempty"`
}

// Plan handles POST /api/trip/plan.
func (h *TripHandler) Plan(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	resp, err := h.planner.Plan(ctx, req.Query)
	if err != nil {
		h.writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, planResp{Reply: resp.Text, Results: resp.Results})
}

// writePlanError maps pipeline failures onto HTTP statuses. Requests the
// pipeline refused to run get 422 with something actionable; everything else
// is an upstream problem.
func (h *TripHandler) writePlanError(c *gin.Context, err error) {
	var pf *trip.ParseFailure
	var ve *trip.ValidationError
	switch {
	case errors.As(err, &pf):
		writeJSON(c, http.StatusUnprocessableEntity, gin.H{
			"error": "could not understand the request",
			"ask":   trip.ClarificationAsk,
		})
	case errors.As(err, &ve):
		writeJSON(c, http.StatusUnprocessableEntity, gin.H{
			"error": ve.Message,
			"field": ve.Field,
		})
	default:
		h.logger.Error("plan failed", zap.Error(err))
		writeError(c, http.StatusBadGateway, "upstream failure, try again shortly")
	}
}

type wsTurn struct {
	Message string `json:"message"`
}

type wsReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// Stream handles GET /ws. Each message on the socket is one planning turn;
// pipeline failures come back as chat-style error replies instead of closing
// the connection.
func (h *TripHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var turn wsTurn
		if err := conn.ReadJSON(&turn); err != nil {
			return
		}

		turn.Message = strings.TrimSpace(turn.Message)
		if turn.Message == "" {
			if err := conn.WriteJSON(wsReply{Error: "empty message"}); err != nil {
				return
			}
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
		resp, err := h.planner.Plan(ctx, turn.Message)
		cancel()

		var reply wsReply
		if err != nil {
			reply.Error = trip.UserMessage(err)
		} else {
			reply.Reply = resp.Text
		}
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}
