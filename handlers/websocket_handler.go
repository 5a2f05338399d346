package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Dosada05/bracket-pool/hub"
	"github.com/Dosada05/bracket-pool/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *hub.Hub
	bracketService services.BracketService
	upgrader       websocket.Upgrader
	logger         *slog.Logger
}

// NewWebSocketHandler accepts origins as configured for CORS; "*" allows any.
func NewWebSocketHandler(h *hub.Hub, bs services.BracketService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:            h,
		bracketService: bs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// ServeWs godoc
// @Summary Live results and standings for a year
// @Tags bracket
// @Description Upgrades to a websocket subscribed to RESULT_RECORDED, RESULT_REMOVED and STANDINGS_UPDATED messages.
// @Param year path int true "Tournament year"
// @Router /ws/years/{year} [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	year, err := getYearFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.bracketService.GetGraph(r.Context(), year); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "year", year, "error", err)
		return
	}

	client := hub.NewClient(h.hub, conn, hub.YearRoom(year))
	if !h.hub.Join(client) {
		h.logger.Warn("websocket hub stopped, closing connection", "year", year)
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
