package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trimspace/backend/internal/connectivity"
)

// ConnectivityHandler exposes the monitor's state and transition stream to UI
// chrome such as an offline banner.
type ConnectivityHandler struct {
	monitor *connectivity.Monitor
}

// NewConnectivityHandler creates a new ConnectivityHandler
func NewConnectivityHandler(monitor *connectivity.Monitor) *ConnectivityHandler {
	return &ConnectivityHandler{monitor: monitor}
}

// RegisterConnectivityRoutes registers connectivity routes
func (h *ConnectivityHandler) RegisterConnectivityRoutes(g *echo.Group) {
	g.GET("/connectivity", h.GetState)
	g.GET("/connectivity/events", h.StreamEvents)
}

// GetState returns the current best-effort connectivity state
func (h *ConnectivityHandler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"state":     h.monitor.State(),
		"connected": h.monitor.IsConnected(),
	})
}

// StreamEvents streams lost/restored transitions as server-sent events until
// the client disconnects.
func (h *ConnectivityHandler) StreamEvents(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	events, cancel := h.monitor.Subscribe()
	defer cancel()

	// Initial state so late subscribers render the right banner immediately.
	fmt.Fprintf(res, "event: state\ndata: %s\n\n", h.monitor.State())
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev, ev)
			res.Flush()
		}
	}
}
