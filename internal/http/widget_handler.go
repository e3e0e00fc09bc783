package http

import (
	"net/http"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/chatwidget"
)

// WidgetHandler serves the public chat widget config consumed by the
// storefront on page load.
type WidgetHandler struct {
	widget *chatwidget.Service
}

func NewWidgetHandler(widget *chatwidget.Service) *WidgetHandler {
	return &WidgetHandler{widget: widget}
}

func (h *WidgetHandler) PublicConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.widget.PublicView(r.Context()))
}
