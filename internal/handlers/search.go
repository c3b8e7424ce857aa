package handlers

import (
	"net/http"

	"github.com/taskpulse/apiserver/internal/logging"
	"github.com/taskpulse/apiserver/internal/services"
)

type SearchHandler struct {
	searchService *services.SearchService
	logger        logging.Logger
}

func NewSearchHandler(searchService *services.SearchService, logger logging.Logger) *SearchHandler {
	return &SearchHandler{searchService: searchService, logger: logger}
}

// Search handles GET /search?query=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.searchService.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error performing search")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
