package handler

import (
	"net/http"

	"github.com/ayo6706/fx-converter/internal/api/middleware"
	"github.com/ayo6706/fx-converter/internal/models"
	"github.com/ayo6706/fx-converter/internal/service"
	"go.uber.org/zap"
)

type AdminHandler struct {
	svc *service.RateService
}

func NewAdminHandler(svc *service.RateService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ReloadRates reloads quotes from the configured source. A rejected load
// leaves the active snapshot untouched.
func (h *AdminHandler) ReloadRates(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Reload(r.Context())
	if err != nil {
		zap.L().Warn("manual rate reload failed",
			zap.String("subject", middleware.SubjectFromContext(r.Context())),
			zap.Error(err),
		)
		respondMappedError(w, r, err)
		return
	}

	zap.L().Info("manual rate reload",
		zap.String("subject", middleware.SubjectFromContext(r.Context())),
		zap.Int("quotes", len(snap.Quotes)),
	)
	RespondJSON(w, http.StatusOK, models.ReloadResponse{
		Source:   snap.Source,
		Quotes:   len(snap.Quotes),
		LoadedAt: snap.LoadedAt,
	})
}
