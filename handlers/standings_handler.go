package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandings godoc
// @Summary Таблица факультетов
// @Description Без параметра division сортировка идет по сумме очков.
// @Tags standings
// @Produce json
// @Param division query string false "men, women или overall"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/standings [get]
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	division := models.DivisionOverall
	if v := strings.TrimSpace(r.URL.Query().Get("division")); v != "" {
		division = models.Division(strings.ToLower(v))
		if !division.Valid() {
			badRequestResponse(w, r, fmt.Errorf("invalid division %q", v))
			return
		}
	}

	standings, err := h.standingsService.GetStandings(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"division":  division,
		"standings": standings,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
