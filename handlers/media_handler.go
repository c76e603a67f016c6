package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/sportsmeet/services"
)

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(ms services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: ms}
}

// UploadMedia godoc
// @Summary Загрузить фото
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение"
// @Param title formData string false "Подпись"
// @Param sport_id formData int false "Вид спорта"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /api/admin/media [post]
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	file, closeFile, err := readFormFile(r, "file")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeFile()

	input := services.UploadMediaInput{
		Title: strings.TrimSpace(r.FormValue("title")),
		File:  file,
	}
	if raw := strings.TrimSpace(r.FormValue("sport_id")); raw != "" {
		sportID, err := strconv.Atoi(raw)
		if err != nil || sportID <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid sport_id: %q", raw))
			return
		}
		input.SportID = &sportID
	}

	media, err := h.mediaService.UploadMedia(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"media": media}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMedia godoc
// @Summary Галерея
// @Tags media
// @Produce json
// @Param sport_id query int false "Вид спорта"
// @Success 200 {object} map[string]interface{}
// @Router /api/media [get]
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	sportID, err := getOptionalIntQuery(r, "sport_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.mediaService.ListMedia(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"media": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteMedia godoc
// @Summary Удалить фото
// @Tags media
// @Param mediaID path int true "Media ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/media/{mediaID} [delete]
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, err := getIDFromURL(r, "mediaID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.mediaService.DeleteMedia(r.Context(), mediaID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
