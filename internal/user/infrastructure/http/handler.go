package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/microshop/microshop/internal/user/application"
	"github.com/microshop/microshop/internal/user/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthcheck", h.healthcheck)
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
	return r
}

type userReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func userJSON(u domain.User) map[string]any {
	return map[string]any{"id": u.ID, "name": u.Name, "email": u.Email}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.service.Create(r.Context(), domain.User{Name: req.Name, Email: req.Email})
	if err != nil {
		h.writeError(w, err, "could not create user")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user created successfully",
		"user":    userJSON(u),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err, "could not list users")
		return
	}
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "could not fetch user")
		return
	}
	writeJSON(w, http.StatusOK, userJSON(u))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req userReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.service.Update(r.Context(), domain.User{ID: id, Name: req.Name, Email: req.Email})
	if err != nil {
		h.writeError(w, err, "could not update user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "user updated successfully",
		"user":    userJSON(u),
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "could not delete user")
		return
	}
	writeMessage(w, http.StatusOK, "user deleted successfully")
}

func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrInvalidUser):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(fallback, "err", err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
