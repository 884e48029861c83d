package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/guard"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/store"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/toolbox"
)

// recipePayload is the client-facing recipe document shape.
type recipePayload struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Graph       json.RawMessage `json:"serializedGraph"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validateRequest struct {
	Graph json.RawMessage `json:"serializedGraph"`
}

type validateResponse struct {
	Valid   bool           `json:"valid"`
	Notices []guard.Notice `json:"notices"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.ListRecipes(r.Context())
	if err != nil {
		s.internalError(w, "list recipes", err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipes)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var payload recipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if payload.Title == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	recipe, err := s.store.CreateRecipe(r.Context(), store.Recipe{
		ID:          payload.ID,
		Title:       payload.Title,
		Description: payload.Description,
		Tags:        payload.Tags,
		Graph:       payload.Graph,
	})
	if err != nil {
		s.internalError(w, "create recipe", err)
		return
	}
	s.log.Info("recipe created", "id", recipe.ID, "title", recipe.Title)
	s.writeJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	recipe, err := s.store.GetRecipe(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "recipe not found"})
		return
	}
	if err != nil {
		s.internalError(w, "get recipe", err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payload recipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if payload.Title == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	recipe, err := s.store.UpdateRecipe(r.Context(), store.Recipe{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Tags:        payload.Tags,
		Graph:       payload.Graph,
	})
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "recipe not found"})
		return
	}
	if err != nil {
		s.internalError(w, "update recipe", err)
		return
	}
	s.log.Info("recipe updated", "id", recipe.ID)
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := s.store.DeleteRecipe(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "recipe not found"})
		return
	}
	if err != nil {
		s.internalError(w, "delete recipe", err)
		return
	}
	s.log.Info("recipe deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	xml, err := toolbox.BuildDefault(s.cat)
	if err != nil {
		s.internalError(w, "build palette", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml))
}

// handleValidate replays a serialized graph through the connection guard
// and reports every notice. The document itself is not stored.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Graph) == 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "serializedGraph is required"})
		return
	}

	notices, err := guard.ValidateGraph(req.Graph, s.log)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if notices == nil {
		notices = []guard.Notice{}
	}

	valid := true
	for _, n := range notices {
		if n.Severity == guard.SeverityError {
			valid = false
			break
		}
	}
	s.writeJSON(w, http.StatusOK, validateResponse{Valid: valid, Notices: notices})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op+" failed", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
