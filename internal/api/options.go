package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/form"
)

// optionView is the wire shape of one option with its live control state.
type optionView struct {
	Key        string                   `json:"key"`
	Service    string                   `json:"service"`
	Category   string                   `json:"category"`
	Descriptor catalog.OptionDescriptor `json:"descriptor"`
	Value      string                   `json:"value"`
	Dirty      bool                     `json:"dirty"`
	Pending    bool                     `json:"pending"`
	Issue      string                   `json:"issue,omitempty"`
}

func (s *Server) optionView(service, category string, d catalog.OptionDescriptor) optionView {
	key := catalog.Key(service, category, d.Name)
	view := optionView{
		Key:        key,
		Service:    service,
		Category:   category,
		Descriptor: d,
	}
	if view.Descriptor.Sensitive || view.Descriptor.IsPassword {
		view.Descriptor.Value = nil
		view.Descriptor.ValueStr = ""
	}
	if ctl, ok := s.engine.Control(key); ok {
		if !d.Sensitive && !d.IsPassword {
			view.Value = ctl.Value().Raw()
		}
		view.Dirty = ctl.Dirty()
		view.Pending = s.engine.Pending(key)
		if issue := ctl.Issue(); issue != nil {
			view.Issue = issue.Message
		}
	}
	return view
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	grouped := s.engine.Catalog()
	out := make(map[string]map[string][]optionView, len(grouped))
	for service, categories := range grouped {
		out[service] = make(map[string][]optionView, len(categories))
		for category, descriptors := range categories {
			views := make([]optionView, 0, len(descriptors))
			for _, d := range descriptors {
				views = append(views, s.optionView(service, category, d))
			}
			out[service][category] = views
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	categories, ok := s.engine.Catalog()[service]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown service")
		return
	}
	out := make(map[string][]optionView, len(categories))
	for category, descriptors := range categories {
		views := make([]optionView, 0, len(descriptors))
		for _, d := range descriptors {
			views = append(views, s.optionView(service, category, d))
		}
		out[category] = views
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOption(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")

	d, ok := s.engine.Catalog().Find(service, category, name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown option")
		return
	}
	respondJSON(w, http.StatusOK, s.optionView(service, category, d))
}

type saveRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSaveOption(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")
	key := catalog.Key(service, category, name)

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctl, ok := s.engine.Control(key)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown option")
		return
	}
	if err := s.engine.SetValue(key, req.Value); err != nil {
		s.respondSaveError(w, err)
		return
	}

	if err := s.engine.Save(r.Context(), key); err != nil {
		s.respondSaveError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.optionView(service, category, ctl.Descriptor))
}

func (s *Server) handleRemoveOption(w http.ResponseWriter, r *http.Request) {
	service := chi.URLParam(r, "service")
	category := chi.URLParam(r, "category")
	name := chi.URLParam(r, "name")
	key := catalog.Key(service, category, name)

	ctl, ok := s.engine.Control(key)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown option")
		return
	}
	if err := s.engine.SetValue(key, ctl.Descriptor.DefaultStr); err != nil {
		s.respondSaveError(w, err)
		return
	}

	if err := s.engine.Save(r.Context(), key); err != nil {
		s.respondSaveError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.optionView(service, category, ctl.Descriptor))
}

func (s *Server) respondSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, form.ErrInvalid):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, form.ErrSaveInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, form.ErrUnknownKey):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusBadGateway, err.Error())
	}
}
