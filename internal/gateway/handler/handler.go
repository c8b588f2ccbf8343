// Package handler exposes the workspace over JSON and websocket endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"refactorengine/internal/artifact"
	"refactorengine/internal/packaging"
	"refactorengine/internal/refactor/generation"
	"refactorengine/internal/refactor/run"
	"refactorengine/internal/types"
	"refactorengine/internal/util/jsonutil"
	"refactorengine/internal/workspace"
)

// Handler serves the REST endpoints backed by one workspace.
type Handler struct {
	ws    *workspace.Workspace
	store artifact.Store
	log   logrus.FieldLogger
}

func New(ws *workspace.Workspace, store artifact.Store, log logrus.FieldLogger) *Handler {
	if store == nil {
		store = artifact.NewMemoryStore()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{ws: ws, store: store, log: log.WithField("component", "api")}
}

func (h *Handler) State(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.ws.Snapshot())
}

func (h *Handler) Options(w http.ResponseWriter, _ *http.Request) {
	catalog, err := types.Options()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *Handler) ListInputs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.ws.Inputs())
}

func (h *Handler) AddInput(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, h.ws.AddInput())
}

type editInputRequest struct {
	Content *string `json:"content"`
}

func (h *Handler) EditInput(w http.ResponseWriter, r *http.Request) {
	var in editInputRequest
	if !decode(w, r, &in) {
		return
	}
	if in.Content == nil {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	f, err := h.ws.EditInput(r.PathValue("id"), *in.Content)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) SelectInput(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.SelectInput(r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setConfigRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var in setConfigRequest
	if !decode(w, r, &in) {
		return
	}
	cfg, err := h.ws.SetConfigField(strings.TrimSpace(in.Field), in.Value)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type setTabRequest struct {
	Tab types.Tab `json:"tab"`
}

func (h *Handler) SetTab(w http.ResponseWriter, r *http.Request) {
	var in setTabRequest
	if !decode(w, r, &in) {
		return
	}
	if err := h.ws.SetTab(in.Tab); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Run blocks until the run settles. The run is detached from the request so a
// dropped client does not abort a generation already in flight.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.ws.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ListOutputs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.ws.Outputs())
}

func (h *Handler) SelectOutput(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.SelectOutput(r.PathValue("id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Diff(w http.ResponseWriter, r *http.Request) {
	d, err := h.ws.Diff(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Package(w http.ResponseWriter, _ *http.Request) {
	a, err := h.ws.Package()
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

type publishResponse struct {
	RunKey string `json:"runKey"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
}

// Publish stores the current archive in the artifact store.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	a, err := h.ws.Package()
	if err != nil {
		h.fail(w, err)
		return
	}
	key := artifact.RunKey(a.Seq)
	if err := h.store.Put(r.Context(), key, a.Name, a.Data); err != nil {
		h.fail(w, fmt.Errorf("publish archive: %w", err))
		return
	}
	link, err := h.store.GetURL(r.Context(), key, a.Name)
	if err != nil {
		h.log.WithError(err).WithField("run_key", key).Warn("archive stored without presigned url")
	}
	if link == "" {
		link = ArtifactPath(key, a.Name)
	}
	writeJSON(w, http.StatusCreated, publishResponse{RunKey: key, Name: a.Name, URL: link})
}

// ArtifactPath is the API route serving a published archive.
func ArtifactPath(runKey, name string) string {
	return "/api/artifacts/" + url.PathEscape(runKey) + "/" + url.PathEscape(name)
}

type artifactList struct {
	RunKey string   `json:"runKey"`
	Names  []string `json:"names"`
}

// ListArtifacts lists the archives published for one run.
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("runKey")
	names, err := h.store.List(r.Context(), key)
	if err != nil {
		h.fail(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, artifactList{RunKey: key, Names: names})
}

// GetArtifact serves one published archive.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := h.store.Get(r.Context(), r.PathValue("runKey"), name)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) Narration(w http.ResponseWriter, _ *http.Request) {
	n, err := h.ws.Narration()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// StatusOf maps domain errors onto HTTP status codes.
func StatusOf(err error) int {
	var genErr *generation.Error
	switch {
	case errors.Is(err, run.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.As(err, &genErr):
		switch genErr.Kind {
		case generation.KindTransport:
			return http.StatusBadGateway
		case generation.KindEmptyResponse, generation.KindMalformedResponse:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusInternalServerError
		}
	case errors.Is(err, workspace.ErrFileNotFound), errors.Is(err, workspace.ErrNothingToNarrate),
		errors.Is(err, artifact.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrUnknownField), errors.Is(err, workspace.ErrUnknownTab):
		return http.StatusBadRequest
	case errors.Is(err, workspace.ErrNoOutputs), errors.Is(err, packaging.ErrEmptyPackage):
		return http.StatusConflict
	case errors.Is(err, packaging.ErrInvalidPath):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	body := errorResponse{Error: err.Error()}
	var genErr *generation.Error
	if errors.As(err, &genErr) {
		body.Kind = genErr.Kind.String()
	}
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("status", status).Error("request failed")
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
