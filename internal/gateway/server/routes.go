package server

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"refactorengine/internal/gateway/handler"
	"refactorengine/internal/gateway/middleware"
)

func NewMux(api *handler.Handler, runs *handler.RunEventsHandler, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", api.State)
	mux.HandleFunc("GET /api/options", api.Options)

	mux.HandleFunc("GET /api/inputs", api.ListInputs)
	mux.HandleFunc("POST /api/inputs", api.AddInput)
	mux.HandleFunc("PUT /api/inputs/{id}", api.EditInput)
	mux.HandleFunc("POST /api/inputs/{id}/select", api.SelectInput)

	mux.HandleFunc("PUT /api/config", api.SetConfig)
	mux.HandleFunc("POST /api/tab", api.SetTab)
	mux.HandleFunc("POST /api/run", api.Run)

	mux.HandleFunc("GET /api/outputs", api.ListOutputs)
	mux.HandleFunc("POST /api/outputs/{id}/select", api.SelectOutput)
	mux.HandleFunc("GET /api/outputs/{id}/diff", api.Diff)

	mux.HandleFunc("GET /api/package", api.Package)
	mux.HandleFunc("POST /api/package/publish", api.Publish)
	mux.HandleFunc("GET /api/narration", api.Narration)

	mux.HandleFunc("GET /api/artifacts/{runKey}", api.ListArtifacts)
	mux.HandleFunc("GET /api/artifacts/{runKey}/{name}", api.GetArtifact)

	mux.HandleFunc("GET /ws/runs", runs.HandleRunsWS)

	return middleware.CORS(middleware.AccessLog(log)(mux))
}
