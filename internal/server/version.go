package server

import (
	"encoding/json"
	"net/http"
)

// Build information, set with -ldflags "-X github.com/benvon/todo-items/internal/server.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type versionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(versionResponse{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	})
}
