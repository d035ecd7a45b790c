package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/teamauth/pkg/authsdk"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
)

// KeySource publishes the verification keys and reports whether signing
// is possible. *jwtx.KeyManager satisfies it.
type KeySource interface {
	JWKS() jwtx.JWKS
	IsReady() bool
}

// Pinger reports storage reachability. store.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the probes and key discovery.
type SystemHandler struct {
	Keys      KeySource
	Store     Pinger
	Version   string
	StartedAt time.Time
}

func (h *SystemHandler) uptime() string {
	return time.Since(h.StartedAt).Round(time.Second).String()
}

// HandleJWKS godoc
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set that verifies issued access and refresh tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func (h *SystemHandler) HandleJWKS(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.JWKSResponse(h.Keys.JWKS()))
}

// HandleLivez godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process serves requests.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
		Status:  "ok",
		Uptime:  h.uptime(),
		Version: h.Version,
	})
}

// HandleReadyz godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database and that a signing key is loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"degraded"
//	@Router			/readyz [get].
func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := &authsdk.HealthChecks{Database: "ok", Signer: "ok"}
	status, code := "ok", http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		checks.Database = "error: " + err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	}
	if !h.Keys.IsReady() {
		checks.Signer = "error: no signing key loaded"
		status, code = "degraded", http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, code, authsdk.HealthResponse{
		Status:  status,
		Uptime:  h.uptime(),
		Version: h.Version,
		Checks:  checks,
	})
}
