package service

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	apphttp "github.com/chainsafe/claims-registry/pkg/app/http"
	"github.com/chainsafe/claims-registry/pkg/auth"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

const maxBodySize = 1 << 20

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	authn   auth.Authenticator
	logger  *zap.Logger
}

// RegisterRoutes registers the claims endpoints on the given chi router. All /claims
// routes require a caller authenticated by authn.
func RegisterRoutes(r chi.Router, service Service, authn auth.Authenticator, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		authn:   authn,
		logger:  logger,
	}

	r.Get("/health", apphttp.HandleError(h.health))

	r.Route("/claims", func(r chi.Router) {
		r.Use(auth.Middleware(authn, logger))

		r.Post("/", apphttp.HandleError(h.create))
		r.Get("/{fingerprint}", apphttp.HandleError(h.get))
		r.Delete("/{fingerprint}", apphttp.HandleError(h.revoke))
		r.Post("/{fingerprint}/transfer", apphttp.HandleError(h.transfer))
	})
}

func (h *HTTP) create(w http.ResponseWriter, r *http.Request) error {
	caller, err := callerOf(r)
	if err != nil {
		return err
	}

	var req claim.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	fp, err := claim.ParseFingerprint(req.Fingerprint)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid fingerprint")
	}

	c, err := h.service.CreateClaim(r.Context(), caller, fp)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusCreated, claim.NewResponse(c))
	return nil
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	fp, err := fingerprintParam(r)
	if err != nil {
		return err
	}

	c, err := h.service.GetClaim(r.Context(), fp)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, claim.NewResponse(c))
	return nil
}

func (h *HTTP) revoke(w http.ResponseWriter, r *http.Request) error {
	caller, err := callerOf(r)
	if err != nil {
		return err
	}
	fp, err := fingerprintParam(r)
	if err != nil {
		return err
	}

	if err := h.service.RevokeClaim(r.Context(), caller, fp); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) transfer(w http.ResponseWriter, r *http.Request) error {
	caller, err := callerOf(r)
	if err != nil {
		return err
	}
	fp, err := fingerprintParam(r)
	if err != nil {
		return err
	}

	var req claim.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	newOwner, err := h.authn.ParseAccount(req.NewOwner)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid new_owner")
	}

	c, err := h.service.TransferClaim(r.Context(), caller, fp, newOwner)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, claim.NewResponse(c))
	return nil
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) error {
	h.writeJSON(w, http.StatusOK, &claim.HealthResponse{
		Status: "ok",
		Height: uint64(h.service.Height()),
	})
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func callerOf(r *http.Request) (claim.AccountID, error) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		return "", apperrors.UnAuthorizedError(errNoCaller, "caller is not authenticated")
	}
	return caller, nil
}

func fingerprintParam(r *http.Request) (claim.Fingerprint, error) {
	fp, err := claim.ParseFingerprint(chi.URLParam(r, "fingerprint"))
	if err != nil {
		return nil, apperrors.BadRequestError(err, "invalid fingerprint")
	}
	return fp, nil
}

func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}
