package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/hazyhaar/shabdkosh/pkg/kit"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// NewRouter returns an http.Handler with all shabdkosh API routes.
func NewRouter(svc *Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	h := &handler{
		normalizeWord:  kit.Logging(logger, "normalize_word")(normalizeWordEndpoint(svc)),
		normalizeBatch: kit.Logging(logger, "normalize_batch")(normalizeBatchEndpoint(svc)),
		listSymbols:    kit.Logging(logger, "list_symbols")(listSymbolsEndpoint(svc)),
		svc:            svc,
	}

	mux.HandleFunc("GET /v1/normalize/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/normalize/batch", h.handleNormalizeBatch)
	mux.HandleFunc("GET /v1/normalize/{word}", h.handleNormalizeWord)
	mux.HandleFunc("GET /v1/symbols", h.handleListSymbols)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(requestID(mux))
}

type handler struct {
	normalizeWord  kit.Endpoint
	normalizeBatch kit.Endpoint
	listSymbols    kit.Endpoint
	svc            *Service
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := kit.WithCall(r.Context(), kit.Call{Transport: kit.TransportHTTP, RequestID: id})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- normalize single word ---

func (h *handler) handleNormalizeWord(w http.ResponseWriter, r *http.Request) {
	word := r.PathValue("word")
	if word == "" {
		writeError(w, http.StatusBadRequest, "missing word")
		return
	}

	resp, err := h.normalizeWord(r.Context(), &normalizeWordReq{Word: word})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- normalize batch ---

type httpBatchRequest struct {
	Words []string `json:"words"`
}

func (h *handler) handleNormalizeBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.normalizeBatch(r.Context(), &normalizeBatchReq{Words: req.Words})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- symbols ---

func (h *handler) handleListSymbols(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listSymbols(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status  string `json:"status"`
	Table   string `json:"table"`
	Symbols int    `json:"symbols"`
	Loads   int    `json:"loads"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Table:   h.svc.Table().ID,
		Symbols: h.svc.SymbolCount(),
		Loads:   h.svc.Loads(),
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
