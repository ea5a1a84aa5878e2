package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sp3dr4/bizsearch/internal/application"
	"github.com/sp3dr4/bizsearch/internal/domain"
	"github.com/sp3dr4/bizsearch/internal/pkg/logging"
)

type Handlers struct {
	search  *application.SearchService
	history *application.HistoryService
	auth    *application.AuthService
	repo    domain.Repository
	cache   domain.SearchCache
}

func NewHandlers(
	search *application.SearchService,
	history *application.HistoryService,
	auth *application.AuthService,
	repo domain.Repository,
	cache domain.SearchCache,
) *Handlers {
	return &Handlers{
		search:  search,
		history: history,
		auth:    auth,
		repo:    repo,
		cache:   cache,
	}
}

// HandleHealth handles the health check endpoint.
//
//	@Summary		Health check endpoint
//	@Description	Check if the service is running
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Router			/health [get]
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// HandleReady handles the readiness check endpoint.
//
//	@Summary		Readiness check endpoint
//	@Description	Check if the service is ready to serve requests (database and cache connectivity)
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	object{status=string,timestamp=string}	"Service is ready"
//	@Failure		503	{object}	ErrorResponse							"Service is not ready"
//	@Router			/ready [get]
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	logger := logging.FromContext(ctx)

	if err := h.repo.HealthCheck(ctx); err != nil {
		logger.Error("Readiness check failed", "component", "database", "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "Service not ready: database unavailable")
		return
	}

	if err := h.cache.Ping(ctx); err != nil {
		logger.Error("Readiness check failed", "component", "cache", "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "Service not ready: cache unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleSearch handles the business search endpoint.
//
//	@Summary		Search local businesses
//	@Description	Search businesses matching a keyword near a free-text location. Results are cached per page.
//	@Tags			search
//	@Produce		json
//	@Security		BearerAuth
//	@Param			query		query		string					true	"Search keyword"
//	@Param			location	query		string					true	"Free-text location"
//	@Param			page		query		int						false	"Page number"	default(1)
//	@Param			limit		query		int						false	"Page size"		default(10)
//	@Success		200			{object}	domain.SearchResponse	"One page of results"
//	@Failure		400			{object}	ValidationErrorResponse	"Invalid input or unknown location"
//	@Failure		500			{object}	ErrorResponse			"Upstream lookup failed"
//	@Router			/api/search [get]
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	details := make(map[string]string)

	page := parsePositiveInt(params.Get("page"), "page", details)
	limit := parsePositiveInt(params.Get("limit"), "limit", details)
	if len(details) > 0 {
		respondWithValidationDetails(w, details)
		return
	}

	req := application.SearchRequest{
		Query:    params.Get("query"),
		Location: params.Get("location"),
		Page:     page,
		Limit:    limit,
		UserID:   UserIDFromContext(r.Context()),
	}

	response, err := h.search.Search(r.Context(), req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrors):
			handleValidationError(w, validationErrors)
		case errors.Is(err, domain.ErrLocationNotFound):
			respondWithError(w, http.StatusBadRequest, "Location not found")
		case errors.Is(err, domain.ErrUpstreamFailure):
			logging.FromContext(r.Context()).Error("Search upstream failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, err.Error())
		default:
			logging.FromContext(r.Context()).Error("Search failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to search businesses")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// HandleSearchHistory lists the caller's past searches.
//
//	@Summary		Search history
//	@Description	List the authenticated user's searches, oldest first
//	@Tags			search
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		domain.SearchHistoryRecord	"Search history"
//	@Failure		401	{object}	ErrorResponse				"Not authenticated"
//	@Router			/api/search/history [get]
func (h *Handlers) HandleSearchHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		logging.FromContext(r.Context()).Error("Failed to list search history", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch search history")
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// HandleSuggestions returns autocomplete values from the caller's history.
//
//	@Summary		Search suggestions
//	@Description	Up to five past queries or locations containing the input, most used first
//	@Tags			search
//	@Produce		json
//	@Security		BearerAuth
//	@Param			type	query		string					true	"Field to suggest"	Enums(query, location)
//	@Param			input	query		string					false	"Partial input"
//	@Success		200		{array}		string					"Suggestions"
//	@Failure		400		{object}	ValidationErrorResponse	"Invalid type"
//	@Failure		401		{object}	ErrorResponse			"Not authenticated"
//	@Router			/api/search/suggestions [get]
func (h *Handlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	req := application.SuggestionRequest{
		Type:  r.URL.Query().Get("type"),
		Input: r.URL.Query().Get("input"),
	}

	suggestions, err := h.history.Suggestions(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			handleValidationError(w, validationErrors)
			return
		}
		logging.FromContext(r.Context()).Error("Failed to build suggestions", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}

	respondWithJSON(w, http.StatusOK, suggestions)
}

// HandleRegister creates an account and returns a token for it.
//
//	@Summary		Register
//	@Description	Create a user account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		application.RegisterRequest	true	"Credentials"
//	@Success		201		{object}	application.AuthResponse	"Registered"
//	@Failure		400		{object}	ValidationErrorResponse		"Validation error"
//	@Failure		409		{object}	ErrorResponse				"Username already exists"
//	@Router			/api/register [post]
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(r.Context()).Warn("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.auth.Register(r.Context(), req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrors):
			handleValidationError(w, validationErrors)
		case errors.Is(err, domain.ErrUsernameTaken):
			respondWithError(w, http.StatusConflict, "Username already exists")
		default:
			logging.FromContext(r.Context()).Error("Failed to register user", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, response)
}

// HandleLogin exchanges credentials for a token.
//
//	@Summary		Login
//	@Description	Authenticate with username and password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		application.LoginRequest	true	"Credentials"
//	@Success		200		{object}	application.AuthResponse	"Logged in"
//	@Failure		400		{object}	ValidationErrorResponse		"Validation error"
//	@Failure		401		{object}	ErrorResponse				"Invalid credentials"
//	@Router			/api/login [post]
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(r.Context()).Warn("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.auth.Login(r.Context(), req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrors):
			handleValidationError(w, validationErrors)
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		default:
			logging.FromContext(r.Context()).Error("Failed to log in", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// HandleCurrentUser returns the authenticated user.
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	domain.User		"Current user"
//	@Failure		401	{object}	ErrorResponse	"Not authenticated"
//	@Router			/api/user [get]
func (h *Handlers) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrUnauthenticated) {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		logging.FromContext(r.Context()).Error("Failed to load user", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     map[string]string `json:"error"`
	Timestamp string            `json:"timestamp" example:"2024-01-31T12:00:00Z"`
}

// ValidationErrorResponse represents a validation error response.
type ValidationErrorResponse struct {
	Details map[string]string `json:"details"`
	Error   string            `json:"error" example:"Validation failed"`
}

// parsePositiveInt returns 0 for an absent value so the service default applies.
func parsePositiveInt(raw, field string, details map[string]string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		details[field] = fmt.Sprintf("%s must be a positive integer", field)
		return 0
	}
	return n
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func respondWithValidationDetails(w http.ResponseWriter, details map[string]string) {
	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Validation failed",
		"details": details,
	})
}

func handleValidationError(w http.ResponseWriter, validationErrors validator.ValidationErrors) {
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		field := getJSONFieldName(e)
		numeric := isNumericKind(e.Kind())
		switch e.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required", field)
		case "alphanum":
			errorMessages[field] = fmt.Sprintf("%s must contain only alphanumeric characters", field)
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
		case "min":
			if numeric {
				errorMessages[field] = fmt.Sprintf("%s must be at least %s", field, e.Param())
			} else {
				errorMessages[field] = fmt.Sprintf("%s must be at least %s characters long", field, e.Param())
			}
		case "max":
			if numeric {
				errorMessages[field] = fmt.Sprintf("%s must be at most %s", field, e.Param())
			} else {
				errorMessages[field] = fmt.Sprintf("%s must be at most %s characters long", field, e.Param())
			}
		default:
			errorMessages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	respondWithValidationDetails(w, errorMessages)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// getJSONFieldName extracts the JSON tag name from a validation error
func getJSONFieldName(e validator.FieldError) string {
	structType := getStructTypeFromError(e)
	if structType == nil {
		return strings.ToLower(e.Field())
	}

	field, found := structType.FieldByName(e.StructField())
	if !found {
		return strings.ToLower(e.Field())
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return strings.ToLower(e.Field())
	}

	if commaIndex := strings.Index(jsonTag, ","); commaIndex != -1 {
		jsonTag = jsonTag[:commaIndex]
	}

	return jsonTag
}

// getStructTypeFromError extracts the struct type from a validation error
func getStructTypeFromError(e validator.FieldError) reflect.Type {
	// StructNamespace looks like "SearchRequest.Query"
	parts := strings.Split(e.StructNamespace(), ".")
	if len(parts) < 2 {
		return nil
	}

	return getTypeFromStructName(parts[0])
}

// getTypeFromStructName returns the reflect.Type for a given struct name
// This acts as a registry for known request types
func getTypeFromStructName(structName string) reflect.Type {
	switch structName {
	case "SearchRequest":
		return reflect.TypeOf(application.SearchRequest{})
	case "SuggestionRequest":
		return reflect.TypeOf(application.SuggestionRequest{})
	case "RegisterRequest":
		return reflect.TypeOf(application.RegisterRequest{})
	case "LoginRequest":
		return reflect.TypeOf(application.LoginRequest{})
	default:
		return nil
	}
}
