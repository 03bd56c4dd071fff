package gorecipes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/nellio/gorecipes/auth"
)

// ErrorWriter maps errors to HTTP responses at the boundary. Production mode
// returns only {status, message}; dev mode adds the flattened cause chain.
// Either way the full error is logged.
type ErrorWriter struct {
	Log *zap.Logger
	Dev bool
}

func (ew *ErrorWriter) Write(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var authErr *auth.Error
	var valErr *ValidationError
	switch {
	case errors.As(err, &authErr):
		status = http.StatusForbidden
		message = "Unauthorized"
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		message = valErr.Message
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
		message = "Not found"
	case errors.Is(err, ErrDuplicateKey):
		status = http.StatusConflict
		message = "Duplicate key"
	}

	ew.Log.Error("request failed", zap.Int("status", status), zap.Error(err))

	body := map[string]any{"status": status, "message": message}
	if ew.Dev {
		body["cause"] = causeChain(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// causeChain flattens the unwrap chain into plain strings so the dev-mode
// response can never recurse.
func causeChain(err error) []string {
	var chain []string
	for err != nil && len(chain) < 16 {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

type actionLink struct {
	Href   string `json:"href"`
	Method string `json:"method"`
}

type selfLinks struct {
	Self string `json:"self"`
}

type registerUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerUserResponse struct {
	ID            ID           `json:"id"`
	WebhookSecret string       `json:"webhook_secret"`
	Message       string       `json:"message"`
	Links         []actionLink `json:"links"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type webhookRegisterRequest struct {
	ID      string `json:"id"`
	Webhook string `json:"webhook"`
}

type createRecipeRequest struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Servings     string   `json:"servings"`
	Instructions []string `json:"instructions"`
	Category     string   `json:"category"`
	ImageURL     string   `json:"imageUrl"`
}

type searchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type recipeResponse struct {
	*Recipe
	Links        selfLinks `json:"links"`
	WebhookError string    `json:"webhook_error,omitempty"`
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func recipeSelfLink(r *http.Request, id ID) selfLinks {
	return selfLinks{Self: fmt.Sprintf("%s/api/v1/recipe/%s", requestBaseURL(r), id)}
}

func loginLink(r *http.Request) actionLink {
	return actionLink{Href: requestBaseURL(r) + "/api/v1/user/login", Method: http.MethodPost}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func RegisterUserHandler(svc *UserService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ew.Write(w, ErrEmptyBody)
			return
		}

		u, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			ew.Write(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, registerUserResponse{
			ID:            u.ID,
			WebhookSecret: u.Secret,
			Message:       "User created.",
			Links:         []actionLink{loginLink(r)},
		})
	})
}

func LoginHandler(creds *auth.Service, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ew.Write(w, ErrEmptyBody)
			return
		}

		p, err := creds.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			ew.Write(w, err)
			return
		}

		token, err := creds.IssueToken(p)
		if err != nil {
			ew.Write(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"access_token": token})
	})
}

func LogoutHandler(creds *auth.Service, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RequireAuth already verified the token; revoking twice is harmless.
		if token, ok := auth.TokenFromContext(r.Context()); ok {
			creds.Revoke(token)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "You have logged out.",
			"links":   []actionLink{loginLink(r)},
		})
	})
}

func WebhookRegisterHandler(svc *UserService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req webhookRegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ew.Write(w, ErrEmptyBody)
			return
		}
		if req.Webhook == "" {
			ew.Write(w, ErrEmptyWebhookURL)
			return
		}

		u, err := svc.SaveWebhook(r.Context(), ID(req.ID), req.Webhook)
		if err != nil {
			ew.Write(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"message":       "Webhook registered successfully",
			"webhookSecret": u.Secret,
		})
	})
}

func CreateRecipeHandler(svc *RecipeService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ew.Write(w, ErrEmptyBody)
			return
		}

		recipe, err := NewRecipe(req.Title, req.Ingredients, req.Servings, req.Instructions)
		if err != nil {
			ew.Write(w, err)
			return
		}
		if req.Category != "" {
			recipe.Category = req.Category
		}
		recipe.ImageURL = req.ImageURL

		p, _ := auth.FromContext(r.Context())
		recipe.Admin = ID(p.ID)

		created, err := svc.Insert(r.Context(), recipe)
		if err != nil {
			ew.Write(w, err)
			return
		}

		resp := recipeResponse{Recipe: created, Links: recipeSelfLink(r, created.ID)}

		// The recipe is committed regardless of delivery; a webhook failure
		// is reported alongside the created resource, never rolled back.
		if p.Webhook != "" {
			notification := RecipeNotification{
				RecipeID:     created.ID,
				Title:        created.Title,
				Servings:     created.Servings,
				Category:     created.Category,
				Ingredients:  created.Ingredients,
				Instructions: created.Instructions,
			}
			if err := svc.SendWebhook(r.Context(), notification, p.Secret, p.Webhook); err != nil {
				resp.WebhookError = "webhook delivery failed"
			}
		}

		writeJSON(w, http.StatusCreated, resp)
	})
}

func GetRecipeHandler(svc *RecipeService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		recipe, err := svc.GetByID(r.Context(), id)
		if err != nil {
			ew.Write(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recipeResponse{Recipe: recipe, Links: recipeSelfLink(r, recipe.ID)})
	})
}

// UpdateRecipeHandler merges the payload into the recipe when replace is
// false, and overwrites the full mutable field set when it is true. An empty
// body is a 400 either way.
func UpdateRecipeHandler(svc *RecipeService, ew *ErrorWriter, replace bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		payload := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload) == 0 {
			ew.Write(w, ErrEmptyBody)
			return
		}
		if err := validateRecipePayload(payload, replace); err != nil {
			ew.Write(w, err)
			return
		}

		existing, err := svc.GetByID(r.Context(), id)
		if err != nil {
			ew.Write(w, err)
			return
		}

		updated, err := svc.UpdateOrReplace(r.Context(), existing, payload, replace)
		if err != nil {
			ew.Write(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recipeResponse{Recipe: updated, Links: recipeSelfLink(r, updated.ID)})
	})
}

func DeleteRecipeHandler(svc *RecipeService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		existing, err := svc.GetByID(r.Context(), id)
		if err != nil {
			ew.Write(w, err)
			return
		}
		if err := svc.Delete(r.Context(), existing); err != nil {
			ew.Write(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func ListRecipesHandler(svc *RecipeService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", 20)

		result, err := svc.Get(r.Context(), page, perPage)
		if err != nil {
			ew.Write(w, err)
			return
		}

		setPaginationHeaders(w, result.Pagination, requestBaseURL(r)+"/api/v1/recipes")

		if len(result.Data) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, recipesWithLinks(r, result.Data))
	})
}

func SearchRecipeHandler(svc *RecipeService, ew *ErrorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SearchTerm == "" {
			ew.Write(w, ErrEmptySearchTerm)
			return
		}

		recipes, err := svc.SearchTerm(r.Context(), req.SearchTerm)
		if err != nil {
			ew.Write(w, err)
			return
		}
		if len(recipes) == 0 {
			ew.Write(w, fmt.Errorf("no recipes matching search term: %w", ErrNotFound))
			return
		}

		writeJSON(w, http.StatusOK, recipesWithLinks(r, recipes))
	})
}

func recipesWithLinks(r *http.Request, recipes []*Recipe) []recipeResponse {
	out := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, recipeResponse{Recipe: recipe, Links: recipeSelfLink(r, recipe.ID)})
	}
	return out
}

func setPaginationHeaders(w http.ResponseWriter, p Pagination, baseURL string) {
	w.Header().Set("X-Total-Count", strconv.Itoa(p.TotalCount))
	w.Header().Set("X-Page", strconv.Itoa(p.Page))
	w.Header().Set("X-Per-Page", strconv.Itoa(p.PerPage))
	w.Header().Set("X-Total-Pages", strconv.Itoa(p.TotalPages))
	w.Header().Set("Link", p.LinkHeader(baseURL))
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
