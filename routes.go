package gorecipes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/nellio/gorecipes/auth"
)

// NewRouter mounts the full API surface under /api/v1.
func NewRouter(users *UserService, recipes *RecipeService, creds *auth.Service, ew *ErrorWriter) *httprouter.Router {
	router := httprouter.New()

	anyRole := []auth.Role{auth.RoleAdmin, auth.RoleUser}

	router.Handler(http.MethodPost, "/api/v1/user/register", RegisterUserHandler(users, ew))
	router.Handler(http.MethodPost, "/api/v1/user/login", LoginHandler(creds, ew))
	router.Handler(http.MethodPost, "/api/v1/user/logout", auth.RequireAuth(LogoutHandler(creds, ew), creds))
	router.Handler(http.MethodPost, "/api/v1/user/webhook", auth.RequireAuth(WebhookRegisterHandler(users, ew), creds))

	router.Handler(http.MethodPost, "/api/v1/recipe", auth.RequireAuth(CreateRecipeHandler(recipes, ew), creds, auth.RoleAdmin))
	router.Handler(http.MethodGet, "/api/v1/recipe/:id", auth.RequireAuth(GetRecipeHandler(recipes, ew), creds, anyRole...))
	router.Handler(http.MethodPut, "/api/v1/recipe/:id", auth.RequireAuth(UpdateRecipeHandler(recipes, ew, true), creds, auth.RoleAdmin))
	router.Handler(http.MethodPatch, "/api/v1/recipe/:id", auth.RequireAuth(UpdateRecipeHandler(recipes, ew, false), creds, auth.RoleAdmin))
	router.Handler(http.MethodDelete, "/api/v1/recipe/:id", auth.RequireAuth(DeleteRecipeHandler(recipes, ew), creds, auth.RoleAdmin))

	router.Handler(http.MethodGet, "/api/v1/recipes", auth.RequireAuth(ListRecipesHandler(recipes, ew), creds, anyRole...))
	router.Handler(http.MethodPost, "/api/v1/recipes/:search", auth.RequireAuth(SearchRecipeHandler(recipes, ew), creds, anyRole...))

	return router
}
