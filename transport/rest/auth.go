package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/service"
)

const userContextKey = "currentUser"

type AuthHandler struct {
	logger *slog.Logger

	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(logger *slog.Logger, authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{
		logger:      logger.With("component", "rest.auth"),
		authService: authService,
		userService: userService,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (that *AuthHandler) Register(ctx echo.Context) error {
	log := that.logger.With("method", "Register")

	var req credentialsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "username, email and password are required"})
	}

	user, err := that.userService.Register(ctx.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Error("failed to register user", "error", err)
		return writeError(ctx, err)
	}

	token, err := that.authService.GenerateToken(user.ID)
	if err != nil {
		log.Error("failed to generate token", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, tokenResponse{Token: token, User: user})
}

func (that *AuthHandler) Login(ctx echo.Context) error {
	log := that.logger.With("method", "Login")

	var req credentialsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	user, err := that.userService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		log.Info("failed login attempt", "username", req.Username)
		return writeError(ctx, err)
	}

	token, err := that.authService.GenerateToken(user.ID)
	if err != nil {
		log.Error("failed to generate token", "error", err)
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, tokenResponse{Token: token, User: user})
}

func (that *AuthHandler) Me(ctx echo.Context) error {
	user := currentUser(ctx)
	if user == nil {
		return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}

	return ctx.JSON(http.StatusOK, user)
}

// RequireUser rejects requests without a valid bearer token.
func (that *AuthHandler) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		user, err := that.resolveUser(ctx)
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		}

		ctx.Set(userContextKey, user)

		return next(ctx)
	}
}

// OptionalUser resolves the bearer token when present and lets anonymous
// requests through. Bot and local games do not require an account.
func (that *AuthHandler) OptionalUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if ctx.Request().Header.Get(echo.HeaderAuthorization) != "" {
			user, err := that.resolveUser(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			}
			ctx.Set(userContextKey, user)
		}

		return next(ctx)
	}
}

func (that *AuthHandler) resolveUser(ctx echo.Context) (*entity.User, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, errors.New("missing bearer token")
	}

	userID, err := that.authService.ParseToken(token)
	if err != nil {
		return nil, err
	}

	return that.userService.GetUserByID(ctx.Request().Context(), userID)
}

func currentUser(ctx echo.Context) *entity.User {
	user, _ := ctx.Get(userContextKey).(*entity.User)
	return user
}
