package server

import (
	"gatehouse/internal/middleware"
	"gatehouse/internal/models"
	"gatehouse/internal/observability"
	"gatehouse/internal/password"
	"gatehouse/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Signup request"
// @Success 201 {object} object{message=string,userId=integer}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		middleware.SignupsTotal.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Either "name" or "username" carries the chosen username.
	username := req.Username
	if username == "" {
		username = req.Name
	}

	// Validate input
	if username == "" || req.Email == "" || req.Password == "" {
		middleware.SignupsTotal.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name, email, and password are required"))
	}

	// Validate username format
	if err := validation.ValidateUsername(username); err != nil {
		middleware.SignupsTotal.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	email := validation.NormalizeEmail(req.Email)

	// Validate email format
	if err := validation.ValidateEmail(email); err != nil {
		middleware.SignupsTotal.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Check if user already exists. This is advisory only; the store's
	// uniqueness constraints remain authoritative under concurrent signups.
	existing, err := s.userRepo.GetByEmailOrUsername(c.UserContext(), email, username)
	if err != nil {
		middleware.SignupsTotal.WithLabelValues("error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		middleware.SignupsTotal.WithLabelValues("duplicate").Inc()
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewDuplicateError())
	}

	// Hash password. bcrypt at this cost takes long enough to be worth a span.
	_, hashSpan := observability.Tracer.Start(c.UserContext(), "password.Hash")
	hashedPassword, err := password.Hash(req.Password)
	hashSpan.End()
	if err != nil {
		middleware.SignupsTotal.WithLabelValues("error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Create user
	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if createErr := s.userRepo.Create(c.UserContext(), user); createErr != nil {
		// A concurrent signup may have won the insert race after the
		// pre-check passed; report that as a duplicate, not a failure.
		if models.IsDuplicate(createErr) {
			middleware.SignupsTotal.WithLabelValues("duplicate").Inc()
			return models.RespondWithError(c, fiber.StatusConflict, createErr)
		}
		middleware.SignupsTotal.WithLabelValues("error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	middleware.SignupsTotal.WithLabelValues("created").Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// Login handles POST /login
// @Summary User login
// @Description Authenticate a user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		middleware.LoginsTotal.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" || req.Password == "" {
		middleware.LoginsTotal.WithLabelValues("invalid").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	email := validation.NormalizeEmail(req.Email)

	// Find user by email
	user, err := s.userRepo.GetByEmail(c.UserContext(), email)
	if err != nil {
		middleware.LoginsTotal.WithLabelValues("error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	// The unknown-email and wrong-password responses must be identical so
	// callers cannot learn which field was wrong.
	if user == nil {
		middleware.LoginsTotal.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	_, verifySpan := observability.Tracer.Start(c.UserContext(), "password.Verify")
	match := password.Verify(req.Password, user.Password)
	verifySpan.End()
	if !match {
		middleware.LoginsTotal.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	middleware.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
	})
}
