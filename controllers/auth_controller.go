package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/config"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/utils"
	"gorm.io/gorm"
)

type AuthController struct {
	Auth         *gateway.AuthService
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		Auth:         gateway.NewAuthService(db),
		GoogleConfig: config.NewGoogleConfig(),
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user, err := ac.Auth.SignUp(input.Email, input.Password, input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    user,
		Message: "Account created",
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	session, err := ac.Auth.SignIn(input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: session})
}

// GoogleLogin verifies the client-obtained Google ID token and signs the
// user in, creating the account on first login.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	var input struct {
		IDToken string `json:"id_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	info, err := ac.GoogleConfig.VerifyIDToken(input.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "success": false})
		return
	}

	session, err := ac.Auth.GoogleSignIn(info)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: session})
}

// GoogleCallback handles the server-side authorization-code flow: the
// redirect hands us a code, we exchange it for the profile and sign in.
func (ac *AuthController) GoogleCallback(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	info, err := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed", "success": false})
		return
	}

	session, err := ac.Auth.GoogleSignIn(info)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: session})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	session, err := ac.Auth.Refresh(input.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: session})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&input)

	if input.RefreshToken != "" {
		if err := ac.Auth.SignOut(input.RefreshToken); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Logged out"})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "success": false})
		return
	}

	profile, err := ac.Auth.GetUser(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: profile})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "success": false})
		return
	}

	var input struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	profile, err := ac.Auth.UpdateProfile(user.UserID, input.Username, input.Bio, input.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: profile, Message: "Profile updated"})
}
