package gateway

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/wander-list/api-go/config"
	"github.com/wander-list/api-go/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// Session is the signed-in principal handed back to the transport layer.
type Session struct {
	User         models.User `json:"user"`
	TokenType    string      `json:"token_type"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

var reserved = []string{"admin", "root", "api", "www", "mail", "ftp", "test", "demo", "user", "guest", "null", "undefined"}

// validateUsernamePattern validates username format and constraints
func validateUsernamePattern(username string) error {
	trimmed := strings.TrimSpace(username)
	if len(trimmed) < 3 {
		return invalid("username must be at least 3 characters long")
	}
	if len(trimmed) > 20 {
		return invalid("username must be no more than 20 characters long")
	}
	startsWithLetter, _ := regexp.MatchString(`^[a-zA-Z]`, trimmed)
	if !startsWithLetter {
		return invalid("username must start with a letter")
	}
	validPattern, _ := regexp.MatchString(`^[a-zA-Z][a-zA-Z0-9_]*$`, trimmed)
	if !validPattern {
		return invalid("username can only contain letters, numbers, and underscores")
	}
	for _, word := range reserved {
		if strings.EqualFold(trimmed, word) {
			return invalid("this username is reserved and cannot be used")
		}
	}
	return nil
}

// SignUp creates the profile row. Username uniqueness is checked up front so
// the caller gets a conflict rather than a bare insert failure.
func (s *AuthService) SignUp(email, password, username string) (*models.User, error) {
	if err := validateUsernamePattern(username); err != nil {
		return nil, err
	}
	if len(password) < 6 {
		return nil, invalid("password must be at least 6 characters long")
	}

	var existing models.User
	if err := s.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		return nil, ErrConflict
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, translate(err)
	}
	hashedStr := string(hashed)

	user := models.User{
		Username: username,
		Email:    email,
		Password: &hashedStr,
		Provider: "email",
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *AuthService) SignIn(email, password string) (*Session, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrAuthRequired
	}
	if user.Password == nil {
		return nil, ErrAuthRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return nil, ErrAuthRequired
	}
	return s.issueSession(user)
}

// GoogleSignIn links or creates a profile from a verified Google identity,
// generating a unique username from the email when needed.
func (s *AuthService) GoogleSignIn(info *config.GoogleIdentity) (*Session, error) {
	var user models.User
	exists := s.DB.Where("google_id = ? OR email = ?", info.ID, info.Email).First(&user).Error == nil

	if exists {
		if user.GoogleID == nil || *user.GoogleID == "" {
			user.GoogleID = &info.ID
			user.Provider = "google"
			if user.Avatar == "" && info.Picture != "" {
				user.Avatar = info.Picture
			}
			s.DB.Save(&user)
		}
	} else {
		username := info.Email
		counter := 1
		for {
			var taken models.User
			if s.DB.Where("username = ?", username).First(&taken).Error != nil {
				break
			}
			username = info.Email + strconv.Itoa(counter)
			counter++
		}
		user = models.User{
			Username:      username,
			Email:         info.Email,
			Avatar:        info.Picture,
			GoogleID:      &info.ID,
			Provider:      "google",
			EmailVerified: info.EmailVerified,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, translate(err)
		}
	}
	return s.issueSession(user)
}

// Refresh rotates the refresh token and issues a new access token.
func (s *AuthService) Refresh(refreshToken string) (*Session, error) {
	var stored models.RefreshToken
	if err := s.DB.Where("token = ?", refreshToken).First(&stored).Error; err != nil {
		return nil, ErrAuthRequired
	}
	if time.Now().After(stored.ExpirationDate) {
		s.DB.Delete(&stored)
		return nil, ErrAuthRequired
	}
	var user models.User
	if err := s.DB.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrAuthRequired
	}

	session, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	stored.Token = session.RefreshToken
	stored.ExpirationDate = time.Now().Add(time.Hour * 24 * 30)
	s.DB.Save(&stored)
	return session, nil
}

// SignOut drops the refresh token. A missing token still signs out cleanly.
func (s *AuthService) SignOut(refreshToken string) error {
	res := s.DB.Where("token = ?", refreshToken).Delete(&models.RefreshToken{})
	return translate(res.Error)
}

// GetUser returns the profile row merged into the principal.
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID string, username, bio, avatar string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	updates := map[string]interface{}{"bio": bio, "avatar": avatar}
	if username != "" && username != user.Username {
		if err := validateUsernamePattern(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}
	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *AuthService) issueSession(user models.User) (*Session, error) {
	session, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          session.RefreshToken,
		ExpirationDate: time.Now().Add(time.Hour * 24 * 30),
	})
	return session, nil
}

func (s *AuthService) issueTokens(user models.User) (*Session, error) {
	accessBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(), // Token expires in 7 days
	})
	refreshBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(), // Refresh token expires in 30 days
	})

	secret := []byte(os.Getenv("JWT_SECRET"))
	access, err := accessBase.SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := refreshBase.SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &Session{
		User:         user,
		TokenType:    "Bearer",
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
