package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	secretKey     []byte
	secureCookies bool
)

// LoadSecret sets the HMAC key for tokens. In production the auth cookie is
// sent as Secure with SameSite=None so a frontend on another domain gets it.
func LoadSecret(secret string, production bool) {
	secretKey = []byte(secret)
	secureCookies = production
}

func GetSecret() []byte {
	return secretKey
}

// NewToken signs a session token for the user.
func NewToken(userID string, expiration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(expiration).Unix(),
	})
	return token.SignedString(GetSecret())
}

// ParseToken validates tokenString and returns the user id it carries.
// Older tokens spell the claim userID.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return GetSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		userID, _ = claims["userID"].(string)
	}
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}

// TokenFromRequest reads the bearer token, falling back to the cookie.
func TokenFromRequest(c *gin.Context) string {
	if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Não autorizado: token ausente"})
			c.Abort()
			return
		}

		userID, err := ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido ou expirado"})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

func SetAuthCookie(c *gin.Context, tokenString string, duration time.Duration) {
	maxAge := int(duration.Seconds())

	// empty domain: the browser scopes the cookie to the API host
	sameSite := http.SameSiteLaxMode
	if secureCookies {
		sameSite = http.SameSiteNoneMode
	}

	c.SetSameSite(sameSite)
	c.SetCookie("token", tokenString, maxAge, "/", "", secureCookies, true)
}

func ClearAuthCookie(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", secureCookies, true)
}
