package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del token de acceso. StationID viaja en el token para que los
// handlers limiten a los operadores de estación a su propia estación.
type Claims struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	StationID *string `json:"station_id,omitempty"`
	jwt.RegisteredClaims
}

// Manager firma y valida tokens HS256.
type Manager struct {
	secret     []byte
	expiration time.Duration
}

// NewManager construye el manager con el secreto y la vigencia configurados.
func NewManager(secret string, expiration time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiration: expiration}
}

// Generate emite un token para el usuario.
func (m *Manager) Generate(userID, email, role string, stationID *string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		StationID: stationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parsea y valida el token, devolviendo sus claims.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de firma inesperado")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}
	return claims, nil
}
