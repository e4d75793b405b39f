// Package jwt emite y valida los tokens de sesión (HS256) de la API.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired el token venció; el cliente debe volver a iniciar sesión.
	ErrExpired = errors.New("jwt: token expirado")
	// ErrInvalid firma, emisor, algoritmo o formato incorrectos.
	ErrInvalid = errors.New("jwt: token inválido")
)

// Claims claims estándar más el usuario y su empresa.
// CompanyID queda vacío hasta que el usuario completa el setup de empresa.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id,omitempty"`
}

// Manager firma y verifica tokens con un secreto compartido.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager construye el manager. Con issuer vacío no se valida el emisor.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// WithClock reemplaza el reloj usado al emitir y al validar (tests).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Issue firma un token nuevo. Cada token lleva un jti único para poder revocarlo en el logout.
func (m *Manager) Issue(userID, companyID string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID:    userID,
		CompanyID: companyID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse valida firma, algoritmo, expiración y emisor. Devuelve ErrExpired o ErrInvalid envueltos.
func (m *Manager) Parse(token string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, fmt.Errorf("%w: secret vacío", ErrInvalid)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: sin user_id", ErrInvalid)
	}
	return claims, nil
}
