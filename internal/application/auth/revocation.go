package auth

import (
	"sync"
	"time"
)

// RevocationList guarda los jti revocados por logout hasta que el token expira.
// Vive en el proceso: un reinicio olvida las revocaciones, pero los tokens igual expiran.
type RevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewRevocationList crea una lista vacía.
func NewRevocationList() *RevocationList {
	return &RevocationList{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke marca el jti como revocado hasta expiresAt y purga las entradas vencidas.
func (l *RevocationList) Revoke(jti string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for id, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, id)
		}
	}
	l.entries[jti] = expiresAt
}

// IsRevoked informa si el jti fue revocado y aún no expiró.
func (l *RevocationList) IsRevoked(jti string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.entries[jti]
	return ok && exp.After(l.now())
}
