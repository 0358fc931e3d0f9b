package models

import "github.com/golang-jwt/jwt"

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
	RoleClient = "client"
)

// Claims is the access-token payload. WorkerID is set for worker tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	WorkerID string `json:"worker_id,omitempty"`
	jwt.StandardClaims
}
