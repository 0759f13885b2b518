package user

import "time"

type AuthToken string

func (t AuthToken) String() string {
	return "***"
}

type Claims struct {
	ID         ID
	Username   Username
	Expiration time.Time
}

type TokenIssuer interface {
	IssueToken(id ID, username Username) (AuthToken, error)
	VerifyToken(token AuthToken) (Claims, error)
}
