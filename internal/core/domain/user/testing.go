package user

import (
	"context"
	"crypto/md5"
	"fmt"
	c "happystack/internal/core/domain/common"
	"io"
	"strings"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) SetPassword(password RawPassword) (Credentials, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return Credentials{Hash: PasswordHash(fmt.Sprintf("%x", hash.Sum(nil)))}, nil
}

func (h *FakePasswordHasher) VerifyPassword(password RawPassword, credentials Credentials) bool {
	actual, err := h.SetPassword(password)
	if err != nil {
		return false
	}
	return actual.Hash == credentials.Hash
}

type FakeResetTokenGenerator struct {
	Tokens      []PasswordResetToken
	TTL         time.Duration
	Now         func() time.Time
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

// NewFakeResetTokenGenerator hands out the given tokens in order, then
// numbered tokens once they are exhausted.
func NewFakeResetTokenGenerator(now func() time.Time, tokens ...string) *FakeResetTokenGenerator {
	g := &FakeResetTokenGenerator{TTL: time.Hour, Now: now}
	for _, t := range tokens {
		g.Tokens = append(g.Tokens, PasswordResetToken(t))
	}
	return g
}

func (g *FakeResetTokenGenerator) GenerateResetToken() (token PasswordResetToken, expiresAt time.Time, err error) {
	if g.ReturnError {
		return token, expiresAt, fmt.Errorf("could not generate reset token")
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.generated < len(g.Tokens) {
		token = g.Tokens[g.generated]
	} else {
		token = PasswordResetToken(fmt.Sprintf("reset-token-%d", g.generated))
	}
	g.generated++
	return token, g.Now().Add(g.TTL), nil
}

type FakeTokenIssuer struct {
	ReturnError bool
	Now         func() time.Time
}

func NewFakeTokenIssuer(now func() time.Time) *FakeTokenIssuer {
	return &FakeTokenIssuer{Now: now}
}

func (i *FakeTokenIssuer) IssueToken(id ID, username Username) (AuthToken, error) {
	if i.ReturnError {
		return "", fmt.Errorf("could not issue token")
	}
	return AuthToken(fmt.Sprintf("%s:%s", id, username)), nil
}

func (i *FakeTokenIssuer) VerifyToken(token AuthToken) (claims Claims, err error) {
	rawID, username, ok := strings.Cut(string(token), ":")
	if !ok {
		return claims, fmt.Errorf("malformed fake token")
	}
	id, err := ParseID(rawID)
	if err != nil {
		return claims, err
	}
	return Claims{ID: id, Username: Username(username), Expiration: i.Now().Add(24 * time.Hour)}, nil
}

type FakePasswordResetTokenSender struct {
	Sent          []PasswordResetToken
	SentTo        []c.Email
	ChangedSentTo []c.Email
	ReturnError   bool
	lock          sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	email c.Email,
	token PasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, email)
	return nil
}

func (s *FakePasswordResetTokenSender) SendPasswordChanged(ctx context.Context, email c.Email) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password changed notification")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.ChangedSentTo = append(s.ChangedSentTo, email)
	return nil
}

func (s *FakePasswordResetTokenSender) LastSent() PasswordResetToken {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %s", input.Email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Users {
		if existing.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if existing.Username == input.Username {
			return u, ErrUsernameAlreadyExists
		}
	}
	u = User{
		ID:          NewID(),
		Username:    input.Username,
		Email:       input.Email,
		Credentials: input.Credentials,
		CreatedAt:   input.CreatedAt,
		UpdatedAt:   input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by email")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user by reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.findPendingReset(token, now)
	if !ok {
		return u, ErrUserDoesNotExist
	}
	return r.Users[ix], nil
}

func (r *FakeUserRepository) Update(ctx context.Context, input UpdateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not update user %s", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Users {
		if existing.ID == input.ID {
			continue
		}
		if input.Email.IsPresent && existing.Email == input.Email.Value {
			return u, ErrEmailAlreadyExists
		}
		if input.Username.IsPresent && existing.Username == input.Username.Value {
			return u, ErrUsernameAlreadyExists
		}
	}
	for ix, u := range r.Users {
		if u.ID != input.ID {
			continue
		}
		if input.Username.IsPresent {
			r.Users[ix].Username = input.Username.Value
		}
		if input.Email.IsPresent {
			r.Users[ix].Email = input.Email.Value
		}
		if input.Credentials.IsPresent {
			r.Users[ix].Credentials = input.Credentials.Value
		}
		r.Users[ix].UpdatedAt = input.UpdatedAt
		return r.Users[ix], nil
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetResetToken(ctx context.Context, input SetResetTokenInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not set reset token for user %s", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == input.ID {
			r.Users[ix].ResetToken = c.NewOptional(input.Token, true)
			r.Users[ix].ResetTokenExpiresAt = c.NewOptional(input.ExpiresAt, true)
			r.Users[ix].UpdatedAt = input.UpdatedAt
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) RedeemResetToken(ctx context.Context, input RedeemResetTokenInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not redeem reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	ix, ok := r.findPendingReset(input.Token, input.Now)
	if !ok {
		return u, ErrInvalidPasswordResetToken
	}
	r.Users[ix].Credentials = input.Credentials
	r.Users[ix].ResetToken = c.None[PasswordResetToken]()
	r.Users[ix].ResetTokenExpiresAt = c.None[time.Time]()
	r.Users[ix].UpdatedAt = input.Now
	return r.Users[ix], nil
}

func (r *FakeUserRepository) ClearExpiredResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) error {
	if r.ReturnError {
		return fmt.Errorf("could not clear expired reset token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ResetToken.IsPresent && u.ResetToken.Value == token && !u.ResetTokenExpiresAt.Value.After(now) {
			r.Users[ix].ResetToken = c.None[PasswordResetToken]()
			r.Users[ix].ResetTokenExpiresAt = c.None[time.Time]()
		}
	}
	return nil
}

func (r *FakeUserRepository) findPendingReset(token PasswordResetToken, now time.Time) (int, bool) {
	for ix, u := range r.Users {
		if u.ResetToken.IsPresent && u.ResetToken.Value == token && u.HasPendingReset(now) {
			return ix, true
		}
	}
	return 0, false
}
