package response

import "happystack/internal/core/domain/user"

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func (u *User) FromDomainUser(du user.User, token user.AuthToken) {
	u.Username = string(du.Username)
	u.Email = string(du.Email)
	u.Token = string(token)
}

type UserResult struct {
	User User `json:"user"`
}

func NewUserResult(du user.User, token user.AuthToken) UserResult {
	res := UserResult{}
	res.User.FromDomainUser(du, token)
	return res
}

type MessageResult struct {
	Msg string `json:"msg"`
}
