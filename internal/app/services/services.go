package services

import (
	"happystack/internal/app/deps"
	drl "happystack/internal/core/domain/rate_limiter"
	"happystack/internal/core/services"
	"happystack/internal/core/services/auth"
	delivermail "happystack/internal/core/services/deliver_mail"
	getcurrentuser "happystack/internal/core/services/get_current_user"
	login "happystack/internal/core/services/log_in"
	ratelimiting "happystack/internal/core/services/rate_limiting"
	redeempasswordreset "happystack/internal/core/services/redeem_password_reset"
	requestpasswordreset "happystack/internal/core/services/request_password_reset"
	signup "happystack/internal/core/services/sign_up"
	updateuser "happystack/internal/core/services/update_user"
)

type Services struct {
	SignUp               services.Service[signup.Input, signup.Result]
	LogIn                services.Service[login.Input, login.Result]
	GetCurrentUser       services.Service[getcurrentuser.Input, getcurrentuser.Result]
	UpdateUser           services.Service[updateuser.Input, updateuser.Result]
	RequestPasswordReset services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	RedeemPasswordReset  services.Service[redeempasswordreset.Input, redeempasswordreset.Result]
	DeliverMail          services.Service[delivermail.Input, delivermail.Result]
}

func InitServices(deps *deps.Deps) *Services {
	return &Services{
		SignUp: ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Interval: drl.Hour, Value: 10},
			signup.New(
				deps.Logger,
				deps.UserRepository,
				deps.Credentials,
				deps.TokenIssuer,
				deps.Now,
			),
		),
		LogIn: ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Interval: drl.Hour, Value: 10},
			login.New(
				deps.Logger,
				deps.UserRepository,
				deps.Credentials,
				deps.TokenIssuer,
			),
		),
		GetCurrentUser: auth.WithAuthentication(
			deps.TokenIssuer,
			deps.UserRepository,
			getcurrentuser.New(deps.Logger, deps.TokenIssuer),
		),
		UpdateUser: auth.WithAuthentication(
			deps.TokenIssuer,
			deps.UserRepository,
			updateuser.New(
				deps.Logger,
				deps.UserRepository,
				deps.Credentials,
				deps.TokenIssuer,
				deps.Now,
			),
		),
		RequestPasswordReset: ratelimiting.New(
			deps.Logger,
			deps.RateLimiter,
			drl.Limit{Interval: drl.Hour, Value: 3},
			requestpasswordreset.New(
				deps.Logger,
				deps.UserRepository,
				deps.Credentials,
				deps.PasswordResetTokenSender,
				deps.Now,
			),
		),
		RedeemPasswordReset: redeempasswordreset.New(
			deps.Logger,
			deps.UserRepository,
			deps.Credentials,
			deps.PasswordResetTokenSender,
			deps.Now,
		),
		DeliverMail: delivermail.New(deps.Logger, deps.SES),
	}
}
