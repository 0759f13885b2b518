package resetpassword

import (
	"encoding/json"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	service "happystack/internal/core/services/redeem_password_reset"
	"happystack/internal/http/handlers/response"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

// Validate only bounds sizes, password rules are enforced by the service so
// that its messages are reported field by field.
func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Length(0, 1024)),
		validation.Field(&i.Password, validation.Length(0, 1024)),
		validation.Field(&i.PasswordConfirm, validation.Length(0, 1024)),
	)
}

type Result struct {
	Msg              string `json:"msg"`
	NotificationSent bool   `json:"notificationSent"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderBadRequest(rw)
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderInputError(rw, err)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:              user.PasswordResetToken(input.Token),
			NewPassword:        user.RawPassword(input.Password),
			NewPasswordConfirm: user.RawPassword(input.PasswordConfirm),
		},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(rw, Result{Msg: "changed", NotificationSent: result.NotificationSent}, http.StatusOK)
}
