package signup

import (
	"encoding/json"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	signup "happystack/internal/core/services/sign_up"
	"happystack/internal/http/handlers/response"
	"happystack/internal/http/handlers/rules"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[signup.Input, signup.Result]
}

func New(service services.Service[signup.Input, signup.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	if err := e.Decode(i); err != nil {
		return err
	}
	i.Username = strings.TrimSpace(i.Username)
	i.Email = strings.TrimSpace(i.Email)
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Username, rules.Username(rules.Required)...),
		validation.Field(&i.Email, rules.Email(rules.Required)...),
		validation.Field(&i.Password, append([]validation.Rule{rules.Required}, rules.Password()...)...),
	)
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
		signup.Input{
			Username: user.NewUsername(input.Username),
			Email:    c.NewEmail(input.Email),
			Password: user.RawPassword(input.Password),
		},
	)
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	response.Render(rw, response.NewUserResult(result.User, result.Token), http.StatusCreated)
}
