package updateuser

import (
	"encoding/json"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/domain/user"
	"happystack/internal/core/services"
	service "happystack/internal/core/services/update_user"
	"happystack/internal/http/handlers/response"
	"happystack/internal/http/handlers/rules"
	"io"
	"net/http"
	"strings"

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

// Input fields left out of the request body stay unchanged. An empty password
// is treated as absent.
type Input struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	if err := e.Decode(i); err != nil {
		return err
	}
	for _, field := range []*string{i.Username, i.Email} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Username, rules.Username(rules.Optional)...),
		validation.Field(&i.Email, rules.Email(rules.Optional)...),
		validation.Field(&i.Password, rules.Password()...),
	)
}

func (i Input) toServiceInput() service.Input {
	input := service.Input{}
	if i.Username != nil {
		input.Username = c.Some(user.NewUsername(*i.Username))
	}
	if i.Email != nil {
		input.Email = c.Some(c.NewEmail(*i.Email))
	}
	if i.Password != nil && *i.Password != "" {
		input.Password = c.Some(user.RawPassword(*i.Password))
	}
	return input
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

	result, err := h.service.Run(r.Context(), input.toServiceInput())
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}
	response.Render(rw, response.NewUserResult(result.User, result.Token), http.StatusOK)
}
