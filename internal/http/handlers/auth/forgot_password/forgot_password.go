package forgotpassword

import (
	"encoding/json"
	c "happystack/internal/core/domain/common"
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/services"
	service "happystack/internal/core/services/request_password_reset"
	"happystack/internal/http/handlers/response"
	"happystack/internal/http/handlers/rules"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

const TEST_TOKEN_HEADER = "x-test-password-reset-token"

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(service services.Service[service.Input, service.Result], isTestMode bool) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	if err := e.Decode(i); err != nil {
		return err
	}
	i.Email = strings.TrimSpace(i.Email)
	return nil
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, rules.Email(rules.Required)...),
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

	result, err := h.service.Run(r.Context(), service.Input{Email: c.NewEmail(input.Email)})
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}

	if h.isTestMode {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.Token))
	}
	response.Render(rw, response.MessageResult{Msg: "sent"}, http.StatusOK)
}
