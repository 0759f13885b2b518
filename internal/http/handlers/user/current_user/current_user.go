package currentuser

import (
	e "happystack/internal/core/domain/errors"
	"happystack/internal/core/services"
	service "happystack/internal/core/services/get_current_user"
	"happystack/internal/http/handlers/response"
	"net/http"
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

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{})
	if err != nil {
		response.RenderServiceError(rw, err)
		return
	}
	response.Render(rw, response.NewUserResult(result.User, result.Token), http.StatusOK)
}
