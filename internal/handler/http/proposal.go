package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/proposal"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProposalHandler interface {
	Execute(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type proposalHandlerImpl struct {
	proposalService proposal.ProposalService
}

func NewProposalHandler(proposalService proposal.ProposalService) ProposalHandler {
	return &proposalHandlerImpl{
		proposalService: proposalService,
	}
}

// Execute implements ProposalHandler.
func (h *proposalHandlerImpl) Execute(w http.ResponseWriter, r *http.Request) {
	result, err := h.proposalService.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Proposal executed", result)
}

// Revoke implements ProposalHandler.
func (h *proposalHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	result, err := h.proposalService.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Proposal revoked", result)
}
