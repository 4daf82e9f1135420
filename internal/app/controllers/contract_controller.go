package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edaraujo/secretaria/internal/app/models/dto"
	"github.com/edaraujo/secretaria/internal/app/services"
	"github.com/edaraujo/secretaria/internal/middleware"
)

// ContractController handles contract lifecycle endpoints
type ContractController struct {
	contractService *services.ContractService
}

// NewContractController creates a new ContractController
func NewContractController(contractService *services.ContractService) *ContractController {
	return &ContractController{contractService: contractService}
}

// Issue renders and persists an awaiting-signature contract.
func (cc *ContractController) Issue(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.IssueContractRequest
	if !bindJSON(c, &req) {
		return
	}

	contract, err := cc.contractService.Issue(c.Request.Context(), actor, req.OwnerID, req.TemplateID, req.Semester, req.Year, req.Values)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAPIResponse(contract))
}

// Accept records the owner's signature.
func (cc *ContractController) Accept(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contract, err := cc.contractService.Accept(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(contract))
}

// Regenerate recomputes the contract artifact from the live entity graph.
func (cc *ContractController) Regenerate(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contract, err := cc.contractService.RegenerateArtifact(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(contract))
}

// GetByID retrieves one contract.
func (cc *ContractController) GetByID(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contract, err := cc.contractService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(contract))
}

// Download streams the rendered contract artifact.
func (cc *ContractController) Download(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	data, err := cc.contractService.GetArtifact(c.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

// ListByOwner lists an owner's contracts.
func (cc *ContractController) ListByOwner(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	contracts, err := cc.contractService.ListByOwner(c.Request.Context(), actor, ownerID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAPIResponse(contracts))
}
