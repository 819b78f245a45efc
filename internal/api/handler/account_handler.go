package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

// AccountHandler exposes the provisioning surface: the only way accounts are
// created. Route-level RBAC restricts it to administrative tiers.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type provisionRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type provisionAdminRequest struct {
	provisionRequest
	Role string `json:"role" validate:"required,oneof=admin super_admin"`
}

// ProvisionInvestor creates an investor account.
//
// @Summary      Provision an investor account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      provisionRequest  true  "Account details"
// @Success      201   {object}  domain.Principal
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/accounts [post]
func (h *AccountHandler) ProvisionInvestor(c echo.Context) error {
	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	p, err := h.accounts.ProvisionInvestor(c.Request().Context(), provisionInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "user already exists"})
		}
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// ProvisionAdmin creates an administrative account (super-admin only).
//
// @Summary      Provision an administrative account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      provisionAdminRequest  true  "Account details and tier"
// @Success      201   {object}  domain.Principal
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/admins [post]
func (h *AccountHandler) ProvisionAdmin(c echo.Context) error {
	var req provisionAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	p, err := h.accounts.ProvisionAdmin(c.Request().Context(), provisionInput(req.provisionRequest), req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "user already exists"})
		}
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func provisionInput(req provisionRequest) ports.ProvisionInput {
	return ports.ProvisionInput{
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}
