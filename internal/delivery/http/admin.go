package http

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tapseal/internal/auth"
	"tapseal/internal/export"
	"tapseal/internal/models"
)

type loginInput struct {
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AdminLogin
// @Summary AdminLogin
// @Description Exchanges the staff password for a session token
// @ID admin-login
// @Accept json
// @Produce json
// @Param input body loginInput true "credentials"
// @Success 200 {object} loginResponse
// @Failure 400,401 {object} errorResponse
// @Router /api/admin/login [post]
func (h *Handler) AdminLogin(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "missing password")
		return
	}

	token, err := h.auth.Login(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadPassword) {
			newErrorResponse(c, http.StatusUnauthorized, "wrong password")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) adminAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		newErrorResponse(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	if err := h.auth.Verify(parts[1]); err != nil {
		newErrorResponse(c, http.StatusUnauthorized, "invalid session token")
		return
	}
	c.Next()
}

type listOrdersResponse struct {
	Data []models.Order `json:"data"`
}

// parseMonth reads "YYYY-MM".
func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

// AdminListOrders
// @Summary AdminListOrders
// @Description Lists orders, optionally filtered by status or month
// @ID admin-list-orders
// @Produce json
// @Param status query string false "order status"
// @Param month query string false "month as YYYY-MM"
// @Success 200 {object} listOrdersResponse
// @Failure 400,401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/admin/orders [get]
func (h *Handler) AdminListOrders(c *gin.Context) {
	if month := c.Query("month"); month != "" {
		year, m, err := parseMonth(month)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		orders, err := h.svc.ListOrdersByMonth(year, m)
		if err != nil {
			mapServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, listOrdersResponse{Data: orders})
		return
	}

	status := models.OrderStatus(c.Query("status"))
	if status != "" && models.StatusPriority(status) > 4 {
		newErrorResponse(c, http.StatusBadRequest, "unknown status")
		return
	}

	orders, err := h.svc.ListOrders(status)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOrdersResponse{Data: orders})
}

// AdminGetOrder
// @Summary AdminGetOrder
// @Description Returns one order with its URL list
// @ID admin-get-order
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} models.Order
// @Failure 401,404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/admin/orders/{id} [get]
func (h *Handler) AdminGetOrder(c *gin.Context) {
	ord, err := h.svc.GetOrder(c.Param("id"))
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// AdminUpdateOrder
// @Summary AdminUpdateOrder
// @Description Moves an order forward through fulfillment; a tracking number marks it shipped
// @ID admin-update-order
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param input body models.UpdateOrderInput true "fields to change"
// @Success 200 {object} models.Order
// @Failure 400,401,404,409 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/admin/orders/{id} [patch]
func (h *Handler) AdminUpdateOrder(c *gin.Context) {
	var in models.UpdateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ord, err := h.svc.UpdateOrder(c.Param("id"), in)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// AdminConfirmPayment
// @Summary AdminConfirmPayment
// @Description Marks a bank-transfer order paid after the wire arrives
// @ID admin-confirm-payment
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} models.Order
// @Failure 401,404,409 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/admin/orders/{id}/confirm-payment [post]
func (h *Handler) AdminConfirmPayment(c *gin.Context) {
	ord, err := h.svc.ConfirmBankPayment(c.Param("id"))
	if err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// AdminDeleteOrder
// @Summary AdminDeleteOrder
// @Description Removes an order and its URL list
// @ID admin-delete-order
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} statusResponse
// @Failure 401,404 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/admin/orders/{id} [delete]
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Param("id")); err != nil {
		mapServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// AdminExportOrders
// @Summary AdminExportOrders
// @Description Downloads a month of orders as an xlsx workbook
// @ID admin-export-orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param month query string true "month as YYYY-MM"
// @Success 200 {file} file
// @Failure 400,401 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Security ApiKeyAuth
// @Router /api/admin/orders/export [get]
func (h *Handler) AdminExportOrders(c *gin.Context) {
	month := c.Query("month")
	year, m, err := parseMonth(month)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	orders, err := h.svc.ListOrdersByMonth(year, m)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	// The workbook reads as a ledger, oldest first.
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	wb, err := export.Workbook(orders)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer wb.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="orders-%s.xlsx"`, month))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
}
