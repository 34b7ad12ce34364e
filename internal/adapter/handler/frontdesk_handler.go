package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
	"github.com/srgjo27/hotel_frontdesk/internal/core/services"
)

type FrontDeskHandler struct {
	svc *services.FrontDeskService
}

func NewFrontDeskHandler(svc *services.FrontDeskService) *FrontDeskHandler {
	return &FrontDeskHandler{svc: svc}
}

type checkInBody struct {
	FullName      string     `json:"fullName"`
	Phone         string     `json:"phone"`
	ExpectedOutAt *time.Time `json:"expectedOutAt"`
}

func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, domain.ErrInvalidRequest.WithMeta("reason", err.Error()))
		return false
	}
	return true
}

func (h *FrontDeskHandler) ListBuildings(c *gin.Context) {
	buildings := h.svc.ListBuildings(c.Request.Context())
	if buildings == nil {
		buildings = []string{}
	}
	respond(c, http.StatusOK, buildings)
}

func (h *FrontDeskHandler) ListRooms(c *gin.Context) {
	rooms, err := h.svc.ListRooms(c.Request.Context(), c.Query("building"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, rooms)
}

func (h *FrontDeskHandler) GetRoom(c *gin.Context) {
	room, err := h.svc.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, room)
}

func (h *FrontDeskHandler) EditRoom(c *gin.Context) {
	var req services.EditRoomRequest
	if !bind(c, &req) {
		return
	}

	room, err := h.svc.EditRoom(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, room)
}

func (h *FrontDeskHandler) ActiveStay(c *gin.Context) {
	stay, err := h.svc.ActiveStay(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, stay)
}

func (h *FrontDeskHandler) CheckIn(c *gin.Context) {
	var body checkInBody
	if !bind(c, &body) {
		return
	}

	stay, err := h.svc.CheckIn(c.Request.Context(), c.Param("id"), services.CheckInRequest{
		Guest:         domain.GuestProfile{FullName: body.FullName, Phone: body.Phone},
		ExpectedOutAt: body.ExpectedOutAt,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, stay)
}

func (h *FrontDeskHandler) CheckOut(c *gin.Context) {
	room, err := h.svc.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, room)
}

func (h *FrontDeskHandler) GetFolio(c *gin.Context) {
	folio, err := h.svc.GetFolio(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, folio)
}

func (h *FrontDeskHandler) AddCharge(c *gin.Context) {
	var req services.ChargeRequest
	if !bind(c, &req) {
		return
	}

	folio, err := h.svc.AddCharge(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, folio)
}

func (h *FrontDeskHandler) TakePayment(c *gin.Context) {
	var req services.PaymentRequest
	if !bind(c, &req) {
		return
	}

	folio, err := h.svc.TakePayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, folio)
}
