package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contacts-api/internal/domain"
	"contacts-api/internal/service"
)

type createContactRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email"`
	PhoneNum  string `json:"phone_num" binding:"required,max=13"`
	Birthday  string `json:"birthday" binding:"required,datetime=2006-01-02"`
}

type updateContactRequest struct {
	Email    string `json:"email" binding:"required,email"`
	PhoneNum string `json:"phone_num" binding:"required,max=13"`
}

func (h *Handler) listContacts(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactsToResponse(contacts))
}

func (h *Handler) getContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) createContact(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, "invalid birthday")
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), currentUser(c).ID, service.ContactInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		PhoneNum:  req.PhoneNum,
		Birthday:  birthday,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) updateContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), currentUser(c).ID, id, domain.ContactUpdate{
		Email:    req.Email,
		PhoneNum: req.PhoneNum,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) deleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Delete(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) upcomingBirthdays(c *gin.Context) {
	contacts, err := h.contacts.UpcomingBirthdays(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactsToResponse(contacts))
}

func (h *Handler) searchContacts(c *gin.Context) {
	contacts, err := h.contacts.Search(c.Request.Context(), currentUser(c).ID, c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactsToResponse(contacts))
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondDetail(c, http.StatusUnprocessableEntity, "invalid contact id")
		return 0, false
	}
	return id, true
}
