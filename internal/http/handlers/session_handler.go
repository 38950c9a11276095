package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// OpenDay godoc
// @ID          openDay
// @Summary     Open the business day (admin or POS)
// @Description Reopening a day that was closed earlier the same date resumes
// @Description the existing session.
// @Tags        Sessions
// @Produce     json
// @Success     201  {object}  domain.DaySession
// @Failure     409  {object}  handlers.ErrorResponse "Already open"
// @Router      /sessions/open [post]
func (h *Handlers) OpenDay(c *gin.Context) {
	session, err := h.sessionSvc.Open(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrSessionExists) {
			fail(c, http.StatusConflict, ErrCodeConflict, "the business day is already open")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not open the day")
		return
	}
	ok(c, http.StatusCreated, session)
}

// CloseDay godoc
// @ID          closeDay
// @Summary     Close the business day (admin or POS)
// @Tags        Sessions
// @Produce     json
// @Success     200  {object}  domain.DaySession
// @Failure     404  {object}  handlers.ErrorResponse "No open session today"
// @Router      /sessions/close [post]
func (h *Handlers) CloseDay(c *gin.Context) {
	session, err := h.sessionSvc.Close(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no open session today")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not close the day")
		return
	}
	ok(c, http.StatusOK, session)
}

// CurrentSession godoc
// @ID          currentSession
// @Summary     Today's session state
// @Description Public so storefronts can show an "open / closed" banner.
// @Tags        Sessions
// @Produce     json
// @Success     200  {object}  map[string]any
// @Router      /sessions/current [get]
func (h *Handlers) CurrentSession(c *gin.Context) {
	session, err := h.sessionSvc.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			ok(c, http.StatusOK, gin.H{"open": false, "session": nil})
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load session")
		return
	}
	ok(c, http.StatusOK, gin.H{"open": session.Open, "session": session})
}
