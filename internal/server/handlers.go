package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/mealbook/internal/api"
	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/model"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"started_at": s.startedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUser(c *gin.Context) {
	c.JSON(http.StatusOK, api.UserResponse{ID: c.GetString(ownerKey)})
}

func (s *Server) handleSelect(c *gin.Context) {
	r, err := api.ParseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		badRequest(c, err)
		return
	}
	rows, err := s.store.Select(c.Request.Context(), c.GetString(ownerKey), r)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.FromRecords(rows))
}

func (s *Server) handleInsert(c *gin.Context) {
	owner := c.GetString(ownerKey)

	var body []api.Row
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	recs, err := api.Records(body)
	if err != nil {
		badRequest(c, err)
		return
	}
	for i := range recs {
		recs[i].ID = ""
		recs[i].Owner = owner
	}

	ids, err := s.store.Insert(c.Request.Context(), recs)
	if err != nil {
		s.storeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	if len(recs) > 0 {
		s.publishEvent(owner, api.Event{
			Type:  "inserted",
			Start: model.FormatDate(recs[0].Date),
			End:   model.FormatDate(recs[len(recs)-1].Date),
		})
	}
	c.JSON(http.StatusCreated, api.InsertResponse{IDs: ids})
}

func (s *Server) handleUpdate(c *gin.Context) {
	owner := c.GetString(ownerKey)
	id := c.Param("id")

	var body api.PatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	p := body.Patch()
	if p.Empty() {
		badRequest(c, errors.New("patch sets neither breakfast nor dinner"))
		return
	}

	if err := s.store.Update(c.Request.Context(), owner, id, p); err != nil {
		s.storeError(c, err)
		return
	}
	s.publishEvent(owner, api.Event{Type: "updated", RowID: id})
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDelete(c *gin.Context) {
	owner := c.GetString(ownerKey)
	r, err := api.ParseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := s.store.Delete(c.Request.Context(), owner, r); err != nil {
		s.storeError(c, err)
		return
	}
	ev := api.Event{Type: "deleted"}
	if r != nil {
		ev.Start, ev.End = model.FormatDate(r.Start), model.FormatDate(r.End)
	}
	s.publishEvent(owner, ev)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEvents(c *gin.Context) {
	var since int64
	if v := c.Query("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, err)
			return
		}
		since = n
	}
	c.JSON(http.StatusOK, s.eventsFor(c.GetString(ownerKey), since))
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
}

func (s *Server) storeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, ledger.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error()})
}
