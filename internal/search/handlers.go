package search

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

// Register attaches the search and dashboard routes to the given group.
func Register(rg *gin.RouterGroup, svc *Service) {
	h := &Handler{svc: svc}
	rg.GET("/projects", h.search)
	rg.GET("/dashboard", h.dashboard)
}

func (h *Handler) search(c *gin.Context) {
	f, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	page := intParam(c, "page", 1)
	pageSize := intParam(c, "page_size", 20)
	if pageSize > 100 {
		pageSize = 100
	}

	res, err := h.svc.Search(c.Request.Context(), f, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"projects":  res.Projects,
		"total":     res.Total,
		"page":      res.Page,
		"page_size": res.PageSize,
	})
}

func (h *Handler) dashboard(c *gin.Context) {
	f, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	stats, err := h.svc.Dashboard(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "dashboard": stats})
}

func parseFilters(c *gin.Context) (Filters, error) {
	var f Filters
	var err error
	f.Query = c.Query("q")

	if f.SectorIDs, err = idList(c, "sector_id"); err != nil {
		return f, err
	}
	if f.MinistryIDs, err = idList(c, "ministry_id"); err != nil {
		return f, err
	}
	if f.AgencyIDs, err = idList(c, "agency_id"); err != nil {
		return f, err
	}
	if f.ContractTypeIDs, err = idList(c, "contract_type_id"); err != nil {
		return f, err
	}
	if f.ConcessionFormIDs, err = idList(c, "concession_form_id"); err != nil {
		return f, err
	}
	if f.YearFrom, err = yearParam(c, "year_from"); err != nil {
		return f, err
	}
	if f.YearTo, err = yearParam(c, "year_to"); err != nil {
		return f, err
	}
	return f, nil
}

// idList reads a repeated or comma-separated integer query parameter.
func idList(c *gin.Context, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, &paramError{name: name, value: part}
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func yearParam(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &paramError{name: name, value: raw}
	}
	return &y, nil
}

func intParam(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": " + e.value
}
