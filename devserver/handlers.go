package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/api"
	"github.com/etnz/profiles/financial"
)

const (
	defaultPage = 1
	defaultSize = 100
)

// storeError answers the errors of the store.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotFound):
		fail(c, http.StatusNotFound, errNotFound.Error())
	case errors.Is(err, errDuplicate):
		fail(c, http.StatusConflict, errDuplicate.Error())
	default:
		internalError(c, err)
	}
}

func positiveQuery(c *gin.Context, name string, def int) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		fail(c, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return n, true
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		fail(c, http.StatusNotFound, errNotFound.Error())
		return 0, false
	}
	return id, true
}

// listCompanies serves one page of companies. skip is the 1-based page
// number and limit the page size, other query parameters are filters.
func (s *Server) listCompanies(c *gin.Context) {
	page, valid := positiveQuery(c, "skip", defaultPage)
	if !valid {
		return
	}
	size, valid := positiveQuery(c, "limit", defaultSize)
	if !valid {
		return
	}
	filters := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if k != "skip" && k != "limit" && len(v) > 0 {
			filters[k] = v[0]
		}
	}
	items, total, err := s.store.listCompanies(c.Request.Context(), page, size, filters)
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, "success", api.Page[profiles.Company]{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: (total + size - 1) / size,
	})
}

func (s *Server) getCompany(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	company, err := s.store.getCompany(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	if notModified(c, company) {
		return
	}
	ok(c, "success", company)
}

// notModified sets the weak ETag of v and answers 304 when the client
// already holds it.
func notModified(c *gin.Context, v any) bool {
	body, err := json.Marshal(v)
	if err != nil {
		return false
	}
	tag := fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(body))
	c.Header("ETag", tag)
	if c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// bindCompany reads and validates the company of the request body.
func bindCompany(c *gin.Context) (profiles.Company, bool) {
	var company profiles.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		fail(c, http.StatusBadRequest, "invalid company: "+err.Error())
		return company, false
	}
	if err := company.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return company, false
	}
	return company, true
}

func (s *Server) createCompany(c *gin.Context) {
	company, valid := bindCompany(c)
	if !valid {
		return
	}
	created, err := s.store.createCompany(c.Request.Context(), company)
	if err != nil {
		storeError(c, err)
		return
	}
	ok(c, "Company created successfully.", created)
}

func (s *Server) updateCompany(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	company, valid := bindCompany(c)
	if !valid {
		return
	}
	updated, err := s.store.updateCompany(c.Request.Context(), id, company)
	if err != nil {
		storeError(c, err)
		return
	}
	ok(c, "Company updated successfully.", updated)
}

func (s *Server) deleteCompany(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := s.store.deleteCompany(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	ok(c, fmt.Sprintf("Company with id %d deleted successfully.", id), nil)
}

// uploadStatement stores a statement file posted as a multipart form with
// the fields file, type and company_id.
func (s *Server) uploadStatement(c *gin.Context) {
	header, err := c.FormFile("file")
	companyID, idErr := strconv.Atoi(c.PostForm("company_id"))
	if err != nil || idErr != nil || c.PostForm("type") == "" {
		fail(c, http.StatusBadRequest, "file, type and company_id are required")
		return
	}
	typ, err := profiles.ParseStatementType(c.PostForm("type"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	defer f.Close()

	statements, err := parseStatements(f)
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Sprintf("invalid statement file %q: %v", header.Filename, err))
		return
	}
	n, err := s.store.saveStatements(c.Request.Context(), companyID, typ, statements)
	if err != nil {
		storeError(c, err)
		return
	}
	years := make([]string, 0, len(statements))
	for _, st := range statements {
		years = append(years, st.Year)
	}
	ok(c, fmt.Sprintf("%s uploaded successfully.", typ.Label()), financial.UploadResult{
		CompanyID: companyID,
		Type:      typ,
		Years:     years,
		Values:    n,
	})
}

// chart serves the chart of a metric of a company.
func (s *Server) chart(c *gin.Context) {
	companyID, err := strconv.Atoi(c.Query("company_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "company_id must be an integer")
		return
	}
	name := c.Query("metric")
	m, found := profiles.LookupMetric(name)
	if !found {
		fail(c, http.StatusNotFound, fmt.Sprintf("Unknown metric %q", name))
		return
	}
	ctx := c.Request.Context()
	if _, err := s.store.getCompany(ctx, companyID); err != nil {
		storeError(c, err)
		return
	}
	data, err := s.store.series(ctx, companyID, m.Dependencies())
	if err != nil {
		internalError(c, err)
		return
	}
	ok(c, "success", m.Chart(data))
}
