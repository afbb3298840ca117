package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"nursery-service/internal/coerce"
	"nursery-service/internal/render"
)

// ListTables returns the tables the caller may view.
func (h *Handler) ListTables(c echo.Context) error {
	a := actor(c)
	tables := h.records.Tables(a)
	out := make([]echo.Map, len(tables))
	for i, t := range tables {
		info, err := h.records.Describe(a, t.Slug)
		if err != nil {
			return h.respondError(c, err)
		}
		out[i] = echo.Map{
			"id":       t.ID,
			"slug":     t.Slug,
			"name":     t.Name,
			"position": t.Position,
			"canEdit":  info.CanEdit,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}

// GetTable returns a table with its display and edit columns.
func (h *Handler) GetTable(c echo.Context) error {
	info, err := h.records.Describe(actor(c), c.Param("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"table":          info.Table,
		"displayColumns": info.Display,
		"editColumns":    info.Edit,
		"canEdit":        info.CanEdit,
	})
}

// NewForm returns an empty create form.
func (h *Handler) NewForm(c echo.Context) error {
	info, err := h.records.Describe(actor(c), c.Param("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, render.Form(info.Table, info.Edit, nil, nil))
}

// FormSchema returns the JSON Schema of a table's edit form.
func (h *Handler) FormSchema(c echo.Context) error {
	info, err := h.records.Describe(actor(c), c.Param("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, render.JSONSchema(info.Table, info.Edit))
}

// ValidateForm runs the write-time validation over a submission without
// storing anything, for clients that check before submitting.
func (h *Handler) ValidateForm(c echo.Context) error {
	info, err := h.records.Describe(actor(c), c.Param("slug"))
	if err != nil {
		return h.respondError(c, err)
	}
	form, err := readForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checked, errs := render.Form(info.Table, info.Edit, nil, nil).Check(form)
	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, echo.Map{"valid": len(errs) == 0, "fields": errs, "form": checked})
}

// Options returns distinct values of a text column for filter dropdowns.
func (h *Handler) Options(c echo.Context) error {
	values, err := h.records.Options(c.Request().Context(), actor(c), c.Param("slug"), c.Param("column"))
	if err != nil {
		return h.respondError(c, err)
	}
	if values == nil {
		values = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"values": values})
}

// ListRecords returns the filtered list view of a table.
func (h *Handler) ListRecords(c echo.Context) error {
	res, err := h.records.List(c.Request().Context(), actor(c), c.Param("slug"), c.QueryParams())
	if err != nil {
		return h.respondError(c, err)
	}
	view := render.List(h.formatter, res.Table, res.Display, res.Records, res.Totals, res.CanEdit)
	order := "asc"
	if res.Filter.Desc {
		order = "desc"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"view":    view,
		"sort":    res.Filter.Sort,
		"order":   order,
		"ignored": res.Filter.Ignored,
	})
}

// CreateRecord validates and stores a new record.
func (h *Handler) CreateRecord(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rec, err := h.records.Create(c.Request().Context(), actor(c), c.Param("slug"), form)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": rec.ID(), "record": rec})
}

// GetRecord returns one record, raw and formatted.
func (h *Handler) GetRecord(c echo.Context) error {
	info, rec, err := h.records.Get(c.Request().Context(), actor(c), c.Param("slug"), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"record":  rec,
		"display": render.Detail(h.formatter, info.Display, rec),
		"canEdit": info.CanEdit,
	})
}

// EditForm returns the edit form of a record filled with its values.
func (h *Handler) EditForm(c echo.Context) error {
	info, rec, err := h.records.Get(c.Request().Context(), actor(c), c.Param("slug"), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, render.Form(info.Table, info.Edit, rec, nil))
}

// UpdateRecord applies a partial update.
func (h *Handler) UpdateRecord(c echo.Context) error {
	form, err := readForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rec, err := h.records.Update(c.Request().Context(), actor(c), c.Param("slug"), c.Param("id"), form)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": rec.ID(), "record": rec})
}

// DeleteRecord hard deletes a record.
func (h *Handler) DeleteRecord(c echo.Context) error {
	if err := h.records.Delete(c.Request().Context(), actor(c), c.Param("slug"), c.Param("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// readForm reads a flat submission from a JSON object or a url-encoded
// form. JSON numbers and booleans are accepted and turned into text;
// nested values are rejected.
func readForm(c echo.Context) (coerce.Form, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body map[string]interface{}
		dec := json.NewDecoder(req.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid JSON body")
		}
		form := make(coerce.Form, len(body))
		for k, v := range body {
			switch x := v.(type) {
			case nil:
				form[k] = ""
			case string:
				form[k] = x
			case json.Number:
				form[k] = x.String()
			case bool:
				form[k] = strconv.FormatBool(x)
			default:
				return nil, fmt.Errorf("field %q must be a string or number", k)
			}
		}
		return form, nil
	}

	params, err := c.FormParams()
	if err != nil {
		return nil, fmt.Errorf("invalid form body")
	}
	form := make(coerce.Form, len(params))
	for k, vals := range params {
		if len(vals) > 0 {
			form[k] = vals[0]
		}
	}
	return form, nil
}
