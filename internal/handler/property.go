package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/model"
	"github.com/uniliving/backend/internal/repository"
)

// PropertyHandler serves the listing CRUD and browse endpoints.
type PropertyHandler struct {
	Props *repository.PropertyRepo
	Cats  *repository.CategoryRepo
}

func NewPropertyHandler(props *repository.PropertyRepo, cats *repository.CategoryRepo) *PropertyHandler {
	return &PropertyHandler{Props: props, Cats: cats}
}

// propertyReq is the write payload for create and update.  Nullable columns
// use pointers so "absent" and "zero" stay distinguishable.
type propertyReq struct {
	CategoryID     uint64   `json:"category_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	PostalCode     string   `json:"postal_code"`
	Country        string   `json:"country"`
	Price          float64  `json:"price"`
	Currency       string   `json:"currency"`
	Size           *float64 `json:"size"`
	RoomCount      *int     `json:"room_count"`
	BathroomCount  *int     `json:"bathroom_count"`
	HasBalcony     bool     `json:"has_balcony"`
	HasParking     bool     `json:"has_parking"`
	HasElevator    bool     `json:"has_elevator"`
	PetsAllowed    bool     `json:"pets_allowed"`
	SmokingAllowed bool     `json:"smoking_allowed"`
	AvailableFrom  *string  `json:"available_from"`
	AvailableTo    *string  `json:"available_to"`
	IsActive       *bool    `json:"is_active"`
}

func (r *propertyReq) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.Address) == "" {
		return "address is required"
	}
	if strings.TrimSpace(r.City) == "" {
		return "city is required"
	}
	if strings.TrimSpace(r.Country) == "" {
		return "country is required"
	}
	if r.Price <= 0 {
		return "price must be positive"
	}
	if r.CategoryID == 0 {
		return "category_id is required"
	}
	return ""
}

// toModel copies the request into a Property.  Dates arrive as "2006-01-02".
func (r *propertyReq) toModel(p *model.Property) error {
	p.CategoryID = r.CategoryID
	p.Title = strings.TrimSpace(r.Title)
	p.Description = strings.TrimSpace(r.Description)
	p.Address = strings.TrimSpace(r.Address)
	p.City = strings.TrimSpace(r.City)
	p.PostalCode = strings.TrimSpace(r.PostalCode)
	p.Country = strings.TrimSpace(r.Country)
	p.Price = r.Price
	p.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	p.Size = r.Size
	p.RoomCount = r.RoomCount
	p.BathroomCount = r.BathroomCount
	p.HasBalcony = r.HasBalcony
	p.HasParking = r.HasParking
	p.HasElevator = r.HasElevator
	p.PetsAllowed = r.PetsAllowed
	p.SmokingAllowed = r.SmokingAllowed
	p.IsActive = true
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	var err error
	if p.AvailableFrom, err = parseDate(r.AvailableFrom); err != nil {
		return err
	}
	if p.AvailableTo, err = parseDate(r.AvailableTo); err != nil {
		return err
	}
	return nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create handles POST /api/properties (landlord only).
func (h *PropertyHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	ok, err := h.Cats.Exists(ctx, req.CategoryID)
	if err != nil {
		return writeRepoError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown category"})
	}

	p := model.Property{OwnerID: userID}
	if err := req.toModel(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, expected YYYY-MM-DD"})
	}
	if err := h.Props.Create(ctx, &p); err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /api/properties/:id (owner only).
func (h *PropertyHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	ok, err := h.Cats.Exists(ctx, req.CategoryID)
	if err != nil {
		return writeRepoError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown category"})
	}

	p := model.Property{ID: id}
	if err := req.toModel(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, expected YYYY-MM-DD"})
	}
	if err := h.Props.Update(ctx, userID, &p); err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/properties/:id (owner only).  The row is
// soft-deleted so images and favorites referencing it stay consistent.
func (h *PropertyHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Props.Delete(ctx, id, userID); err != nil {
		return writeRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Mine handles GET /api/properties/mine: all of the caller's listings,
// active or not.
func (h *PropertyHandler) Mine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	props, err := h.Props.ListByOwner(ctx, userID)
	if err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusOK, props)
}

// Get handles GET /api/properties/:id.  Inactive listings are hidden from
// the public endpoint.
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	p, err := h.Props.ByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err)
	}
	if !p.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// List handles GET /api/properties: public browse with filters, sorting and
// pagination, all supplied as query parameters.
func (h *PropertyHandler) List(c echo.Context) error {
	q, err := parseSearchQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	props, total, err := h.Props.Search(ctx, q)
	if err != nil {
		return writeRepoError(c, err)
	}
	page, size := q.Pagination()
	return c.JSON(http.StatusOK, echo.Map{
		"items":     props,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}

// parseSearchQuery reads the browse filters from the URL.  Unparseable
// numeric or boolean values are an error rather than silently ignored.
func parseSearchQuery(c echo.Context) (repository.PropertySearchQuery, error) {
	q := repository.PropertySearchQuery{
		SearchTerm: c.QueryParam("search"),
		City:       c.QueryParam("city"),
		SortBy:     c.QueryParam("sort_by"),
		SortDesc:   strings.EqualFold(c.QueryParam("sort_dir"), "desc"),
	}

	var err error
	if q.CategoryID, err = queryUint(c, "category_id"); err != nil {
		return q, err
	}
	if q.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return q, err
	}
	if q.MinSize, err = queryFloat(c, "min_size"); err != nil {
		return q, err
	}
	if q.MaxSize, err = queryFloat(c, "max_size"); err != nil {
		return q, err
	}
	if q.MinRoomCount, err = queryInt(c, "min_rooms"); err != nil {
		return q, err
	}
	if q.MaxRoomCount, err = queryInt(c, "max_rooms"); err != nil {
		return q, err
	}
	if q.HasBalcony, err = queryBool(c, "has_balcony"); err != nil {
		return q, err
	}
	if q.HasParking, err = queryBool(c, "has_parking"); err != nil {
		return q, err
	}
	if q.HasElevator, err = queryBool(c, "has_elevator"); err != nil {
		return q, err
	}
	if q.PetsAllowed, err = queryBool(c, "pets_allowed"); err != nil {
		return q, err
	}
	if q.SmokingAllowed, err = queryBool(c, "smoking_allowed"); err != nil {
		return q, err
	}

	if page, err := queryInt(c, "page"); err != nil {
		return q, err
	} else if page != nil {
		q.Page = *page
	}
	if size, err := queryInt(c, "page_size"); err != nil {
		return q, err
	} else if size != nil {
		q.PageSize = *size
	}
	return q, nil
}

func queryUint(c echo.Context, name string) (*uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, badParam(name)
	}
	return &v, nil
}

func queryInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badParam(name)
	}
	return &v, nil
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, badParam(name)
	}
	return &v, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badParam(name)
	}
	return &v, nil
}

type paramError struct{ name string }

func (e paramError) Error() string { return "invalid value for " + e.name }

func badParam(name string) error { return paramError{name: name} }
