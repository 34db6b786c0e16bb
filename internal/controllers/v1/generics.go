package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// editable is implemented by the user configurable parameters of a resource.
type editable[M any] interface {
	model() M
}

func abort(c *gin.Context, err error) {
	c.JSON(status(err), httpError{
		Error: err.Error(),
	})
}

func abortList[A any](c *gin.Context, err error) {
	e := err.Error()
	c.JSON(status(err), ListResponse[A]{
		Error: &e,
	})
}

// getModel loads the resource identified by the id URI parameter.
// If this fails, the error response is written and ok is false.
func getModel[M any](c *gin.Context) (resource M, ok bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return resource, false
	}

	err = models.DB.First(&resource, uri.ID.UUID).Error
	if err != nil {
		abort(c, err)
		return resource, false
	}

	return resource, true
}

// respond writes the API representation of a resource.
func respond[M, A any](c *gin.Context, code int, resource M, convert func(*gin.Context, M) (A, error)) {
	data, err := convert(c, resource)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(code, Response[A]{Data: &data})
}

// resourceOptionsDetail returns the allowed HTTP methods for a specific resource.
func resourceOptionsDetail[M any](c *gin.Context, options gin.HandlerFunc) {
	_, ok := getModel[M](c)
	if !ok {
		return
	}

	options(c)
}

func getResource[M, A any](c *gin.Context, convert func(*gin.Context, M) (A, error)) {
	resource, ok := getModel[M](c)
	if !ok {
		return
	}

	respond(c, http.StatusOK, resource, convert)
}

// createResources creates all resources in the request body. Every resource
// gets its own entry in the response, the status is the highest one.
func createResources[E editable[M], M, A any](c *gin.Context, convert func(*gin.Context, M) (A, error), create func(*gin.Context, *M) error) {
	var editables []E
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreateResponse[A]{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CreateResponse[A]{}

	for _, editable := range editables {
		resource := editable.model()

		err = create(c, &resource)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := convert(c, resource)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, Response[A]{Data: &data})
	}

	c.JSON(status, r)
}

func createInDB[M any](_ *gin.Context, resource *M) error {
	return models.DB.Create(resource).Error
}

// listResources finds all resources matching the query and writes them
// with pagination information.
func listResources[M, A any](c *gin.Context, q *gorm.DB, setFields []string, offset uint, limit int, convert func(*gin.Context, M) (A, error)) {
	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(offset))

	// Default to 50 resources and set the limit
	if !slices.Contains(setFields, "Limit") {
		limit = 50
	}
	q = q.Limit(limit)

	var resources []M
	err := q.Find(&resources).Error
	if err != nil {
		abortList[A](c, err)
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		abortList[A](c, err)
		return
	}

	data := make([]A, 0, len(resources))
	for _, resource := range resources {
		apiResource, err := convert(c, resource)
		if err != nil {
			abortList[A](c, err)
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, ListResponse[A]{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: offset,
			Limit:  limit,
		},
	})
}

// updateResource updates the fields of a resource that are set in the body.
// after is called with the updated fields once the update succeeded and may be nil.
func updateResource[E editable[M], M, A any](c *gin.Context, convert func(*gin.Context, M) (A, error), after func(*M, []any) error) {
	resource, ok := getModel[M](c)
	if !ok {
		return
	}

	var data E
	updateFields, err := httputil.GetBodyFields(c, data)
	if err != nil {
		abort(c, err)
		return
	}

	err = httputil.BindData(c, &data)
	if err != nil {
		abort(c, err)
		return
	}

	err = models.DB.Model(&resource).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		abort(c, err)
		return
	}

	if after != nil {
		err = after(&resource, updateFields)
		if err != nil {
			abort(c, err)
			return
		}
	}

	respond(c, http.StatusOK, resource, convert)
}

func deleteResource[M any](c *gin.Context) {
	resource, ok := getModel[M](c)
	if !ok {
		return
	}

	err := models.DB.Delete(&resource).Error
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// listPage writes a page of resources that have been filtered in memory.
func listPage[M, A any](c *gin.Context, resources []M, setFields []string, offset uint, limit int, convert func(*gin.Context, M) (A, error)) {
	if !slices.Contains(setFields, "Limit") {
		limit = 50
	}

	total := len(resources)
	start := min(int(offset), total)
	end := total
	if limit >= 0 {
		end = min(start+limit, total)
	}

	data := make([]A, 0, end-start)
	for _, resource := range resources[start:end] {
		apiResource, err := convert(c, resource)
		if err != nil {
			abortList[A](c, err)
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, ListResponse[A]{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  int64(total),
			Offset: offset,
			Limit:  limit,
		},
	})
}
