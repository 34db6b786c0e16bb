package v1

import (
	ez_uuid "github.com/condofin/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// Response is the response for a single resource.
type Response[T any] struct {
	Data  *T      `json:"data"`                                                          // Data for the resource
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ListResponse is the response for a list of resources.
type ListResponse[T any] struct {
	Data       []T         `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

// CreateResponse is the response for a collection POST.
type CreateResponse[T any] struct {
	Data  []Response[T] `json:"data"`                                                          // List of the created resources or their respective error
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *CreateResponse[T]) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, Response[T]{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

// CancelRequest is the body for cancelling a resource.
type CancelRequest struct {
	Reason string `json:"reason" example:"Entered twice"` // Why the resource is cancelled
}
