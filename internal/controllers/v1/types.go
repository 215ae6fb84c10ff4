package v1

import (
	ll_uuid "github.com/ledgerline/backend/internal/uuid"
)

type URIID struct {
	ID ll_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type Pagination struct {
	Count  int  `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int  `json:"limit" example:"25"`  // The maximum amount of records returned
	Total  int  `json:"total" example:"827"` // The total number of records matching the query
}
