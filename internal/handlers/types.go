package handlers

import "github.com/serroba/trending-go/internal/trending"

// RecordInteractionRequest registers one interaction against an item.
type RecordInteractionRequest struct {
	TrendListID string `doc:"Trend list the item belongs to" example:"shoes" path:"trendListId"`
	Body        struct {
		ItemID string `doc:"Item the interaction targets" example:"old boot" json:"itemId" minLength:"1"`
	}
}

// RecordInteractionResponse forwards the refreshed ranked list.
type RecordInteractionResponse struct {
	Body trending.RankedList
}

// GetTrendingItemsRequest asks for the current leaders of a trend list.
type GetTrendingItemsRequest struct {
	TrendListID string `doc:"Trend list to rank"                                        example:"shoes" path:"trendListId"`
	Limit       int    `doc:"Max items to return; defaults to the configured limit" example:"10"    minimum:"1"        query:"limit" required:"false"`
}

// GetTrendingItemsResponse maps itemId to its current count, ranked
// descending.
type GetTrendingItemsResponse struct {
	Body trending.RankedList
}

// WipeExpiredResponse reports whether the sweep removed anything.
type WipeExpiredResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// InvokeFunctionRequest carries a raw payload to a named function.
type InvokeFunctionRequest struct {
	Function string `doc:"Function name" example:"GetTrendingItems" path:"function"`
	RawBody  []byte
}

// InvokeFunctionResponse returns the function's raw JSON reply.
type InvokeFunctionResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
