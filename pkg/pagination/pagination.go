// Package pagination implements the two list contracts from spec.md §4.11:
// offset pagination for admin/list pages and opaque-cursor pagination for
// feeds. Grounded on the teacher's pkg/net/http cursor helpers (CreateCursor/
// DecodeCursor/ApplyCursorPagination), reimplemented against
// Masterminds/squirrel directly since the teacher's own package body was not
// present in the retrieval pack (only its tests were).
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/coziyoo/backend/pkg/apperr"
)

// Offset is the admin/list-page request contract.
type Offset struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string // "asc" | "desc"
}

// OffsetResult envelopes an offset page response.
type OffsetResult struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewOffsetResult computes totalPages and clamps page/pageSize into the
// result envelope.
func NewOffsetResult(page, pageSize, total int) OffsetResult {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return OffsetResult{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// ValidateOffset checks page/pageSize/sortBy/sortDir against an allowlist
// and returns a typed VALIDATION/PAGINATION/SORT_FIELD error otherwise.
func ValidateOffset(o Offset, allowedSort map[string]string, maxPageSize int) (Offset, error) {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize <= 0 {
		o.PageSize = 20
	}
	if o.PageSize > maxPageSize {
		return o, apperr.Newf(apperr.CodePaginationInvalid, "pageSize must be <= %d", maxPageSize)
	}
	if o.SortBy == "" {
		o.SortBy = "created_at"
	}
	if _, ok := allowedSort[o.SortBy]; !ok {
		return o, apperr.Newf(apperr.CodeSortFieldInvalid, "unknown sortBy %q", o.SortBy)
	}
	dir := strings.ToLower(o.SortDir)
	if dir == "" {
		dir = "desc"
	}
	if dir != "asc" && dir != "desc" {
		return o, apperr.New(apperr.CodePaginationInvalid, "sortDir must be asc or desc")
	}
	o.SortDir = dir
	return o, nil
}

// ApplyOffset applies LIMIT/OFFSET and a stable createdAt/id tie-break to a
// squirrel select builder, per spec.md §4.11.
func ApplyOffset(q sq.SelectBuilder, o Offset, allowedSort map[string]string) sq.SelectBuilder {
	col := allowedSort[o.SortBy]
	dir := strings.ToUpper(o.SortDir)
	q = q.OrderBy(col + " " + dir).OrderBy("created_at DESC").OrderBy("id DESC")
	q = q.Limit(uint64(o.PageSize)).Offset(uint64((o.Page - 1) * o.PageSize))
	return q
}

// Cursor is the opaque feed-pagination cursor payload.
type Cursor struct {
	ID         string `json:"id"`
	PointsNext bool   `json:"points_next"`
}

// CreateCursor builds a Cursor for the given anchor id and direction.
func CreateCursor(id string, pointsNext bool) Cursor {
	return Cursor{ID: id, PointsNext: pointsNext}
}

// EncodeCursor base64-encodes a cursor for transport.
func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCursor parses an opaque cursor string, returning CURSOR_INVALID on
// malformed input.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, apperr.New(apperr.CodeCursorInvalid, "malformed cursor")
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, apperr.New(apperr.CodeCursorInvalid, "malformed cursor")
	}
	return c, nil
}

// ApplyCursor applies the keyset predicate and ORDER/LIMIT for cursor-mode
// pagination, fetching one extra row so the caller can compute hasMore.
func ApplyCursor(q sq.SelectBuilder, c Cursor, orderDir string, limit int) (sq.SelectBuilder, string) {
	dir := strings.ToUpper(orderDir)
	if dir != "ASC" && dir != "DESC" {
		dir = "DESC"
	}

	op := ">"
	resultDir := dir
	if c.ID != "" {
		switch {
		case c.PointsNext && dir == "DESC":
			op = "<"
			resultDir = "DESC"
		case c.PointsNext && dir == "ASC":
			op = ">"
			resultDir = "ASC"
		case !c.PointsNext && dir == "ASC":
			op = "<"
			resultDir = "DESC"
		case !c.PointsNext && dir == "DESC":
			op = ">"
			resultDir = "ASC"
		}
		q = q.Where(sq.Expr("id "+op+" ?", c.ID))
	}

	q = q.OrderBy("id " + resultDir).Limit(uint64(limit + 1))
	return q, resultDir
}

// CursorResult is the feed-page response envelope.
type CursorResult struct {
	Limit      int    `json:"limit"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}
