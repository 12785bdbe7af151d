package listing

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Query es el contrato uniforme de filtrado/paginación de los listados.
type Query struct {
	Page   int    // 0-based
	Size   int    // >=1
	Sort   string // campo de orden; cada repo valida contra su whitelist
	Search string // substring case-insensitive sobre los campos de texto fijos
}

// Normalize aplica defaults y límites. Sort por defecto: id ascendente.
func (q Query) Normalize() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	q.Sort = strings.TrimSpace(q.Sort)
	if q.Sort == "" {
		q.Sort = "id"
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q Query) Offset() int { return q.Page * q.Size }

// FromRequest lee page/size/sort/search de la query string.
func FromRequest(r *http.Request) Query {
	q := Query{
		Sort:   r.URL.Query().Get("sort"),
		Search: r.URL.Query().Get("search"),
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil {
		q.Size = v
	}
	return q.Normalize()
}

// Page es el resultado paginado genérico de los listados.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

func NewPage[T any](items []T, total, page, size int) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	tp := 0
	if size > 0 {
		tp = (total + size - 1) / size
	}
	return Page[T]{Items: items, Total: total, Page: page, Size: size, TotalPages: tp}
}

// Single envuelve un subconjunto ya filtrado como página única
// (listados de propietario: se devuelve todo su alcance sin paginar).
func Single[T any](items []T) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return Page[T]{Items: items, Total: len(items), Page: 0, Size: len(items), TotalPages: 1}
}
