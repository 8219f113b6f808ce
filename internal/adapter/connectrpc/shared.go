package connectrpc

import (
	"github.com/eslsoft/vocdrill/internal/repository"
	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
)

func convertPagination(p *v1.PaginationRequest) repository.Pagination {
	if p == nil {
		p = &v1.PaginationRequest{}
	}
	out := repository.Pagination{PageNo: p.PageNo, PageSize: p.PageSize}
	out.Normalize()
	return out
}
