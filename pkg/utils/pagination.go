package utils

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Pagination 分页请求参数（query: page, limit）
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// PageResult 分页响应结果
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// GetPageOffset 规范化参数并返回 offset, limit
// page 从 1 开始，limit 默认 10，上限 100
func (p *Pagination) GetPageOffset() (int, int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = defaultPageLimit
	case p.Limit > maxPageLimit:
		p.Limit = maxPageLimit
	}
	return (p.Page - 1) * p.Limit, p.Limit
}

// NewPageResult 用已规范化的分页参数组装结果
func NewPageResult(list interface{}, total int64, p Pagination) *PageResult {
	return &PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit}
}
