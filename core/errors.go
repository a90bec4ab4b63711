package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 目录级失败（空目录、缺列）是致命错误，用 DomainError 向上抛
//   - 用户级失败（冷启动、数据不足）不是错误，用结果里的 sentinel 表达
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_CATALOG"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeEmptyCatalog  = "EMPTY_CATALOG"  // 目录为空，无法构建向量
	ErrorCodeMissingColumn = "MISSING_COLUMN" // 数据源缺少必需列
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
)

// 模块名称常量
const (
	ModuleCatalog = "catalog"
	ModuleRatings = "ratings"
	ModuleStore   = "store"
	ModuleEngine  = "engine"
)

// 预定义错误
var (
	// ErrEmptyCatalog 表示目录没有任何物品，计算无法进行。
	ErrEmptyCatalog = NewDomainError(ModuleCatalog, ErrorCodeEmptyCatalog, "catalog: no items")

	// ErrStoreNotFound 表示 key 不存在。
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// IsEmptyCatalog 检查错误是否为空目录。
func IsEmptyCatalog(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeEmptyCatalog
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
