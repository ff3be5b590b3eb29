package errcode

// Kind 是 API 错误信封中的机器可读分类。
// 前端依赖 kind 做分支处理，不要依赖 message 文本。
type Kind string

const (
	KindValidation  Kind = "validation"
	KindAuth        Kind = "auth"
	KindForbidden   Kind = "forbidden"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindRateLimited Kind = "rate_limited"
	KindServer      Kind = "server"
	// KindNetwork 仅由客户端在传输失败时合成，服务端不会返回。
	KindNetwork Kind = "network"
)

// 通知消息中的错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如资源缺失但流程可继续）
// - 5xxx：系统错误（需要中断流程）
const (
	OK              = 0
	ResourceMissing = 4004
	SystemError     = 5000
)
