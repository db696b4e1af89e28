package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 通用错误。
var (
	InvalidRequest = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	Unauthorized   = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	RateLimited    = Definition{Code: "RATE_LIMITED", Message: "Too many requests"}
)

// 认证相关错误。
var (
	AuthProviderInvalid             = Definition{Code: "AUTH_PROVIDER_INVALID", Message: "Unsupported login provider"}
	LoginInProgress                 = Definition{Code: "LOGIN_IN_PROGRESS", Message: "Login already in progress"}
	ErrTokenGeneratorNotInitialized = Definition{Code: "TOKEN_GENERATOR_NOT_INITIALIZED", Message: "Token generator not initialized"}
)

// 引导流程错误。
var (
	OnboardingGoalInvalid = Definition{Code: "ONBOARDING_GOAL_INVALID", Message: "Onboarding goal invalid"}
)

// 联系人模块错误。
var (
	ContactNameRequired = Definition{Code: "CONTACT_NAME_REQUIRED", Message: "Please enter a name"}
	ContactNotFound     = Definition{Code: "CONTACT_NOT_FOUND", Message: "Contact not found"}
)

// 动态流错误。
var (
	FeedFetchInFlight = Definition{Code: "FEED_FETCH_IN_FLIGHT", Message: "Activity fetch already in progress"}
	FeedViewClosed    = Definition{Code: "FEED_VIEW_CLOSED", Message: "Activity view closed"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidRequest.Code:        InvalidRequest,
	Unauthorized.Code:          Unauthorized,
	RateLimited.Code:           RateLimited,
	AuthProviderInvalid.Code:   AuthProviderInvalid,
	LoginInProgress.Code:       LoginInProgress,
	OnboardingGoalInvalid.Code: OnboardingGoalInvalid,
	ContactNameRequired.Code:   ContactNameRequired,
	ContactNotFound.Code:       ContactNotFound,
	FeedFetchInFlight.Code:     FeedFetchInFlight,
	FeedViewClosed.Code:        FeedViewClosed,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
