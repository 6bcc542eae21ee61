package errs

// 错误码约定：11xx 通用存储/权限，12xx 好友关系，13xx 内容发布，14xx 外部媒体
const (
	ServerInternalError = 500

	NotFoundError         = 1101
	PermissionDeniedError = 1102
	ConflictError         = 1103
	ValidationErrorCode   = 1104
	TokenExpiredError     = 1105

	PrivacyDeniedError    = 1201
	AlreadyFriendsError   = 1202
	AlreadyRequestedError = 1203

	CommentingSuspendedError = 1301
	PostingSuspendedError    = 1302

	UploadFailureError = 1401
)

var (
	ErrInternal = NewCodeError(ServerInternalError, "internal error")

	ErrNotFound         = NewCodeError(NotFoundError, "record not found")
	ErrPermissionDenied = NewCodeError(PermissionDeniedError, "permission denied")
	ErrConflict         = NewCodeError(ConflictError, "write conflict, retries exhausted")
	ErrValidation       = NewCodeError(ValidationErrorCode, "validation failed")
	ErrTokenExpired     = NewCodeError(TokenExpiredError, "token expired or missing")

	ErrPrivacyDenied    = NewCodeError(PrivacyDeniedError, "friend request not allowed by privacy rule")
	ErrAlreadyFriends   = NewCodeError(AlreadyFriendsError, "already friends")
	ErrAlreadyRequested = NewCodeError(AlreadyRequestedError, "friend request already exists")

	ErrCommentingSuspended = NewCodeError(CommentingSuspendedError, "commenting suspended")
	ErrPostingSuspended    = NewCodeError(PostingSuspendedError, "posting suspended")

	ErrUploadFailure = NewCodeError(UploadFailureError, "media upload failed")
)
