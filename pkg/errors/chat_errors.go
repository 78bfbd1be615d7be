package errors

var (
	// Domain errors used across usecases and repositories.
	ErrInvalidPeer        = InvalidArg("peer must carry a non-empty id")
	ErrInvalidPrincipalID = InvalidArg("principal id must be a url-safe token")
	ErrNoPeerSelected     = FailedPrecondition("no chat partner selected")
	ErrEmptyMessage       = InvalidArg("message needs text or an attachment")
	ErrMessageNotFound    = NotFound("message not found")
	ErrUploadInProgress   = FailedPrecondition("an upload is already in progress")
	ErrAttachmentTooLarge = InvalidArg("attachment exceeds the size limit")
	ErrNoPendingRemoval   = FailedPrecondition("no friend removal pending confirmation")
	ErrNotSignedIn        = Unauthorized("no principal signed in")
	ErrInvalidCredentials = Unauthorized("invalid email or password")
	ErrEmailTaken         = AlreadyExists("email is already registered")
	ErrDisplayNameTaken   = AlreadyExists("display name is already taken")
	ErrRateLimited        = Unavailable("too many attempts, try again later")
	ErrUserNotFound       = NotFound("user not found")
)

func ErrBackendWrite(cause error) error {
	return Wrap(CodeUnavailable, "backend write failed", cause)
}

func ErrBackendRead(cause error) error {
	return Wrap(CodeUnavailable, "backend read failed", cause)
}

func ErrSubscriptionFailed(cause error) error {
	return Wrap(CodeUnavailable, "live sync channel failed", cause)
}

func ErrUploadFailed(cause error) error {
	return Wrap(CodeUnavailable, "upload failed", cause)
}

func ErrRegistrationFailed(cause error) error {
	return Wrap(CodeInternal, "registration failed", cause)
}
