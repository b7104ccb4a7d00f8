package consts

const (
	ProviderLinkedIn = "linkedin"
)

const (
	ScopeMemberSocial = "w_member_social"
)

const (
	NonceCookieName = "publish_nonce"
	CSRFHeaderName  = "X-CSRF-Token"
)

const (
	// MaxPostLength LinkedIn 帖文长度上限
	MaxPostLength = 3000
)

const (
	VisibilityPublic      = "PUBLIC"
	VisibilityConnections = "CONNECTIONS"
)
