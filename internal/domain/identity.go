package domain

// IdentitySource records which fallback step produced an identity token
type IdentitySource string

const (
	SourceMemoryCache     IdentitySource = "MEMORY_CACHE"
	SourcePersistedStore  IdentitySource = "PERSISTED_STORE"
	SourceDevMock         IdentitySource = "DEV_MOCK"
	SourceNetworkExchange IdentitySource = "NETWORK_EXCHANGE"
)

// IdentityToken is an opaque credential used to authorize initiation
type IdentityToken struct {
	Value  string
	Source IdentitySource
}

func (t IdentityToken) IsZero() bool {
	return t.Value == ""
}
